package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/library-catalog/internal/domain"
	"github.com/msomdec/library-catalog/internal/service"
)

// LoanHandler handles the borrow/return workflow.
type LoanHandler struct {
	loans *service.LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loans *service.LoanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

// HandleList returns every loan for admins and the caller's own loans otherwise.
// GET /api/loans
func (h *LoanHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	loans, err := h.loans.List(r.Context(), p)
	if err != nil {
		writeServiceError(w, "list loans", err, "")
		return
	}
	writeJSON(w, http.StatusOK, toLoanDTOs(loans))
}

// HandleBorrow checks out a copy of a book to the caller.
// POST /api/loans
// Request:  {"book_id": 1}
func (h *LoanHandler) HandleBorrow(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	var req struct {
		BookID int64 `json:"book_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	loan, err := h.loans.Borrow(r.Context(), p, req.BookID)
	if err != nil {
		writeServiceError(w, "borrow book", err, msgBookNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, toLoanDTO(loan))
}

// HandleReturn closes a loan. Only the borrower or an admin may return it.
// POST /api/loans/{id}/return
func (h *LoanHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, _ := PrincipalFromContext(r.Context())

	if err := h.loans.Return(r.Context(), p, id); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			writeError(w, http.StatusForbidden, "Unauthorized")
			return
		}
		writeServiceError(w, "return book", err, "Loan not found")
		return
	}
	writeMessage(w, http.StatusOK, "Book returned successfully")
}
