package handler

import (
	"net/http"
	"strings"

	"github.com/msomdec/library-catalog/internal/domain"
	"github.com/msomdec/library-catalog/internal/service"
)

const msgBookNotFound = "Book not found"

// BookHandler handles catalog HTTP requests.
type BookHandler struct {
	catalog *service.CatalogService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(catalog *service.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

// HandleList returns the books matching the query filters.
// GET /api/books?search=&category=&available_only=true
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.BookFilter{
		Search:        q.Get("search"),
		Category:      q.Get("category"),
		AvailableOnly: strings.EqualFold(q.Get("available_only"), "true"),
	}

	books, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, "list books", err, "")
		return
	}
	writeJSON(w, http.StatusOK, toBookDTOs(books))
}

// HandleGet returns a single book.
// GET /api/books/{id}
func (h *BookHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	book, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get book", err, msgBookNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toBookDTO(book))
}

// HandleCreate adds a book. Admin only.
// POST /api/books
func (h *BookHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	var req struct {
		ISBN            *string `json:"isbn"`
		Title           string  `json:"title"`
		Author          string  `json:"author"`
		Category        *string `json:"category"`
		TotalCopies     *int    `json:"total_copies"`
		AvailableCopies *int    `json:"available_copies"`
		Description     *string `json:"description"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.catalog.Create(r.Context(), p, service.CreateBookInput{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Category:        req.Category,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.AvailableCopies,
		Description:     req.Description,
	})
	if err != nil {
		writeServiceError(w, "create book", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, toBookDTO(book))
}

// HandleUpdate applies a partial update; only keys present in the body are
// written. Admin only.
// PUT /api/books/{id}
func (h *BookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, _ := PrincipalFromContext(r.Context())

	var patch domain.BookPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.catalog.Update(r.Context(), p, id, patch)
	if err != nil {
		writeServiceError(w, "update book", err, msgBookNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toBookDTO(book))
}

// HandleDelete removes a book. Admin only.
// DELETE /api/books/{id}
func (h *BookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, _ := PrincipalFromContext(r.Context())

	if err := h.catalog.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, "delete book", err, msgBookNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Book deleted successfully")
}
