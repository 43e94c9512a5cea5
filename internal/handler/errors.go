package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/msomdec/library-catalog/internal/domain"
)

const msgInternal = "An unexpected error occurred. Please try again."

var errorResponses = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrNotAvailable, http.StatusBadRequest, "Book is not available"},
	{domain.ErrAlreadyBorrowed, http.StatusBadRequest, "You already have this book borrowed"},
	{domain.ErrAlreadyReturned, http.StatusBadRequest, "Book already returned"},
	{domain.ErrDuplicateISBN, http.StatusBadRequest, "A book with that ISBN already exists"},
	{domain.ErrDuplicateEmail, http.StatusConflict, "Email already exists"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "Invalid credentials"},
	{domain.ErrForbidden, http.StatusForbidden, "Admin access required"},
	{domain.ErrNotFound, http.StatusNotFound, "Not found"},
}

// writeServiceError maps a service error onto its HTTP status. notFound, when
// non-empty, replaces the generic 404 message. Unmapped errors are logged
// under op and reported as 500.
func writeServiceError(w http.ResponseWriter, op string, err error, notFound string) {
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, inputMessage(err))
		return
	}
	for _, resp := range errorResponses {
		if !errors.Is(err, resp.err) {
			continue
		}
		msg := resp.message
		if resp.err == domain.ErrNotFound && notFound != "" {
			msg = notFound
		}
		writeError(w, resp.status, msg)
		return
	}

	slog.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// inputMessage turns "invalid input: missing book_id" into "Missing book_id".
func inputMessage(err error) string {
	prefix := domain.ErrInvalidInput.Error() + ": "
	msg := err.Error()
	i := strings.Index(msg, prefix)
	if i < 0 || i+len(prefix) == len(msg) {
		return "Invalid input"
	}
	msg = msg[i+len(prefix):]
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
