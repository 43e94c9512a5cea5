package service

import (
	"context"
	"fmt"
	"time"

	"github.com/msomdec/library-catalog/internal/domain"
)

// LoanService runs the borrow/return workflow.
type LoanService struct {
	loans domain.LoanRepository
	now   func() time.Time
}

// NewLoanService creates a new LoanService.
func NewLoanService(loans domain.LoanRepository) *LoanService {
	return &LoanService{loans: loans, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (s *LoanService) WithClock(now func() time.Time) *LoanService {
	s.now = now
	return s
}

// Borrow checks out one copy of a book to the caller, due LoanPeriod from now.
// A zero bookID means the field was missing; any other id that names no book
// is reported as not found.
func (s *LoanService) Borrow(ctx context.Context, caller domain.Principal, bookID int64) (*domain.LoanView, error) {
	if bookID == 0 {
		return nil, fmt.Errorf("%w: missing book_id", domain.ErrInvalidInput)
	}
	return s.loans.Borrow(ctx, caller.UserID, bookID, s.now())
}

// Return closes a loan. The caller must own the loan or be an admin.
func (s *LoanService) Return(ctx context.Context, caller domain.Principal, loanID int64) error {
	return s.loans.Return(ctx, loanID, caller, s.now())
}

// List returns every loan for admins and only the caller's own loans otherwise.
func (s *LoanService) List(ctx context.Context, caller domain.Principal) ([]domain.LoanView, error) {
	if caller.IsAdmin() {
		return s.loans.ListAll(ctx)
	}
	return s.loans.ListByUser(ctx, caller.UserID)
}
