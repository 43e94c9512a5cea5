package domain

import (
	"context"
	"time"
)

// LoanStatus is the lifecycle state of a loan: active, then returned (terminal).
type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
)

// LoanPeriod is how long a borrower may keep a copy.
const LoanPeriod = 14 * 24 * time.Hour

// Loan is one copy of a book checked out by a user.
type Loan struct {
	ID         int64      `db:"id"`
	UserID     int64      `db:"user_id"`
	BookID     int64      `db:"book_id"`
	BorrowDate time.Time  `db:"borrow_date"`
	DueDate    time.Time  `db:"due_date"`
	ReturnDate *time.Time `db:"return_date"`
	Status     LoanStatus `db:"status"`
}

// LoanView is a loan joined with the display fields of its book and, in
// admin listings, its borrower.
type LoanView struct {
	Loan
	Title    string  `db:"title"`
	Author   string  `db:"author"`
	Email    *string `db:"email"`
	FullName *string `db:"full_name"`
}

// LoanRepository defines the loan workflow's persistence operations. Borrow
// and Return must apply the loan change and the copy-count change atomically.
type LoanRepository interface {
	Borrow(ctx context.Context, userID, bookID int64, now time.Time) (*LoanView, error)
	Return(ctx context.Context, loanID int64, caller Principal, now time.Time) error
	GetByID(ctx context.Context, id int64) (*Loan, error)
	ListAll(ctx context.Context) ([]LoanView, error)
	ListByUser(ctx context.Context, userID int64) ([]LoanView, error)
}
