package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/library-catalog/internal/domain"
	"github.com/msomdec/library-catalog/internal/repository/sqlite"
)

func createUser(t *testing.T, db *sqlite.DB, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, FullName: email, PasswordHash: "h", Role: role}
	require.NoError(t, db.Users().Create(context.Background(), user))
	return user
}

func principalOf(u *domain.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func TestLoanRepository_BorrowDecrementsCopies(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "reader@example.com", domain.RoleStudent)
	book := createBook(t, db.Books(), "Dune", "Frank Herbert", nil, nil, 2)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, err := db.Loans().Borrow(ctx, user.ID, book.ID, now)
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusActive, loan.Status)
	assert.Equal(t, "Dune", loan.Title)
	assert.Equal(t, "Frank Herbert", loan.Author)
	assert.True(t, loan.BorrowDate.Equal(now))
	assert.True(t, loan.DueDate.Equal(now.Add(14*24*time.Hour)))
	assert.Nil(t, loan.ReturnDate)

	after, err := db.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.AvailableCopies)
}

func TestLoanRepository_BorrowErrors(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "reader@example.com", domain.RoleStudent)
	empty := createBook(t, db.Books(), "Empty", "A", nil, nil, 0)
	book := createBook(t, db.Books(), "Full", "B", nil, nil, 3)

	_, err := db.Loans().Borrow(ctx, user.ID, 9999, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = db.Loans().Borrow(ctx, user.ID, empty.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotAvailable)

	_, err = db.Loans().Borrow(ctx, user.ID, book.ID, time.Now())
	require.NoError(t, err)
	_, err = db.Loans().Borrow(ctx, user.ID, book.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrAlreadyBorrowed)

	loans, err := db.Loans().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, loans, 1)

	got, err := db.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableCopies)

	gotEmpty, err := db.Books().GetByID(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotEmpty.AvailableCopies)
}

func TestLoanRepository_ReturnRestoresCopies(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "reader@example.com", domain.RoleStudent)
	book := createBook(t, db.Books(), "Dune", "Frank Herbert", nil, nil, 1)

	loan, err := db.Loans().Borrow(ctx, user.ID, book.ID, time.Now())
	require.NoError(t, err)

	require.NoError(t, db.Loans().Return(ctx, loan.ID, principalOf(user), time.Now()))

	stored, err := db.Loans().GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusReturned, stored.Status)
	assert.NotNil(t, stored.ReturnDate)

	got, err := db.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies)

	err = db.Loans().Return(ctx, loan.ID, principalOf(user), time.Now())
	assert.ErrorIs(t, err, domain.ErrAlreadyReturned)

	got, err = db.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies, "a rejected return must not change counts")

	// The pair may borrow again once the previous loan is returned.
	_, err = db.Loans().Borrow(ctx, user.ID, book.ID, time.Now())
	require.NoError(t, err)
}

func TestLoanRepository_ReturnAuthorization(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com", domain.RoleStudent)
	other := createUser(t, db, "other@example.com", domain.RoleStudent)
	admin := createUser(t, db, "admin@example.com", domain.RoleAdmin)
	book := createBook(t, db.Books(), "Dune", "Frank Herbert", nil, nil, 1)

	loan, err := db.Loans().Borrow(ctx, owner.ID, book.ID, time.Now())
	require.NoError(t, err)

	err = db.Loans().Return(ctx, loan.ID, principalOf(other), time.Now())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, db.Loans().Return(ctx, loan.ID, principalOf(admin), time.Now()))

	err = db.Loans().Return(ctx, 4040, principalOf(admin), time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoanRepository_ConcurrentBorrowOfLastCopy(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	book := createBook(t, db.Books(), "Last Copy", "A", nil, nil, 1)

	const borrowers = 8
	users := make([]*domain.User, borrowers)
	for i := range users {
		users[i] = createUser(t, db, "u"+string(rune('a'+i))+"@example.com", domain.RoleStudent)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		other     []error
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := db.Loans().Borrow(ctx, userID, book.ID, time.Now())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrNotAvailable):
			default:
				other = append(other, err)
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, succeeded)

	got, err := db.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableCopies)

	all, err := db.Loans().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLoanRepository_Listings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com", domain.RoleStudent)
	bob := createUser(t, db, "bob@example.com", domain.RoleStudent)
	first := createBook(t, db.Books(), "First", "A", nil, nil, 2)
	second := createBook(t, db.Books(), "Second", "B", nil, nil, 2)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := db.Loans().Borrow(ctx, alice.ID, first.ID, base)
	require.NoError(t, err)
	_, err = db.Loans().Borrow(ctx, alice.ID, second.ID, base.Add(time.Hour))
	require.NoError(t, err)
	_, err = db.Loans().Borrow(ctx, bob.ID, first.ID, base.Add(2*time.Hour))
	require.NoError(t, err)

	mine, err := db.Loans().ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Second", mine[0].Title, "newest borrow first")
	assert.Nil(t, mine[0].Email)

	all, err := db.Loans().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.NotNil(t, all[0].Email)
	assert.Equal(t, "bob@example.com", *all[0].Email)
	require.NotNil(t, all[0].FullName)
}

func TestLoanRepository_DeletedBookLeavesLoan(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "reader@example.com", domain.RoleStudent)
	book := createBook(t, db.Books(), "Doomed", "A", nil, nil, 1)

	loan, err := db.Loans().Borrow(ctx, user.ID, book.ID, time.Now())
	require.NoError(t, err)

	require.NoError(t, db.Books().Delete(ctx, book.ID))

	stored, err := db.Loans().GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, stored.BookID)

	// Returning an orphaned loan still closes it.
	require.NoError(t, db.Loans().Return(ctx, loan.ID, principalOf(user), time.Now()))
}
