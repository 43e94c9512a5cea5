package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/library-catalog/internal/domain"
)

func TestStatsRepository_Empty(t *testing.T) {
	db := newTestDB(t)

	stats, err := db.Stats().Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, *stats)
}

func TestStatsRepository_Counts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "reader@example.com", domain.RoleStudent)
	createUser(t, db, "admin@example.com", domain.RoleAdmin)
	book := createBook(t, db.Books(), "A", "X", nil, nil, 3)
	createBook(t, db.Books(), "B", "Y", nil, nil, 2)

	_, err := db.Loans().Borrow(ctx, user.ID, book.ID, time.Now())
	require.NoError(t, err)

	stats, err := db.Stats().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalBooks)
	assert.Equal(t, 4, stats.AvailableBooks)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveLoans)
}
