package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/library-catalog/internal/domain"
	"github.com/msomdec/library-catalog/internal/service"
)

func TestStatsService_Get(t *testing.T) {
	f := newLoanFixture(t)
	ctx := context.Background()
	stats := service.NewStatsService(f.db.Stats())

	student := f.principal(t, "s@example.com", "")
	f.principal(t, "t@example.com", "")
	a := f.book(t, "A", 3)
	f.book(t, "B", 2)

	_, err := f.loans.Borrow(ctx, student, a.ID)
	require.NoError(t, err)

	got, err := stats.Get(ctx, adminCaller)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{TotalBooks: 2, AvailableBooks: 4, TotalUsers: 2, ActiveLoans: 1}, *got)

	_, err = stats.Get(ctx, student)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestStatsService_Empty(t *testing.T) {
	stats := service.NewStatsService(newTestDB(t).Stats())

	got, err := stats.Get(context.Background(), adminCaller)
	require.NoError(t, err)
	assert.Zero(t, *got)
}
