package service

import (
	"context"

	"github.com/msomdec/library-catalog/internal/domain"
)

// StatsService reports catalog-wide aggregates.
type StatsService struct {
	stats domain.StatsRepository
}

func NewStatsService(stats domain.StatsRepository) *StatsService {
	return &StatsService{stats: stats}
}

// Get returns the dashboard counters. Admin only.
func (s *StatsService) Get(ctx context.Context, caller domain.Principal) (*domain.Stats, error) {
	if err := domain.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return s.stats.Get(ctx)
}
