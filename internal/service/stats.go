package service

import (
	"context"

	"github.com/xolan/certtrack/internal/stats"
)

// StatsService provides statistics operations
type StatsService struct {
	owner *documentOwner
}

// NewStatsService creates a new StatsService
func NewStatsService(owner *documentOwner) *StatsService {
	return &StatsService{owner: owner}
}

// Summary returns totals and the per-category breakdown of the course log.
func (s *StatsService) Summary(ctx context.Context) (*StatsResult, error) {
	doc, err := s.owner.read(ctx)
	if err != nil {
		return nil, err
	}

	return &StatsResult{
		Statistics: stats.CalculateStatistics(doc.Courses, doc.State),
		Categories: stats.CalculateCategoryBreakdown(doc.Courses),
		State:      doc.State,
	}, nil
}
