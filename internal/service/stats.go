package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/store"
)

// StatsService summarizes watch lists.
type StatsService struct {
	store  store.WatchListStore
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(st store.WatchListStore, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{
		store:  st,
		logger: logger,
	}
}

// Stats returns the number of entries per status for userID. Total is the
// sum of the per-status counts.
func (s *StatsService) Stats(ctx context.Context, userID int64) (*domain.WatchListStats, error) {
	counts, err := s.store.CountEntriesGroupedByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count entries by status: %w", err)
	}

	stats := domain.NewWatchListStats()
	for _, st := range domain.Statuses() {
		stats.ByStatus[st] = counts[st]
		stats.Total += counts[st]
	}

	s.logger.Debug("watch-list stats", "user_id", userID, "total", stats.Total)
	return stats, nil
}

// Count returns the number of entries in userID's list, optionally
// restricted to one status.
func (s *StatsService) Count(ctx context.Context, userID int64, status domain.Status) (int, error) {
	if status == "" {
		n, err := s.store.CountEntries(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("count entries: %w", err)
		}
		return n, nil
	}
	n, err := s.store.CountEntriesByStatus(ctx, userID, status)
	if err != nil {
		return 0, fmt.Errorf("count entries by status: %w", err)
	}
	return n, nil
}
