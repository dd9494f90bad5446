package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	domainerrors "github.com/cinesphere/cinesphere-server/internal/errors"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getWatchListStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Watch-list statistics",
		Description: "Returns the number of entries in the caller's watch list, in total and per status",
		Tags:        []string{"Stats"},
		Security:    bearerAuth,
	}, s.handleGetStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "countWatchList",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/count",
		Summary:     "Count entries",
		Description: "Counts the caller's watch-list entries, optionally only those with one status",
		Tags:        []string{"Stats"},
		Security:    bearerAuth,
	}, s.handleCountWatchList)
}

// StatsOutput wraps watch-list stats for Huma.
type StatsOutput struct {
	Body *domain.WatchListStats
}

// CountInput optionally filters the count by status.
type CountInput struct {
	Status string `query:"status" doc:"PENDING, WATCHING, WATCHED or ABANDONED; empty counts every entry"`
}

// CountResponse holds an entry count.
type CountResponse struct {
	Status string `json:"status,omitempty" doc:"Status counted, if filtered"`
	Count  int    `json:"count" doc:"Number of entries"`
}

// CountOutput wraps a count for Huma.
type CountOutput struct {
	Body CountResponse
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StatsOutput{Body: stats}, nil
}

func (s *Server) handleCountWatchList(ctx context.Context, input *CountInput) (*CountOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	var status domain.Status
	if input.Status != "" {
		status, err = domain.ParseStatus(input.Status)
		if err != nil {
			return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
				"status": "must be one of: PENDING WATCHING WATCHED ABANDONED",
			})
		}
	}

	n, err := s.services.Stats.Count(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	return &CountOutput{Body: CountResponse{Status: string(status), Count: n}}, nil
}
