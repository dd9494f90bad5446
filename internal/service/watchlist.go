package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	domainerrors "github.com/cinesphere/cinesphere-server/internal/errors"
	"github.com/cinesphere/cinesphere-server/internal/store"
	"github.com/cinesphere/cinesphere-server/internal/validation"
)

// SearchIndex finds movies in a user's watch list by title.
type SearchIndex interface {
	IndexEntry(e *domain.WatchListEntry) error
	DeleteEntry(userID, movieID int64) error
	Search(ctx context.Context, userID int64, query string, limit int) ([]int64, error)
	Rebuild(entries []*domain.WatchListEntry) error
}

// WatchListService manages users' watch lists.
//
// The store is authoritative. Index updates happen after the store write
// succeeds and a failed index update is logged, not returned.
type WatchListService struct {
	store     store.WatchListStore
	index     SearchIndex
	validator *validation.Validator
	pageSize  int
	logger    *slog.Logger
}

// NewWatchListService creates a watch-list service. pageSize is used
// when a page request carries no limit.
func NewWatchListService(
	st store.WatchListStore,
	index SearchIndex,
	validator *validation.Validator,
	pageSize int,
	logger *slog.Logger,
) *WatchListService {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = store.DefaultPageSize
	}
	return &WatchListService{
		store:     st,
		index:     index,
		validator: validator,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// AddRequest is a movie to save to the caller's watch list.
type AddRequest struct {
	MovieID    int64  `json:"movie_id" validate:"gt=0"`
	Title      string `json:"title" validate:"required,max=500"`
	PosterPath string `json:"poster_path,omitempty" validate:"max=500"`
	Status     string `json:"status,omitempty" validate:"watchstatus"`
}

// Add saves a movie to userID's list. Adding a movie that is already
// there fails with AlreadyExists and leaves the stored entry as it was.
func (s *WatchListService) Add(ctx context.Context, userID int64, req AddRequest) (*domain.WatchListEntry, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	entry := &domain.WatchListEntry{
		UserID:     userID,
		MovieID:    req.MovieID,
		Title:      req.Title,
		PosterPath: req.PosterPath,
		Status:     domain.Status(req.Status),
	}
	if entry.Status == "" {
		entry.Status = domain.DefaultStatus
	}

	entryID, err := s.store.AddEntry(ctx, entry)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("movie already in watch list")
		}
		return nil, fmt.Errorf("add entry: %w", err)
	}
	entry.ID = entryID

	if err := s.index.IndexEntry(entry); err != nil {
		s.logger.Warn("failed to index watch-list entry",
			"user_id", userID,
			"movie_id", req.MovieID,
			"error", err,
		)
	}

	s.logger.Debug("movie added to watch list", "user_id", userID, "movie_id", req.MovieID, "status", entry.Status)
	return entry, nil
}

// Remove deletes a movie from userID's list.
func (s *WatchListService) Remove(ctx context.Context, userID, movieID int64) error {
	n, err := s.store.RemoveEntry(ctx, userID, movieID)
	if err != nil {
		return fmt.Errorf("remove entry: %w", err)
	}
	if n == 0 {
		return domainerrors.NotFound("movie not in watch list")
	}

	if err := s.index.DeleteEntry(userID, movieID); err != nil {
		s.logger.Warn("failed to remove watch-list entry from index",
			"user_id", userID,
			"movie_id", movieID,
			"error", err,
		)
	}
	return nil
}

// SetStatus changes the status of a movie in userID's list.
func (s *WatchListService) SetStatus(ctx context.Context, userID, movieID int64, status string) error {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"status": "must be one of: PENDING WATCHING WATCHED ABANDONED",
		})
	}

	n, err := s.store.SetEntryStatus(ctx, userID, movieID, st)
	if err != nil {
		return fmt.Errorf("set entry status: %w", err)
	}
	if n == 0 {
		return domainerrors.NotFound("movie not in watch list")
	}
	return nil
}

// Exists reports whether movieID is in userID's list.
func (s *WatchListService) Exists(ctx context.Context, userID, movieID int64) (bool, error) {
	ok, err := s.store.EntryExists(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("check entry: %w", err)
	}
	return ok, nil
}

// Get returns one entry of userID's list.
func (s *WatchListService) Get(ctx context.Context, userID, movieID int64) (*domain.WatchListEntry, error) {
	entry, err := s.store.GetEntry(ctx, userID, movieID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("movie not in watch list")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// List returns userID's whole list, newest first.
func (s *WatchListService) List(ctx context.Context, userID int64) ([]*domain.WatchListEntry, error) {
	entries, err := s.store.ListEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Page returns one page of userID's list. A zero limit uses the
// configured page size; any other limit outside 1..store.MaxPageSize is
// a validation error.
func (s *WatchListService) Page(
	ctx context.Context,
	userID int64,
	params store.OffsetParams,
) (*store.OffsetPage[*domain.WatchListEntry], error) {
	if params.Limit == 0 {
		params.Limit = s.pageSize
	}
	if err := params.Check(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	entries, err := s.store.ListEntriesPage(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list entries page: %w", err)
	}
	return store.NewOffsetPage(entries, params), nil
}

// Search finds entries in userID's list whose title matches query.
func (s *WatchListService) Search(ctx context.Context, userID int64, query string, limit int) ([]*domain.WatchListEntry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"q": "is required",
		})
	}

	ids, err := s.index.Search(ctx, userID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search watch list: %w", err)
	}

	entries := make([]*domain.WatchListEntry, 0, len(ids))
	for _, movieID := range ids {
		entry, err := s.store.GetEntry(ctx, userID, movieID)
		if errors.Is(err, store.ErrNotFound) {
			// Index is behind the store; drop the hit.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Reindex rebuilds the search index from the store.
func (s *WatchListService) Reindex(ctx context.Context) error {
	entries, err := s.store.ListAllEntries(ctx)
	if err != nil {
		return fmt.Errorf("list all entries: %w", err)
	}
	if err := s.index.Rebuild(entries); err != nil {
		return fmt.Errorf("rebuild search index: %w", err)
	}
	return nil
}
