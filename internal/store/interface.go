// Package store defines the persistence contracts for the CineSphere server.
package store

import (
	"context"

	"github.com/cinesphere/cinesphere-server/internal/domain"
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts user and returns its new ID.
	// Returns ErrAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, user *domain.User) (int64, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// WatchListStore persists per-user watch-list entries.
//
// All reads are scoped to one user and ordered newest first (ID descending),
// so concatenating every page yields the same sequence as ListEntries.
type WatchListStore interface {
	EntryExists(ctx context.Context, userID, movieID int64) (bool, error)
	// AddEntry inserts entry and returns its new ID. Returns
	// ErrAlreadyExists, leaving the stored entry untouched, if the user
	// already has the movie.
	AddEntry(ctx context.Context, entry *domain.WatchListEntry) (int64, error)
	// RemoveEntry returns the number of rows deleted (0 or 1).
	RemoveEntry(ctx context.Context, userID, movieID int64) (int64, error)
	// SetEntryStatus returns the number of rows updated (0 or 1).
	SetEntryStatus(ctx context.Context, userID, movieID int64, status domain.Status) (int64, error)
	GetEntry(ctx context.Context, userID, movieID int64) (*domain.WatchListEntry, error)
	ListEntries(ctx context.Context, userID int64) ([]*domain.WatchListEntry, error)
	ListEntriesPage(ctx context.Context, userID int64, params OffsetParams) ([]*domain.WatchListEntry, error)
	ListAllEntries(ctx context.Context) ([]*domain.WatchListEntry, error)
	CountEntries(ctx context.Context, userID int64) (int, error)
	CountEntriesByStatus(ctx context.Context, userID int64, status domain.Status) (int, error)
	CountEntriesGroupedByStatus(ctx context.Context, userID int64) (map[domain.Status]int, error)
}

// Store is the full persistence surface.
type Store interface {
	UserStore
	WatchListStore
	Ping(ctx context.Context) error
	Close() error
}
