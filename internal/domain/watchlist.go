package domain

import (
	"fmt"
	"strings"
)

// Status is a user's viewing state for a movie in their watch list.
type Status string

const (
	// StatusPending means the movie is saved to watch later.
	StatusPending Status = "PENDING"
	// StatusWatching means the user has started the movie.
	StatusWatching Status = "WATCHING"
	// StatusWatched means the user has finished the movie.
	StatusWatched Status = "WATCHED"
	// StatusAbandoned means the user gave up on the movie.
	StatusAbandoned Status = "ABANDONED"
)

// DefaultStatus is assigned to entries added without an explicit status.
const DefaultStatus = StatusPending

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusWatching, StatusWatched, StatusAbandoned}
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusWatching, StatusWatched, StatusAbandoned:
		return true
	}
	return false
}

// ParseStatus converts user input to a Status. Matching ignores case and
// surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// WatchListEntry is one movie saved by one user.
//
// Title and PosterPath are copied from the catalog when the entry is added
// and are not refreshed afterwards. MovieID is the catalog's identifier.
type WatchListEntry struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	MovieID    int64  `json:"movie_id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path,omitempty"`
	Status     Status `json:"status"`
}

// WatchListStats summarizes a user's watch list.
type WatchListStats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}

// NewWatchListStats returns stats with every status present and zeroed.
func NewWatchListStats() *WatchListStats {
	by := make(map[Status]int, 4)
	for _, s := range Statuses() {
		by[s] = 0
	}
	return &WatchListStats{ByStatus: by}
}
