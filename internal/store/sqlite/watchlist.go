package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/store"
)

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.WatchListEntry, error) {
	var (
		e      domain.WatchListEntry
		title  sql.NullString
		poster sql.NullString
		status string
	)
	if err := scanner.Scan(&e.ID, &e.UserID, &e.MovieID, &title, &poster, &status); err != nil {
		return nil, err
	}
	e.Title = title.String
	e.PosterPath = poster.String
	e.Status = domain.Status(status)
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]*domain.WatchListEntry, error) {
	defer rows.Close()

	entries := []*domain.WatchListEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// EntryExists reports whether userID has movieID in their watch list.
func (s *Store) EntryExists(ctx context.Context, userID, movieID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+TableWatchList+` WHERE `+ColEntryUserID+` = ? AND `+ColEntryMovieID+` = ?)`,
		userID, movieID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check watch-list entry: %w", err)
	}
	return exists, nil
}

// AddEntry inserts entry and returns its new ID. An empty status is stored
// as domain.DefaultStatus.
// Returns store.ErrAlreadyExists if the user already has the movie; the
// existing row is left as it was.
func (s *Store) AddEntry(ctx context.Context, entry *domain.WatchListEntry) (int64, error) {
	status := entry.Status
	if status == "" {
		status = domain.DefaultStatus
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO `+TableWatchList+` (`+ColEntryUserID+`, `+ColEntryMovieID+`, `+ColEntryTitle+`, `+ColEntryPoster+`, `+ColEntryStatus+`)
		VALUES (?, ?, ?, ?, ?)`,
		entry.UserID, entry.MovieID, entry.Title, nullString(entry.PosterPath), string(status),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrAlreadyExists
		}
		return 0, fmt.Errorf("insert watch-list entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert watch-list entry: %w", err)
	}
	entry.ID = id
	entry.Status = status
	return id, nil
}

// RemoveEntry deletes the user's entry for movieID and returns the number
// of rows removed.
func (s *Store) RemoveEntry(ctx context.Context, userID, movieID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM `+TableWatchList+` WHERE `+ColEntryUserID+` = ? AND `+ColEntryMovieID+` = ?`,
		userID, movieID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete watch-list entry: %w", err)
	}
	return res.RowsAffected()
}

// SetEntryStatus changes the status of the user's entry for movieID and
// returns the number of rows updated.
func (s *Store) SetEntryStatus(ctx context.Context, userID, movieID int64, status domain.Status) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+TableWatchList+` SET `+ColEntryStatus+` = ? WHERE `+ColEntryUserID+` = ? AND `+ColEntryMovieID+` = ?`,
		string(status), userID, movieID,
	)
	if err != nil {
		return 0, fmt.Errorf("update watch-list status: %w", err)
	}
	return res.RowsAffected()
}

// GetEntry retrieves one entry.
// Returns store.ErrNotFound if the user does not have the movie.
func (s *Store) GetEntry(ctx context.Context, userID, movieID int64) (*domain.WatchListEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM `+TableWatchList+` WHERE `+ColEntryUserID+` = ? AND `+ColEntryMovieID+` = ?`,
		userID, movieID,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get watch-list entry: %w", err)
	}
	return e, nil
}

// ListEntries returns every entry of the user, newest first.
func (s *Store) ListEntries(ctx context.Context, userID int64) ([]*domain.WatchListEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM `+TableWatchList+` WHERE `+ColEntryUserID+` = ?`+entryOrder,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list watch list: %w", err)
	}
	return collectEntries(rows)
}

// ListEntriesPage returns at most params.Limit entries of the user, newest
// first, skipping the first params.Offset. Out-of-range params fail with
// store.ErrInvalidPage instead of reading a different window.
func (s *Store) ListEntriesPage(ctx context.Context, userID int64, params store.OffsetParams) ([]*domain.WatchListEntry, error) {
	if err := params.Check(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM `+TableWatchList+` WHERE `+ColEntryUserID+` = ?`+entryOrder+` LIMIT ? OFFSET ?`,
		userID, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list watch-list page: %w", err)
	}
	return collectEntries(rows)
}

// ListAllEntries returns every entry of every user. Used to rebuild the
// search index.
func (s *Store) ListAllEntries(ctx context.Context) ([]*domain.WatchListEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM `+TableWatchList+` ORDER BY `+ColEntryUserID+`, `+ColEntryID+` DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all watch-list entries: %w", err)
	}
	return collectEntries(rows)
}

// CountEntries returns the number of entries in the user's watch list.
func (s *Store) CountEntries(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+TableWatchList+` WHERE `+ColEntryUserID+` = ?`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count watch list: %w", err)
	}
	return n, nil
}

// CountEntriesByStatus returns the number of the user's entries with status.
func (s *Store) CountEntriesByStatus(ctx context.Context, userID int64, status domain.Status) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+TableWatchList+` WHERE `+ColEntryUserID+` = ? AND `+ColEntryStatus+` = ?`,
		userID, string(status),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count watch list by status: %w", err)
	}
	return n, nil
}

// CountEntriesGroupedByStatus returns per-status counts in one query.
// Every status is present in the result, zero when the user has none.
func (s *Store) CountEntriesGroupedByStatus(ctx context.Context, userID int64) (map[domain.Status]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ColEntryStatus+`, COUNT(*) FROM `+TableWatchList+` WHERE `+ColEntryUserID+` = ? GROUP BY `+ColEntryStatus,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("count watch list by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int, 4)
	for _, st := range domain.Statuses() {
		counts[st] = 0
	}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.Status(status)] = n
	}
	return counts, rows.Err()
}
