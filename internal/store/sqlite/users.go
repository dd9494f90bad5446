package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/store"
)

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u     domain.User
		email sql.NullString
	)
	if err := scanner.Scan(&u.ID, &u.Username, &email, &u.PasswordHash); err != nil {
		return nil, err
	}
	u.Email = email.String
	return &u, nil
}

// CreateUser inserts a new user and returns its ID.
// Returns store.ErrAlreadyExists if the username is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO `+TableUsers+` (`+ColUserName+`, `+ColUserEmail+`, `+ColUserPassword+`) VALUES (?, ?, ?)`,
		user.Username, nullString(user.Email), user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrAlreadyExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	return id, nil
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM `+TableUsers+` WHERE `+ColUserID+` = ?`, id)
	return userOrNotFound(scanUser(row))
}

// GetUserByUsername retrieves a user by exact username.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM `+TableUsers+` WHERE `+ColUserName+` = ?`, username)
	return userOrNotFound(scanUser(row))
}

func userOrNotFound(u *domain.User, err error) (*domain.User, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
