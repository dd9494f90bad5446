package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/store"
)

func newUser(username string) *domain.User {
	return &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
	}
}

func mustCreateUser(t *testing.T, s *Store, username string) int64 {
	t.Helper()
	id, err := s.CreateUser(context.Background(), newUser(username))
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return id
}

func TestCreateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newUser("ana")
	id, err := s.CreateUser(ctx, u)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}
	if u.ID != id {
		t.Errorf("expected user.ID to be set to %d, got %d", id, u.ID)
	}

	got, err := s.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "ana" || got.Email != "ana@example.com" || got.PasswordHash != u.PasswordHash {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestCreateUser_IDsIncrease(t *testing.T) {
	s := newTestStore(t)

	first := mustCreateUser(t, s, "ana")
	second := mustCreateUser(t, s, "ben")
	if second <= first {
		t.Errorf("expected ids to increase, got %d then %d", first, second)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "ana")

	_, err := s.CreateUser(ctx, newUser("ana"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// The original row is untouched.
	got, err := s.GetUserByUsername(ctx, "ana")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("expected original user id 1, got %d", got.ID)
	}
}

func TestCreateUser_EmailOptional(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newUser("ana")
	u.Email = ""
	id, err := s.CreateUser(ctx, u)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "" {
		t.Errorf("expected empty email, got %q", got.Email)
	}
}

func TestGetUserByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := mustCreateUser(t, s, "ana")

	got, err := s.GetUserByUsername(ctx, "ana")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != id {
		t.Errorf("expected id %d, got %d", id, got.ID)
	}

	// Usernames are matched exactly.
	if _, err := s.GetUserByUsername(ctx, "ANA"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for different case, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetUser(context.Background(), 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByUsername(context.Background(), "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
