package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cinesphere/cinesphere-server/internal/auth"
	"github.com/cinesphere/cinesphere-server/internal/domain"
	domainerrors "github.com/cinesphere/cinesphere-server/internal/errors"
	"github.com/cinesphere/cinesphere-server/internal/id"
	"github.com/cinesphere/cinesphere-server/internal/session"
	"github.com/cinesphere/cinesphere-server/internal/store"
	"github.com/cinesphere/cinesphere-server/internal/validation"
)

// SessionStore persists login sessions.
type SessionStore interface {
	Create(ctx context.Context, sess *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	CountForUser(ctx context.Context, userID int64) (int, error)
}

// AuthService handles registration, login and access token verification.
type AuthService struct {
	users     store.UserStore
	hasher    *auth.Hasher
	tokens    *auth.TokenService
	sessions  SessionStore
	validator *validation.Validator
	logger    *slog.Logger

	// dummyHash is verified against when the username is unknown so both
	// failure paths cost one hash.
	dummyHash func() string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users store.UserStore,
	hasher *auth.Hasher,
	tokens *auth.TokenService,
	sessions SessionStore,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		sessions:  sessions,
		validator: validator,
		logger:    logger,
		dummyHash: sync.OnceValue(func() string {
			h, err := hasher.Hash("cinesphere-dummy-password")
			if err != nil {
				return ""
			}
			return h
		}),
	}
}

// RegisterRequest contains the data for a new account. Only empty or
// oversized fields are rejected; the username's uniqueness is left to
// the store.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email,omitempty" validate:"max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	AccessToken    string       `json:"access_token"`
	TokenType      string       `json:"token_type"`
	ExpiresIn      int          `json:"expires_in"` // seconds
	SessionID      string       `json:"session_id"`
	User           *domain.User `json:"user"`
	ActiveSessions int          `json:"active_sessions"` // live sessions, this one included
}

// Register creates an account and returns its id. A taken username is an
// AlreadyExists error.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validator.Validate(req); err != nil {
		return 0, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.users.CreateUser(ctx, &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return 0, domainerrors.AlreadyExists("username already taken")
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", userID, "username", req.Username)
	return userID, nil
}

// Authenticate returns the id of the user whose credentials match.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (int64, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(s.dummyHash(), password)
			return 0, domainerrors.ErrInvalidCredentials
		}
		return 0, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return 0, domainerrors.ErrInvalidCredentials
	}
	return user.ID, nil
}

// Login authenticates, opens a session and issues an access token for it.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	userID, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Info("login failed", "username", req.Username)
		return nil, err
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	sess := &domain.Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokens.Lifetime()),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.tokens.Issue(sess)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	active, err := s.sessions.CountForUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to count sessions", "user_id", userID, "error", err)
	}

	s.logger.Info("user logged in", "user_id", userID, "session_id", sessionID, "active_sessions", active)

	return &LoginResponse{
		AccessToken:    token,
		TokenType:      "Bearer",
		ExpiresIn:      int(s.tokens.Lifetime().Seconds()),
		SessionID:      sessionID,
		User:           user,
		ActiveSessions: active,
	}, nil
}

// Logout ends a session. Logging out of an unknown session succeeds.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("user logged out", "session_id", sessionID)
	return nil
}

// VerifyAccessToken returns the live session a token refers to.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid access token")
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return nil, domainerrors.Unauthorized("session not found")
	case errors.Is(err, session.ErrSessionExpired):
		return nil, domainerrors.ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.UserID != claims.UserID {
		s.logger.Warn("token user does not match session",
			"session_id", sess.ID,
			"token_user_id", claims.UserID,
			"session_user_id", sess.UserID,
		)
		return nil, domainerrors.Unauthorized("invalid access token")
	}

	return sess, nil
}
