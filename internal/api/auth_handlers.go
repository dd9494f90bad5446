package api

import (
	"context"
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/cinesphere/cinesphere-server/internal/errors"
	"github.com/cinesphere/cinesphere-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/register",
		Summary:       "Register new user",
		Description:   "Creates a new user account. Usernames are unique.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns an access token for a new session",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Ends the session the access token belongs to",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogout)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username" maxLength:"64" doc:"Unique username"`
	Email    string `json:"email,omitempty" maxLength:"254" doc:"Optional email address"`
	Password string `json:"password" maxLength:"1024" doc:"Account password"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// RegisterResponse contains the result of a registration.
type RegisterResponse struct {
	UserID int64 `json:"user_id" doc:"Created user ID"`
}

// RegisterOutput wraps the register response for Huma.
type RegisterOutput struct {
	Body RegisterResponse
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" maxLength:"64" doc:"Username"`
	Password string `json:"password" maxLength:"1024" doc:"Password"`
}

// LoginInput wraps the login request for Huma and records the caller's
// address for rate limiting.
type LoginInput struct {
	Body     LoginRequest
	ClientIP string
}

// Resolve implements huma.Resolver.
func (i *LoginInput) Resolve(ctx huma.Context) []error {
	i.ClientIP = clientIP(ctx.RemoteAddr())
	return nil
}

// UserResponse contains public user information.
type UserResponse struct {
	ID       int64  `json:"id" doc:"User ID"`
	Username string `json:"username" doc:"Username"`
	Email    string `json:"email,omitempty" doc:"Email address"`
}

// AuthResponse contains the access token and user info.
type AuthResponse struct {
	AccessToken    string       `json:"access_token" doc:"PASETO access token"`
	SessionID      string       `json:"session_id" doc:"Session identifier"`
	TokenType      string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresIn      int          `json:"expires_in" doc:"Token expiry in seconds"`
	ActiveSessions int          `json:"active_sessions" doc:"Live sessions of this user, this one included"`
	User           UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	userID, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Username: input.Body.Username,
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{Body: RegisterResponse{UserID: userID}}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	if !s.loginLimiter.Allow(input.ClientIP) {
		s.logger.Warn("login rate limit exceeded", "ip", input.ClientIP)
		return nil, domainerrors.ErrRateLimited
	}

	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		Body: AuthResponse{
			AccessToken:    resp.AccessToken,
			SessionID:      resp.SessionID,
			TokenType:      resp.TokenType,
			ExpiresIn:      resp.ExpiresIn,
			ActiveSessions: resp.ActiveSessions,
			User: UserResponse{
				ID:       resp.User.ID,
				Username: resp.User.Username,
				Email:    resp.User.Email,
			},
		},
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	sess, err := GetSession(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.Logout(ctx, sess.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Logged out successfully"}}, nil
}

// clientIP strips the port from a remote address. RealIP middleware has
// already applied X-Forwarded-For and X-Real-IP.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
