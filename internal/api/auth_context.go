package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// sessionKey is the context key for the authenticated session.
const sessionKey ctxKey = "session"

// GetSession returns the authenticated session from context.
// Returns a 401 error if the request carried no valid token.
func GetSession(ctx context.Context) (*domain.Session, error) {
	sess, ok := ctx.Value(sessionKey).(*domain.Session)
	if !ok || sess == nil {
		return nil, huma.Error401Unauthorized("Authentication required")
	}
	return sess, nil
}

// GetUserID returns the authenticated user's id from context.
func GetUserID(ctx context.Context) (int64, error) {
	sess, err := GetSession(ctx)
	if err != nil {
		return 0, err
	}
	return sess.UserID, nil
}

func setSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// authMiddleware validates Bearer tokens and stores the session in context.
// Requests without a valid token continue anonymously; handlers that need
// a user call GetSession.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setSession(r.Context(), sess)))
		})
	}
}
