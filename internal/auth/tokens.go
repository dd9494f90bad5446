package auth

import (
	"fmt"
	"strconv"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/id"
)

const (
	tokenIssuer   = "cinesphere-server"
	tokenAudience = "cinesphere-client"

	claimSessionID = "sid"
)

// AccessClaims are the fields recovered from a verified access token.
type AccessClaims struct {
	SessionID string
	UserID    int64
	ExpiresAt time.Time
}

// TokenService issues and verifies encrypted PASETO v4.local access tokens.
// A token names a session; the session store decides whether it is still live.
type TokenService struct {
	key      paseto.V4SymmetricKey
	lifetime time.Duration
}

// NewTokenService creates a token service from a 32 byte key.
func NewTokenService(key []byte, lifetime time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}
	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}
	return &TokenService{key: k, lifetime: lifetime}, nil
}

// Lifetime returns how long issued tokens stay valid.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue encrypts a token for sess. The token expires with the session.
func (s *TokenService) Issue(sess *domain.Session) (string, error) {
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(strconv.FormatInt(sess.UserID, 10))
	token.SetIssuedAt(sess.CreatedAt)
	token.SetNotBefore(sess.CreatedAt)
	token.SetExpiration(sess.ExpiresAt)

	jti, err := id.Generate(id.PrefixToken)
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(jti)

	//nolint:errcheck // Set only fails for values that cannot be JSON encoded
	_ = token.Set(claimSessionID, sess.ID)

	return token.V4Encrypt(s.key, nil), nil
}

// Verify decrypts tokenString and checks issuer, audience and expiry.
func (s *TokenService) Verify(tokenString string) (*AccessClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	sub, err := token.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}

	sid, err := token.GetString(claimSessionID)
	if err != nil {
		return nil, fmt.Errorf("token session: %w", err)
	}

	exp, err := token.GetExpiration()
	if err != nil {
		return nil, fmt.Errorf("token expiry: %w", err)
	}

	return &AccessClaims{SessionID: sid, UserID: userID, ExpiresAt: exp}, nil
}
