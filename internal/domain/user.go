package domain

// User is a registered account. Users are never updated or deleted.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"` // Argon2id encoded, never serialized
}
