package model

// User represents a registered account.
// This is a pure domain model with no database-specific dependencies or tags.
// The Password field holds a one-way hex digest, never plaintext, and is
// excluded from JSON output.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
}
