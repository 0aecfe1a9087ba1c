package service

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"filesapi/internal/repository"
	"filesapi/internal/session"
)

// ErrUnauthorized covers every authentication failure: malformed credentials,
// unknown user, wrong password, missing or expired token. Callers are never
// told which one occurred.
var ErrUnauthorized = errors.New("unauthorized")

// sessionKeyPrefix namespaces token bindings inside the session store.
const sessionKeyPrefix = "auth_"

// AuthService issues, resolves and revokes session tokens.
type AuthService interface {
	// Authenticate validates a Basic authorization header, mints a fresh
	// opaque token and binds it to the user id for the session TTL.
	Authenticate(ctx context.Context, authHeader string) (string, error)

	// ResolveToken returns the user id bound to token, or "" when the token
	// is absent or expired. Side-effect free.
	ResolveToken(ctx context.Context, token string) (string, error)

	// Revoke deletes the token binding after confirming the user still
	// exists. A dangling token is treated as already invalid.
	Revoke(ctx context.Context, token string) error
}

type authService struct {
	sessions session.Store
	users    repository.UserRepository
	ttl      time.Duration
}

// NewAuthService constructs a new AuthService with the given session TTL.
func NewAuthService(sessions session.Store, users repository.UserRepository, ttl time.Duration) AuthService {
	return &authService{sessions: sessions, users: users, ttl: ttl}
}

// HashPassword returns the hex digest stored for a password. The digest
// algorithm is part of the stored-data contract and cannot change without
// invalidating every existing account.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (s *authService) Authenticate(ctx context.Context, authHeader string) (string, error) {
	const basicPrefix = "Basic "
	if !strings.HasPrefix(authHeader, basicPrefix) {
		return "", ErrUnauthorized
	}

	decoded, err := base64.StdEncoding.DecodeString(authHeader[len(basicPrefix):])
	if err != nil {
		return "", ErrUnauthorized
	}
	parts := strings.Split(string(decoded), ":")
	if len(parts) != 2 {
		return "", ErrUnauthorized
	}
	email, password := parts[0], parts[1]

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if user.Password != HashPassword(password) {
		return "", ErrUnauthorized
	}

	token := uuid.NewString()
	if err := s.sessions.Set(ctx, sessionKeyPrefix+token, user.ID, s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *authService) ResolveToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}
	id, err := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		return "", fmt.Errorf("resolve token: %w", err)
	}
	return id, nil
}

func (s *authService) Revoke(ctx context.Context, token string) error {
	id, err := s.ResolveToken(ctx, token)
	if err != nil {
		return err
	}
	if id == "" {
		return ErrUnauthorized
	}

	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnauthorized
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.sessions.Del(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
