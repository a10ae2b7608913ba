// Package session manages the single-user bearer sessions. Tokens are
// signed JWTs whose jti is tracked in an in-process registry, so logout
// actually revokes a token before its expiry. Tokens are never persisted:
// a process restart invalidates all sessions.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Store issues, validates and revokes session tokens.
type Store interface {
	Issue() (string, error)
	Validate(token string) bool
	Revoke(token string)
	Sweep() int
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	secret []byte
	ttl    time.Duration

	mu     sync.Mutex
	active map[string]time.Time // jti -> expiry
}

// NewMemoryStore creates a store signing tokens with secret, each valid
// for ttl.
func NewMemoryStore(secret string, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		secret: []byte(secret),
		ttl:    ttl,
		active: make(map[string]time.Time),
	}
}

// Issue creates a new session and returns its signed token.
func (s *MemoryStore) Issue() (string, error) {
	now := time.Now()
	expiry := now.Add(s.ttl)
	id := uuid.New().String()

	claims := jwt.RegisteredClaims{
		ID:        id,
		Subject:   "admin",
		Issuer:    "daylog-api",
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	s.mu.Lock()
	s.active[id] = expiry
	s.mu.Unlock()
	return token, nil
}

// Validate reports whether the token is well-signed, unexpired, and still
// registered (i.e. not revoked by logout).
func (s *MemoryStore) Validate(token string) bool {
	id, err := s.parse(token)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.active[id]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.active, id)
		return false
	}
	return true
}

// Revoke removes the token's session. Unparseable tokens are ignored.
func (s *MemoryStore) Revoke(token string) {
	id, err := s.parse(token)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.active, id)
	s.mu.Unlock()
}

// Sweep drops expired sessions from the registry and returns how many were
// removed. Meant to run periodically; Validate also prunes lazily.
func (s *MemoryStore) Sweep() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, expiry := range s.active {
		if now.After(expiry) {
			delete(s.active, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of registered sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

func (s *MemoryStore) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.ID, nil
}
