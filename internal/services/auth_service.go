package services

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// authService checks the single shared admin credential. When a bcrypt
// hash is configured it takes precedence; otherwise the plaintext password
// is compared in constant time.
type authService struct {
	password     string
	passwordHash string
}

// NewAuthService creates a new AuthServicer.
func NewAuthService(password, passwordHash string) AuthServicer {
	return &authService{password: password, passwordHash: passwordHash}
}

// VerifyPassword reports whether candidate matches the admin credential.
// An unset credential rejects everything.
func (s *authService) VerifyPassword(candidate string) bool {
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(candidate)) == nil
	}
	if s.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(candidate)) == 1
}
