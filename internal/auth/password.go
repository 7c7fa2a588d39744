package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// PasswordChecker verifies the shared service password against a bcrypt hash.
type PasswordChecker struct {
	hash []byte
}

// NewPasswordChecker creates a checker for the given bcrypt hash.
func NewPasswordChecker(hash string) (*PasswordChecker, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	return &PasswordChecker{hash: []byte(hash)}, nil
}

// Check returns ErrInvalidCredentials unless password matches the hash.
func (c *PasswordChecker) Check(password string) error {
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword hashes a new service password for AUTH_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
