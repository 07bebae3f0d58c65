package utils

import (
	"fmt"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// HashPassword hashes a plaintext password using bcrypt after checking its length.
// bcrypt ignores input past 72 bytes, so longer passwords are rejected too.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must have at least %d characters", apperrors.ErrValidation, MinPasswordLength)
	}
	if len(password) > 72 {
		return "", fmt.Errorf("%w: password must have at most 72 bytes", apperrors.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
