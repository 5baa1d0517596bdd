package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies account passwords with bcrypt.
// A zero Cost means bcrypt.DefaultCost.
type PasswordHasher struct {
	Cost int
}

// Hash returns a salted bcrypt hash of password.
func (h PasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash.
func (h PasswordHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword hashes password at bcrypt.DefaultCost.
func HashPassword(password string) (string, error) {
	return PasswordHasher{}.Hash(password)
}

// VerifyPassword reports whether password matches hash.
func VerifyPassword(hash, password string) bool {
	return PasswordHasher{}.Verify(hash, password)
}
