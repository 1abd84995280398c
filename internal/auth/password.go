package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when configuration leaves the cost unset.
const DefaultBcryptCost = 10

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// IsBcryptHash reports whether value is a well-formed bcrypt hash.
// Only rows without a recorded password scheme are checked with it.
func IsBcryptHash(value string) bool {
	if len(value) != 60 {
		return false
	}
	if !strings.HasPrefix(value, "$2a$") && !strings.HasPrefix(value, "$2b$") && !strings.HasPrefix(value, "$2y$") {
		return false
	}
	_, err := bcrypt.Cost([]byte(value))
	return err == nil
}
