package util

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsBcryptHash reports whether s looks like a bcrypt hash.
func IsBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// MatchSecret checks a submitted password against a configured secret,
// which is either a bcrypt hash or plaintext.
func MatchSecret(submitted, configured string) bool {
	if configured == "" {
		return false
	}
	if IsBcryptHash(configured) {
		return CheckPasswordHash(submitted, configured)
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(configured)) == 1
}
