// Package password wraps bcrypt hashing for account credentials.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const cost = 12

// Hash derives a bcrypt hash for storage. bcrypt silently truncates past
// 72 bytes, so longer inputs are rejected instead.
func Hash(plain string) (string, error) {
	if len(plain) == 0 {
		return "", errors.New("password must not be empty")
	}
	if len(plain) > 72 {
		return "", errors.New("password must be at most 72 bytes")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches the stored hash.
func Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
