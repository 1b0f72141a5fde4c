package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost of 10 keeps login latency in the tens of milliseconds while
// staying above the bcrypt default floor recommended for credential stores.
const hashCost = 10

// ErrPasswordTooLong is returned for passwords beyond bcrypt's 72-byte input
// limit, which would otherwise be silently truncated.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashPassword derives a bcrypt hash from a plain password.
func HashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a stored bcrypt hash against a plain password.
func CheckPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
