package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("token hashing failed")
	ErrMismatch      = errors.New("token mismatch")
	ErrEmpty         = errors.New("empty token")
)

const (
	DefaultCost = bcrypt.DefaultCost
	byteLength  = 32
)

// Generate returns a random hex-encoded action token.
func Generate() (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func Hash(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmpty
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}

	return string(hashed), nil
}

// Compare checks raw against a stored hash. An empty hash means the token was already used.
func Compare(hashed, raw string) error {
	if hashed == "" || raw == "" {
		return ErrEmpty
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}

	return nil
}
