package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the size of derived symmetric keys (AES-256)
	KeySize = 32
	// MinSecretLength is the shortest accepted master secret
	MinSecretLength = 16
)

var (
	randomRead = rand.Read
	newHKDF    = func(secret, salt, info []byte) io.Reader { return hkdf.New(sha256.New, secret, salt, info) }
)

// ErrWeakSecret is returned when the master secret is too short
var ErrWeakSecret = errors.New("secret must be at least 16 bytes")

// DeriveKey derives a KeySize key for the given purpose from a master secret
func DeriveKey(secret, purpose string) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(newHKDF([]byte(secret), nil, []byte(purpose)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// GenerateRandomToken generates a random token of specified length
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
