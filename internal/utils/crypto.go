// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const randomCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomCharset))))
		if err != nil {
			return "", err
		}
		b[i] = randomCharset[n.Int64()]
	}

	return string(b), nil
}

// GenerateSessionID returns the 32 character opaque id of a new session.
func GenerateSessionID() (string, error) {
	return GenerateRandomString(32)
}
