package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	tempPasswordLength   = 12
	tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
)

// passwordHasher turns a plaintext credential into a storable hash.
type passwordHasher func(password string) (string, error)

func bcryptHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// generateTempPassword returns a random password without look-alike characters.
func generateTempPassword() (string, error) {
	out := make([]byte, tempPasswordLength)
	for i := range out {
		n, err := randomInt(int64(len(tempPasswordAlphabet)))
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = tempPasswordAlphabet[n]
	}
	return string(out), nil
}

// randomInt returns a uniform value in [0, max).
func randomInt(max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}
