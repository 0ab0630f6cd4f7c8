package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// maxBcryptInput is the longest password bcrypt accepts.
const maxBcryptInput = 72

// bcryptInput returns the bytes handed to bcrypt.  Longer passwords are
// reduced to the base64 of their SHA-256 so every byte still counts.
func bcryptInput(plain string) []byte {
	if len(plain) <= maxBcryptInput {
		return []byte(plain)
	}
	sum := sha256.Sum256([]byte(plain))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// HashPassword returns bcrypt hash using the given cost.  bcrypt salts
// every call, so hashing the same password twice yields different strings.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword(bcryptInput(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.  A
// malformed hash is a mismatch, never an error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(plain)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// DummyHash returns a valid hash of a random-looking string at the given
// cost.  Login compares against it when the email is unknown so both
// failure paths spend the same bcrypt time.  The hash is computed once.
func DummyHash(cost int) string {
	dummyOnce.Do(func() {
		h, err := HashPassword("motohunt-dummy-password", cost)
		if err == nil {
			dummyHash = h
		}
	})
	return dummyHash
}
