package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes      = 16
	hashIterations = 100000
	hashKeyLength  = 32
)

// HashPassword derives a salted PBKDF2-SHA256 digest and encodes it as
// "salt$hexdigest" for storage.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)

	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	saltHex := hex.EncodeToString(salt)
	digest := pbkdf2.Key([]byte(password), []byte(saltHex), hashIterations, hashKeyLength, sha256.New)

	return saltHex + "$" + hex.EncodeToString(digest), nil
}

// VerifyPassword re-derives the digest with the stored salt and compares.
// Any malformed stored hash fails verification rather than erroring.
func VerifyPassword(password, passwordHash string) bool {
	parts := strings.SplitN(passwordHash, "$", 2)

	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}

	digest := pbkdf2.Key([]byte(password), []byte(parts[0]), hashIterations, hashKeyLength, sha256.New)

	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(digest)), []byte(parts[1])) == 1
}
