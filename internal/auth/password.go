package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSecret returns the hex SHA-256 digest of a password.
// The store format keeps a single unsalted digest; guests carry an empty one.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
