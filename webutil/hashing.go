package webutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes returns the SHA-256 digest of the input as a hexadecimal
// string. Used to fingerprint uploaded final-version files.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
