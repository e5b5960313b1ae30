package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashKey returns "prefix:" followed by the hex SHA-256 of value.
func hashKey(prefix, value string) string {
	return prefix + ":" + Hash([]byte(value))
}

// Hash returns the 64-character hex SHA-256 of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
