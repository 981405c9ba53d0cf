// Package cache provides the layered (memory + disk) result cache used
// to avoid re-extracting documents that were already processed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// KeyForBytes generates a cache key from raw document content. Identical
// uploads hit the same entry regardless of filename.
func KeyForBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return "syllascan:v1:" + hex.EncodeToString(hash[:])
}

// KeyForString generates a cache key from a string input, e.g. pasted
// syllabus text.
func KeyForString(s string) string {
	return KeyForBytes([]byte(s))
}
