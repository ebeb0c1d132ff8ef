package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching verification decisions
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// DecisionKey derives a cache key for one verification request. Category and
// source text fully determine the judge's input, so identical fragments on
// different layers share one entry.
func DecisionKey(category, sourceText string) string {
	hash := sha256.Sum256([]byte(category + "|" + sourceText))
	return "takeoff:v1:" + hex.EncodeToString(hash[:])
}
