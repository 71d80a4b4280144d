// Package cache stores oracle responses so re-running a manuscript does not
// re-pay verification calls for chunks the oracle has already judged.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Cache is a byte-value store with a fixed TTL chosen at construction
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

// Key derives a stable cache key from the provider, model and chunk text.
// Any change to the chunk (including its continuation annotation) yields a
// different key.
func Key(provider, model, chunkText string) string {
	hash := sha256.Sum256([]byte(strings.Join([]string{provider, model, chunkText}, "\x00")))
	return "quotecheck:v1:" + hex.EncodeToString(hash[:])
}
