package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Delimiter separates the namespace and digest parts of a cache key.
const Delimiter = ":"

// Sentinel errors for key operations.
var (
	ErrInvalidKey = errors.New("keys: key is invalid")
	ErrKeyTooLong = errors.New("keys: key exceeds max length")
)

// HashPayload returns a hex digest of the raw payload string.
//
// The payload is hashed exactly as supplied: data-URI prefixes are not
// stripped and base64 content is not decoded. Two encodings of the same
// underlying bytes therefore produce different digests; callers must pass
// the same representation they passed on previous calls. Empty and
// malformed payloads hash deterministically and never error.
//
// The digest is the first 16 bytes of SHA-256, hex encoded (32 chars).
func HashPayload(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:16])
}

// HashJSON returns a digest of a canonical JSON rendering of v.
// Maps are serialized with sorted keys so the digest is independent of
// iteration order.
func HashJSON(v any) (string, error) {
	canonical, err := canonicalize(v)
	if err != nil {
		return "", fmt.Errorf("keys: failed to canonicalize input: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:16]), nil
}

// BuildKey joins a namespace with one or more digest parts.
// Format: namespace:part1[:part2...]
func BuildKey(namespace string, parts ...string) string {
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, namespace)
	elems = append(elems, parts...)
	return strings.Join(elems, Delimiter)
}

// ValidateKey checks if a key is usable as a store key.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}
