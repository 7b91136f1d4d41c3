// Package normalization maps free-form config strings onto typed enum
// values. Lookup is case-insensitive and whitespace-tolerant, so
// "Linear", " linear " and "LINEAR" all land on the same mode.
package normalization

import "strings"

// Normalizer resolves raw strings to values of T, falling back to a
// default when the input is not recognized.
type Normalizer[T comparable] struct {
	values   map[string]T
	fallback T
}

// NewNormalizer builds a normalizer from canonical key/value pairs.
// Keys are canonicalized, so callers may list them in any case.
func NewNormalizer[T comparable](values map[string]T, fallback T) *Normalizer[T] {
	canon := make(map[string]T, len(values))
	for k, v := range values {
		canon[canonical(k)] = v
	}
	return &Normalizer[T]{values: canon, fallback: fallback}
}

// Normalize resolves raw to its typed value, or the fallback when raw
// is not a known key.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[canonical(raw)]; ok {
		return v
	}
	return n.fallback
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
