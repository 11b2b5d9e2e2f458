// Package normalization maps loosely spelled configuration values onto enum constants.
package normalization

import (
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
)

// Normalizer maps accepted spellings (case and surrounding space ignored) to values.
type Normalizer[T comparable] struct {
	field  string
	values map[string]T
	keys   []string
}

// New returns a Normalizer for field. Every key of values is an accepted spelling.
func New[T comparable](field string, values map[string]T) *Normalizer[T] {
	n := &Normalizer[T]{field: field, values: make(map[string]T, len(values))}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	sort.Strings(n.keys)
	return n
}

// Parse returns the value for raw or a config error listing the accepted spellings.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	if v, ok := n.values[clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, errors.ConfigError(fmt.Sprintf("unsupported %s %q", n.field, raw)).
		WithContext("field", n.field).
		WithContext("value", raw).
		WithContext("accepted", strings.Join(n.keys, ", ")).
		Build()
}

// Keys returns the accepted spellings in sorted order.
func (n *Normalizer[T]) Keys() []string {
	return append([]string(nil), n.keys...)
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
