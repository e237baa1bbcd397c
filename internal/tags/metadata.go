package tags

import (
	"sort"
	"strings"
)

// Metadata maps lower-case field names to their values in source order.
type Metadata map[string][]string

// Add appends value under the normalized key. Empty keys are ignored; an
// empty value still marks the field as present.
func (m Metadata) Add(key, value string) {
	key = normalizeKey(key)
	if key == "" {
		return
	}
	m[key] = append(m[key], value)
}

// Values returns every value stored for key.
func (m Metadata) Values(key string) []string {
	return m[normalizeKey(key)]
}

// First returns the first value stored for key, or "".
func (m Metadata) First(key string) string {
	values := m.Values(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Has reports whether key is present, even with an empty value.
func (m Metadata) Has(key string) bool {
	return len(m.Values(key)) > 0
}

// Keys returns the stored field names in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// addComment splits a Vorbis "KEY=value" comment into m.
func (m Metadata) addComment(comment string) {
	key, value, ok := strings.Cut(comment, "=")
	if !ok {
		return
	}
	m.Add(key, value)
}
