// Package util hosts small helpers for loosely typed request input.
package util //nolint:revive // helpers shared by handlers and admin tooling

// GetValue returns m[key], or def when the key is absent or holds the zero
// value (the empty string for string maps).
func GetValue[V comparable](m map[string]V, key string, def V) V {
	v, ok := m[key]
	var zero V
	if !ok || v == zero {
		return def
	}
	return v
}

// FirstValue is GetValue for multi-valued inputs such as url.Values: the
// first value of key, or def when the key is missing or its first value is empty.
func FirstValue(m map[string][]string, key, def string) string {
	vs, ok := m[key]
	if !ok || len(vs) == 0 || vs[0] == "" {
		return def
	}
	return vs[0]
}
