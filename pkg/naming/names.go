// Package naming allocates human readable instance names and derives
// markup-safe identifiers from them.
package naming

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultBase is used when Unique is called with an empty base.
const DefaultBase = "input"

// Names tracks the names currently in use. The zero value is not usable; call
// NewNames. Names is not safe for concurrent use.
type Names struct {
	used map[string]struct{}
}

// NewNames returns an empty set.
func NewNames() *Names {
	return &Names{used: make(map[string]struct{})}
}

// Unique returns base when it is free, otherwise the first of "base 1",
// "base 2", ... that is free. The returned name is not marked as used.
func (n *Names) Unique(base string) string {
	if base == "" {
		base = DefaultBase
	}
	if !n.Has(base) {
		return base
	}
	for counter := 1; ; counter++ {
		candidate := base + " " + strconv.Itoa(counter)
		if !n.Has(candidate) {
			return candidate
		}
	}
}

// Use marks name as taken.
func (n *Names) Use(name string) {
	n.used[name] = struct{}{}
}

// Release frees name for reuse.
func (n *Names) Release(name string) {
	delete(n.used, name)
}

// Has reports whether name is taken. Names are case sensitive.
func (n *Names) Has(name string) bool {
	_, ok := n.used[name]
	return ok
}

// Reset forgets every name.
func (n *Names) Reset() {
	n.used = make(map[string]struct{})
}

// Len returns how many names are taken.
func (n *Names) Len() int {
	return len(n.used)
}

// List returns the taken names sorted.
func (n *Names) List() []string {
	out := make([]string, 0, len(n.used))
	for name := range n.used {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ToID lower-cases name, replaces every character outside [a-z0-9-_.] with
// "-", and prefixes "id-" unless the result starts with a letter. Distinct
// names may produce the same id.
func ToID(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	id := sb.String()
	if id == "" || id[0] < 'a' || id[0] > 'z' {
		return "id-" + id
	}
	return id
}
