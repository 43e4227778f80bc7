package pathkit

import (
	"fmt"
	"sort"
	"strings"
)

// Options holds the storage options attached to a path: connection
// parameters, credentials and behavior flags for a backend. Values are
// kept as strings; backends and the identity resolver decode them into
// typed structs as needed.
//
// Options attached to a Path are never mutated. All modifying methods
// return a copy.
type Options map[string]string

// NewOptions returns a copy of m as Options. A nil map yields empty
// non-nil Options.
func NewOptions(m map[string]string) Options {
	o := make(Options, len(m))
	for k, v := range m {
		o[k] = v
	}
	return o
}

// Clone returns an independent copy of the options.
func (o Options) Clone() Options {
	return NewOptions(o)
}

// Get returns the value for key and whether it is present.
func (o Options) Get(key string) (string, bool) {
	v, ok := o[key]
	return v, ok
}

// GetDefault returns the value for key, or def when absent.
func (o Options) GetDefault(key, def string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return def
}

// With returns a copy of the options with key set to value.
func (o Options) With(key, value string) Options {
	out := o.Clone()
	out[key] = value
	return out
}

// Merge returns a copy of defaults overlaid with o. Keys present in o
// win over defaults.
func (o Options) Merge(defaults Options) Options {
	out := defaults.Clone()
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Equal reports whether two option sets contain exactly the same keys
// and values. This is the strict fallback comparison used when a
// protocol has no filesystem identity rule; identity-aware comparison
// goes through Identity instead.
func (o Options) Equal(other Options) bool {
	if len(o) != len(other) {
		return false
	}
	for k, v := range o {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Canonical returns a deterministic single-string form of the options,
// suitable as a cache key component. Keys are sorted; keys and values
// are length-prefixed so no two distinct option sets collide.
func (o Options) Canonical() string {
	if len(o) == 0 {
		return ""
	}
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := o[k]
		fmt.Fprintf(&b, "%d:%s=%d:%s;", len(k), k, len(v), v)
	}
	return b.String()
}
