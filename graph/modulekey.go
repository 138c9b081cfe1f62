// Package graph holds the data model the query engine operates on: the
// ModuleKey identity, the AugmentedModule input graph, the MaybeCompleteSet
// abstraction, and the ResultNode output graph. Nothing here does any
// traversal; see package query for that.
package graph

import "sort"

// ModuleKey identifies a module by name and version. The zero value is Root,
// the distinguished key standing in for the caller's own module — no real
// module has an empty Name, so the zero value is safe to use as a sentinel.
type ModuleKey struct {
	Name    string
	Version string
}

// Root is the distinguished ModuleKey for the caller's own module. It is
// never treated as a listed target (see filterUnused in package query) and
// is always present as a key in a query's result graph.
var Root = ModuleKey{}

// Less orders ModuleKey values lexicographically by Name then Version. It is
// the total order the output format requires for deterministic iteration — nothing
// about it is semver-aware, by design: ordering here is for stable rendering,
// not for version comparison.
func (k ModuleKey) Less(other ModuleKey) bool {
	if k.Name != other.Name {
		return k.Name < other.Name
	}
	return k.Version < other.Version
}

func (k ModuleKey) String() string {
	if k == Root {
		return "(root)"
	}
	if k.Version == "" {
		return k.Name
	}
	return k.Name + "@" + k.Version
}

// KeySet is a finite, unordered set of ModuleKey. It underlies both
// MaybeCompleteSet's Enumerated variant and the plain from/to sets callers
// pass into the query driver.
type KeySet map[ModuleKey]bool

// NewKeySet builds a KeySet from the given keys.
func NewKeySet(keys ...ModuleKey) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = true
	}
	return s
}

func (s KeySet) Contains(k ModuleKey) bool {
	return s[k]
}

// Add inserts k into the set, returning whether it was newly added.
func (s KeySet) Add(k ModuleKey) bool {
	if s[k] {
		return false
	}
	s[k] = true
	return true
}

// Sorted returns the set's members in ModuleKey total order.
func (s KeySet) Sorted() []ModuleKey {
	out := make([]ModuleKey, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sortKeys(out)
	return out
}

// sortKeys sorts keys in place using ModuleKey.Less. Small helper so every
// call site doesn't have to spell out sort.Slice with the Less method.
func sortKeys(keys []ModuleKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}
