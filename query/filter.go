// Package query implements the two-pass graph algorithm: reverse coloring,
// forward expansion, and depth pruning, orchestrated by QueryDriver. This is
// the hard, re-implementable part of the engine; everything it touches in
// package graph is read-only.
package query

import "github.com/ldemailly/depquery/graph"

// Options configures a query: the maximum result depth, whether
// discarded-during-resolution dependencies are considered, and
// whether detected cycle back-edges are echoed into the result.
type Options struct {
	Depth         int
	IncludeUnused bool
	Cycles        bool
}

// filterUnused returns false (exclude) iff k is Root, or
// k's module is unused and includeUnused is false, or k's module is
// unloaded and allowNotLoaded is false. A key absent from g is treated as
// unloaded (Loaded defaults to false on the zero AugmentedModule), so an
// unknown key is excluded unless allowNotLoaded permits it.
func filterUnused(k graph.ModuleKey, g graph.DepGraph, includeUnused, allowNotLoaded bool) bool {
	if k == graph.Root {
		return false
	}
	m, ok := g[k]
	if !ok {
		return allowNotLoaded
	}
	if !m.Used && !includeUnused {
		return false
	}
	if !m.Loaded && !allowNotLoaded {
		return false
	}
	return true
}

// pinnedChildrenOfRoot computes the direct children of Root in the
// result graph. from is filtered through filterUnused with
// allowNotLoaded=true (a user-nominated from module is pinned under Root
// even if the resolver never loaded it — it simply won't expand further).
// If from contains Root itself, the real direct dependencies of Root
// (g[Root].Deps(includeUnused)) are unioned in as well.
func pinnedChildrenOfRoot(from graph.KeySet, g graph.DepGraph, includeUnused bool) graph.KeySet {
	pinned := make(graph.KeySet)
	for k := range from {
		if k == graph.Root {
			if rootMod, ok := g[graph.Root]; ok {
				for dep := range rootMod.Deps(includeUnused) {
					pinned.Add(dep)
				}
			}
			continue
		}
		if filterUnused(k, g, includeUnused, true) {
			pinned.Add(k)
		}
	}
	return pinned
}

// isRealDepOfRoot reports whether k is one of Root's actual direct
// dependencies in g, as opposed to merely being a pinned (user-nominated)
// child. Callers use this to decide whether a pinned child gets a direct
// or indirect edge under Root.
func isRealDepOfRoot(k graph.ModuleKey, g graph.DepGraph, includeUnused bool) bool {
	rootMod, ok := g[graph.Root]
	if !ok {
		return false
	}
	return rootMod.Deps(includeUnused)[k]
}
