package query

import "github.com/ldemailly/depquery/graph"

// Show is a direct attribute lookup over a single module: no BFS/DFS, no
// MaybeCompleteSet, no pruning. The bool result reports whether key is
// present in g at all.
func Show(g graph.DepGraph, key graph.ModuleKey) (graph.ModuleInfo, bool) {
	m, ok := g[key]
	if !ok {
		return graph.ModuleInfo{Key: key}, false
	}
	return graph.ModuleInfo{
		Key:                key,
		Used:               m.Used,
		Loaded:             m.Loaded,
		Dependants:         m.Dependants().Sorted(),
		OriginalDependants: m.OriginalDependants().Sorted(),
		UsedDeps:           m.Deps(false).Sorted(),
		AllDeps:            m.Deps(true).Sorted(),
	}, true
}
