package query

import "github.com/ldemailly/depquery/graph"

// colorReversePathsToRoot is a breadth-first traversal upward through parent
// edges (dependants, plus originalDependants when includeUnused is set) from
// targets, producing a MaybeCompleteSet naming every ancestor of any target
// plus the targets themselves. An empty targets set means "no filtering" —
// returns CompleteSet, not an empty Enumerated set, which would mean the
// opposite.
func colorReversePathsToRoot(targets graph.KeySet, g graph.DepGraph, includeUnused bool) graph.MaybeCompleteSet[graph.ModuleKey] {
	if len(targets) == 0 {
		return graph.CompleteSet[graph.ModuleKey]()
	}

	seen := make(graph.KeySet, len(targets))
	queue := make([]graph.ModuleKey, 0, len(targets))
	for t := range targets {
		seen.Add(t)
		queue = append(queue, t)
	}

	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]

		m, ok := g[k]
		if !ok {
			continue
		}
		for parent := range m.Dependants() {
			if seen.Add(parent) {
				queue = append(queue, parent)
			}
		}
		if includeUnused {
			for parent := range m.OriginalDependants() {
				if seen.Add(parent) {
					queue = append(queue, parent)
				}
			}
		}
	}

	return graph.EnumeratedSet[graph.ModuleKey](graph.KeyableSet[graph.ModuleKey](seen))
}
