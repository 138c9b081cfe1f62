package query

import "github.com/ldemailly/depquery/graph"

// expand is the forward BFS half of the query: it builds the Root result
// node first, then breadth-first traverses from the pinned children,
// producing the unpruned result map that the depth pruner (prune.go)
// consumes.
//
// singlePath selects the "path" query's behavior: no back-edge leaves are
// emitted, and only the first Expanded=TRUE child of each node is explored.
// This BFS-based single-path extraction can miss a target reachable only
// through a cycle already entered via another branch — that is a known,
// intentionally-preserved limitation, not a bug.
func expand(g graph.DepGraph, from, to graph.KeySet, singlePath bool, coloredPaths graph.MaybeCompleteSet[graph.ModuleKey], opts Options) graph.ResultGraph {
	unpruned := make(graph.ResultGraph)

	pinned := pinnedChildrenOfRoot(from, g, opts.IncludeUnused)

	rootBuilder := graph.NewResultNodeBuilder(graph.Root, false)
	seen := graph.NewKeySet(graph.Root)
	queue := make([]graph.ModuleKey, 0, len(pinned))

	for _, k := range pinned.Sorted() {
		if !coloredPaths.Contains(k) {
			continue
		}
		if to.Contains(k) {
			rootBuilder.MarkTargetParent()
		}
		if isRealDepOfRoot(k, g, opts.IncludeUnused) {
			rootBuilder.AddChild(k, true)
		} else {
			rootBuilder.AddIndirectChild(k, true)
		}
		if seen.Add(k) {
			queue = append(queue, k)
		}
	}
	unpruned[graph.Root] = rootBuilder.Build()

	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]

		builder := graph.NewResultNodeBuilder(k, to.Contains(k))

		m, ok := g[k]
		var deps graph.KeySet
		if ok {
			deps = m.Deps(opts.IncludeUnused)
		}

		emittedExpanded := false
		for _, c := range deps.Sorted() {
			if singlePath && emittedExpanded {
				break
			}
			if !coloredPaths.Contains(c) {
				continue
			}
			if to.Contains(c) {
				builder.MarkTargetParent()
			}
			if seen.Contains(c) {
				if singlePath {
					continue
				}
				builder.AddChild(c, false)
				continue
			}
			builder.AddChild(c, true)
			seen.Add(c)
			queue = append(queue, c)
			emittedExpanded = true
		}

		unpruned[k] = builder.Build()
	}

	return unpruned
}
