package query

import "github.com/ldemailly/depquery/graph"

// pruner is a DFS over the unpruned result (from expand.go) that rewrites
// it into a depth-bounded presentation graph. It runs two DFS modes —
// visible (within the depth bound) and detached (past it, only for targets
// and their chain of ancestors) — sharing one parent-stack cycle oracle.
//
// Commits (i.e. giving a key its own entry in the final result) happen
// exactly once per key: in visible mode whenever the edge that reached this
// key is Expanded, and in detached mode whenever the key is itself a
// target and that same edge is Expanded. Because the unpruned graph has at
// most one Expanded=TRUE edge to any given key (the BFS discoverer; every
// other edge to it is a FALSE back-reference, by construction of expand.go),
// this condition fires at most once per key, so no commit ever clobbers an
// already-built entry. A shared descendant reached again through a sibling
// branch's back-edge still calls visible with expanded=false: that call
// reuses the existing builder instead of allocating a fresh one, registers
// the extra parent edge, and returns without recursing, so the descendant's
// real children (built on its one true, expanding visit) are never lost.
type pruner struct {
	unpruned    graph.ResultGraph
	depthLimit  int
	withTargets bool
	cycles      bool

	stack     graph.KeySet
	builders  map[graph.ModuleKey]*graph.ResultNodeBuilder
	committed graph.KeySet
}

func prune(unpruned graph.ResultGraph, opts Options, withTargets bool) graph.ResultGraph {
	p := &pruner{
		unpruned:    unpruned,
		depthLimit:  opts.Depth,
		withTargets: withTargets,
		cycles:      opts.Cycles,
		stack:       make(graph.KeySet),
		builders:    make(map[graph.ModuleKey]*graph.ResultNodeBuilder),
		committed:   make(graph.KeySet),
	}
	return p.run()
}

func (p *pruner) run() graph.ResultGraph {
	rootBuilder := graph.NewResultNodeBuilder(graph.Root, false)
	p.builders[graph.Root] = rootBuilder
	p.committed.Add(graph.Root)

	rootUnpruned := p.unpruned[graph.Root]
	if rootUnpruned == nil {
		return p.collect()
	}
	if rootUnpruned.IsTargetParent {
		rootBuilder.MarkTargetParent()
	}

	direct := rootUnpruned.SortedChildren()
	indirect := rootUnpruned.SortedIndirectChildren()

	for _, c := range direct {
		exp, _ := rootUnpruned.ChildExpanded(c)
		rootBuilder.AddChild(c, exp)
	}
	for _, c := range indirect {
		exp, _ := rootUnpruned.IndirectChildExpanded(c)
		rootBuilder.AddIndirectChild(c, exp)
	}

	p.stack.Add(graph.Root)
	for _, c := range direct {
		exp, _ := rootUnpruned.ChildExpanded(c)
		p.visible(c, 1, graph.Root, exp)
	}
	for _, c := range indirect {
		exp, _ := rootUnpruned.IndirectChildExpanded(c)
		p.visible(c, 1, graph.Root, exp)
	}
	delete(p.stack, graph.Root)

	return p.collect()
}

func (p *pruner) collect() graph.ResultGraph {
	result := make(graph.ResultGraph, len(p.committed))
	for k := range p.committed {
		result[k] = p.builders[k].Build()
	}
	return result
}

// visible walks a key while still within the depth bound, committing it
// and recursing into its children.
func (p *pruner) visible(key graph.ModuleKey, depth int, parentKey graph.ModuleKey, expanded bool) {
	p.stack.Add(key)
	defer delete(p.stack, key)

	node := p.unpruned[key]
	isTarget := node != nil && node.IsTarget

	if _, exists := p.builders[key]; !exists {
		builder := graph.NewResultNodeBuilder(key, isTarget)
		if node != nil && node.IsTargetParent {
			builder.MarkTargetParent()
		}
		p.builders[key] = builder
	}

	if depth > 1 {
		p.registerChild(parentKey, key, expanded, false)
	}
	if expanded {
		p.committed.Add(key)
	}
	if !expanded || node == nil {
		return
	}

	for _, c := range node.SortedChildren() {
		cExp, _ := node.ChildExpanded(c)
		p.visitChild(c, cExp, key, key, depth)
	}
}

// visitChild is the shared tail of both DFS modes: a child already on the
// parent stack is a cycle back-edge (echoed as a FALSE stub only when
// options.cycles is set); otherwise recursion continues in visible mode
// while within the depth bound, or switches to detached mode past it (only
// when the query is tracking targets at all).
func (p *pruner) visitChild(c graph.ModuleKey, cExp bool, key, lastVisibleParentKey graph.ModuleKey, depth int) {
	if p.stack.Contains(c) {
		if p.cycles {
			p.registerChild(key, c, false, false)
		}
		return
	}
	if depth < p.depthLimit {
		p.visible(c, depth+1, key, cExp)
		return
	}
	if p.withTargets {
		p.detached(c, key, lastVisibleParentKey, cExp)
	}
}

// detached walks past the depth cutoff: no new nodes are committed except
// targets, which are re-parented onto
// lastVisibleParentKey — as an ordinary edge if that equals the immediate
// parent, or an indirect edge if one or more ancestors were elided.
func (p *pruner) detached(key, parentKey, lastVisibleParentKey graph.ModuleKey, expanded bool) {
	p.stack.Add(key)
	defer delete(p.stack, key)

	node := p.unpruned[key]
	isTarget := node != nil && node.IsTarget

	newLastVisible := lastVisibleParentKey
	if isTarget && expanded {
		indirect := lastVisibleParentKey != parentKey
		p.registerChild(lastVisibleParentKey, key, expanded, indirect)

		builder := graph.NewResultNodeBuilder(key, isTarget)
		if node != nil && node.IsTargetParent {
			builder.MarkTargetParent()
		}
		p.builders[key] = builder
		p.committed.Add(key)
		newLastVisible = key
	}

	if !expanded || node == nil {
		return
	}

	for _, c := range node.SortedChildren() {
		cExp, _ := node.ChildExpanded(c)
		if p.stack.Contains(c) {
			if p.cycles {
				if b, ok := p.builders[key]; ok {
					b.AddChild(c, false)
				}
			}
			continue
		}
		p.detached(c, key, newLastVisible, cExp)
	}
}

func (p *pruner) registerChild(parentKey, childKey graph.ModuleKey, expanded, indirect bool) {
	b, ok := p.builders[parentKey]
	if !ok {
		return
	}
	if indirect {
		b.AddIndirectChild(childKey, expanded)
	} else {
		b.AddChild(childKey, expanded)
	}
}
