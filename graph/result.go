package graph

// ResultNode is an output graph node: the presentation-graph shape the
// query engine produces for a renderer to consume. Children are split into
// direct (solid-line) and indirect (dotted-line, synthetic) edges; each
// edge additionally carries whether its target is Expanded (TRUE: the
// child's own subtree is carried in the result map) or a leaf stub (FALSE:
// a back-reference or a cycle, never itself a key of the result map).
type ResultNode struct {
	Key            ModuleKey
	IsTarget       bool
	IsTargetParent bool

	// children/indirectChildren map a child key to whether that edge is
	// Expanded. Iteration must always go through SortedChildren /
	// SortedIndirectChildren so downstream rendering is deterministic.
	children         map[ModuleKey]bool
	indirectChildren map[ModuleKey]bool
}

// SortedChildren returns the node's direct-edge children in ModuleKey total order.
func (n *ResultNode) SortedChildren() []ModuleKey {
	return sortedEdgeKeys(n.children)
}

// SortedIndirectChildren returns the node's indirect-edge children in ModuleKey total order.
func (n *ResultNode) SortedIndirectChildren() []ModuleKey {
	return sortedEdgeKeys(n.indirectChildren)
}

// ChildExpanded reports whether the direct-edge child c is Expanded. The
// second return is false if c is not a direct child at all.
func (n *ResultNode) ChildExpanded(c ModuleKey) (expanded bool, isChild bool) {
	e, ok := n.children[c]
	return e, ok
}

// IndirectChildExpanded reports whether the indirect-edge child c is
// Expanded. The second return is false if c is not an indirect child.
func (n *ResultNode) IndirectChildExpanded(c ModuleKey) (expanded bool, isChild bool) {
	e, ok := n.indirectChildren[c]
	return e, ok
}

func sortedEdgeKeys(edges map[ModuleKey]bool) []ModuleKey {
	keys := make([]ModuleKey, 0, len(edges))
	for k := range edges {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// ResultGraph is the query engine's output: a map ModuleKey -> ResultNode
// always keyed at Root.
type ResultGraph map[ModuleKey]*ResultNode

// SortedKeys returns the graph's keys in ModuleKey total order, for
// deterministic rendering.
func (g ResultGraph) SortedKeys() []ModuleKey {
	keys := make([]ModuleKey, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// ResultNodeBuilder accumulates a node's edges during a traversal; call
// Build to commit it into an immutable ResultNode. Nothing downstream ever
// observes a builder directly — only the committed ResultNode.
type ResultNodeBuilder struct {
	key              ModuleKey
	isTarget         bool
	isTargetParent   bool
	children         map[ModuleKey]bool
	indirectChildren map[ModuleKey]bool
}

// NewResultNodeBuilder starts a builder for key, with isTarget set
// according to whether key is in the query's target set.
func NewResultNodeBuilder(key ModuleKey, isTarget bool) *ResultNodeBuilder {
	return &ResultNodeBuilder{
		key:              key,
		isTarget:         isTarget,
		children:         make(map[ModuleKey]bool),
		indirectChildren: make(map[ModuleKey]bool),
	}
}

// AddChild records a direct-edge child with the given Expanded flag.
func (b *ResultNodeBuilder) AddChild(c ModuleKey, expanded bool) {
	b.children[c] = expanded
}

// AddIndirectChild records an indirect-edge (synthetic, dotted) child with
// the given Expanded flag.
func (b *ResultNodeBuilder) AddIndirectChild(c ModuleKey, expanded bool) {
	b.indirectChildren[c] = expanded
}

// MarkTargetParent sets IsTargetParent: the builder's node has a direct
// child that is itself a query target.
func (b *ResultNodeBuilder) MarkTargetParent() {
	b.isTargetParent = true
}

// IsTargetParent reports the builder's current target-parent flag, so
// callers (the depth pruner) can decide whether a node must be surfaced via
// a detached DFS walk without having built the node yet.
func (b *ResultNodeBuilder) IsTargetParent() bool {
	return b.isTargetParent
}

// IsTarget reports the builder's target flag.
func (b *ResultNodeBuilder) IsTarget() bool {
	return b.isTarget
}

// Build commits the builder into an immutable ResultNode.
func (b *ResultNodeBuilder) Build() *ResultNode {
	return &ResultNode{
		Key:              b.key,
		IsTarget:         b.isTarget,
		IsTargetParent:   b.isTargetParent,
		children:         b.children,
		indirectChildren: b.indirectChildren,
	}
}
