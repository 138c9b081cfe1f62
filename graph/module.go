package graph

// AugmentedModule is an input graph node: the resolver's view of one module,
// read-only from the query engine's perspective. A module's dependencies are
// tracked as two sets rather than one path->version map, so the
// used-vs-discarded distinction is recorded directly instead of inferred
// after the fact.
type AugmentedModule struct {
	Key ModuleKey

	// usedDeps are the module's direct dependencies that survived version
	// resolution (the "used" graph).
	usedDeps KeySet

	// allDeps is the superset of usedDeps plus dependencies that were
	// required at some point but discarded during resolution.
	allDeps KeySet

	// dependants/originalDependants are the reverse of usedDeps/allDeps,
	// maintained alongside them so colorReversePathsToRoot never has to
	// invert the graph itself.
	dependants         KeySet
	originalDependants KeySet

	Used   bool
	Loaded bool
}

// NewAugmentedModule builds a module with empty dependency sets; use AddDep
// to populate it. used and loaded are the resolver outcome flags.
func NewAugmentedModule(key ModuleKey, used, loaded bool) *AugmentedModule {
	return &AugmentedModule{
		Key:                key,
		usedDeps:           make(KeySet),
		allDeps:            make(KeySet),
		dependants:         make(KeySet),
		originalDependants: make(KeySet),
		Used:               used,
		Loaded:             loaded,
	}
}

// Deps returns the module's direct dependencies. When includeUnused is
// false this is the used subgraph; when true it additionally includes
// dependencies discarded during resolution.
func (m *AugmentedModule) Deps(includeUnused bool) KeySet {
	if includeUnused {
		return m.allDeps
	}
	return m.usedDeps
}

func (m *AugmentedModule) Dependants() KeySet         { return m.dependants }
func (m *AugmentedModule) OriginalDependants() KeySet { return m.originalDependants }

// DepGraph is the full input graph: a mapping ModuleKey -> AugmentedModule,
// read-only from the query engine's perspective.
type DepGraph map[ModuleKey]*AugmentedModule

// NewDepGraph returns an empty graph ready for loaders to populate via AddEdge.
func NewDepGraph() DepGraph {
	return make(DepGraph)
}

// module returns g[key], creating an unused/unloaded placeholder node if
// absent. Loaders use this so edges can be added in any order without
// having to pre-declare every node.
func (g DepGraph) module(key ModuleKey) *AugmentedModule {
	m, ok := g[key]
	if !ok {
		m = NewAugmentedModule(key, false, false)
		g[key] = m
	}
	return m
}

// Ensure guarantees g[key] exists, setting used/loaded if the node is new or
// upgrading them (never downgrading) if it already exists. Loaders call this
// once they learn a module's true resolver outcome, even if an edge already
// created a placeholder for it.
func (g DepGraph) Ensure(key ModuleKey, used, loaded bool) *AugmentedModule {
	m := g.module(key)
	if used {
		m.Used = true
	}
	if loaded {
		m.Loaded = true
	}
	return m
}

// AddEdge records that from directly depends on to, in the used subgraph
// when used is true, in the all-deps superset always: every
// used edge is also an all-deps edge.
func (g DepGraph) AddEdge(from, to ModuleKey, used bool) {
	fromMod := g.module(from)
	toMod := g.module(to)

	fromMod.allDeps.Add(to)
	toMod.originalDependants.Add(from)

	if used {
		fromMod.usedDeps.Add(to)
		toMod.dependants.Add(from)
	}
}
