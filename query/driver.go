package query

import "github.com/ldemailly/depquery/graph"

// DiagnosticKind classifies a non-fatal input anomaly surfaced by
// QueryDriver. Diagnostics are plain values, never error —
// they describe expected, routine outcomes of querying with stale or
// partially-wrong user input, not failures.
type DiagnosticKind int

const (
	// UnknownModule: a user-supplied key is absent from the input graph
	// entirely. Dropped from from, silently tolerated in to.
	UnknownModule DiagnosticKind = iota
	// UnloadedOrUnused: a user-supplied key exists but is unused (filtered
	// out by filterUnused under the query's own options) or not loaded. An
	// unused key is dropped from from; an unloaded one stays in from, since
	// pinnedChildrenOfRoot pins it regardless. Both are kept in to.
	UnloadedOrUnused
	// EmptyFrontier: after filtering, no from nodes remain; the query still
	// returns a valid result (ROOT with no children).
	EmptyFrontier
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnknownModule:
		return "unknown module"
	case UnloadedOrUnused:
		return "unloaded or unused module"
	case EmptyFrontier:
		return "empty frontier"
	default:
		return "unknown diagnostic"
	}
}

// Diagnostic reports a single input anomaly. Key is the zero ModuleKey for
// EmptyFrontier, which isn't about any one key.
type Diagnostic struct {
	Kind DiagnosticKind
	Key  graph.ModuleKey
}

func (d Diagnostic) String() string {
	if d.Kind == EmptyFrontier {
		return d.Kind.String()
	}
	return d.Kind.String() + ": " + d.Key.String()
}

// QueryDriver orchestrates filterUnused/colorReversePathsToRoot/expand/prune
// for a fixed input graph. It owns no mutable state beyond the graph
// reference: every query call is independent and safe to run concurrently
// against the same QueryDriver.
type QueryDriver struct {
	g graph.DepGraph
}

// NewQueryDriver wraps an already-built input graph for querying.
func NewQueryDriver(g graph.DepGraph) *QueryDriver {
	return &QueryDriver{g: g}
}

// Tree answers "what does from depend on": expandAndPrune with no targets and no single-path constraint.
func (d *QueryDriver) Tree(from graph.KeySet, opts Options) (graph.ResultGraph, []Diagnostic) {
	return d.run(from, graph.KeySet{}, false, opts)
}

// Path answers "show one route from from to to": expandAndPrune with singlePath set.
func (d *QueryDriver) Path(from, to graph.KeySet, opts Options) (graph.ResultGraph, []Diagnostic) {
	return d.run(from, to, true, opts)
}

// AllPaths answers "show every route from from to to": expandAndPrune without the single-path constraint.
func (d *QueryDriver) AllPaths(from, to graph.KeySet, opts Options) (graph.ResultGraph, []Diagnostic) {
	return d.run(from, to, false, opts)
}

// Show is a direct attribute read over a single module, no traversal.
func (d *QueryDriver) Show(key graph.ModuleKey) (graph.ModuleInfo, bool) {
	return Show(d.g, key)
}

func (d *QueryDriver) run(from, to graph.KeySet, singlePath bool, opts Options) (graph.ResultGraph, []Diagnostic) {
	var diags []Diagnostic

	sanitizedFrom, fromDiags := d.sanitize(from, opts, true)
	_, toDiags := d.sanitize(to, opts, false)
	diags = append(diags, fromDiags...)
	diags = append(diags, toDiags...)

	if len(sanitizedFrom) == 0 {
		diags = append(diags, Diagnostic{Kind: EmptyFrontier})
	}

	colored := colorReversePathsToRoot(to, d.g, opts.IncludeUnused)
	unpruned := expand(d.g, sanitizedFrom, to, singlePath, colored, opts)
	pruned := prune(unpruned, opts, len(to) > 0)

	return pruned, diags
}

// sanitize produces UnknownModule and UnloadedOrUnused diagnostics
// for a user-supplied key set. Root is always valid. drop controls whether
// an unknown or unused key is removed from the returned set (true for from)
// or merely reported while being kept (false for to); an unloaded key is
// reported and always kept.
func (d *QueryDriver) sanitize(keys graph.KeySet, opts Options, drop bool) (graph.KeySet, []Diagnostic) {
	out := make(graph.KeySet, len(keys))
	var diags []Diagnostic

	for k := range keys {
		if k == graph.Root {
			out.Add(k)
			continue
		}
		if _, ok := d.g[k]; !ok {
			diags = append(diags, Diagnostic{Kind: UnknownModule, Key: k})
			if !drop {
				out.Add(k)
			}
			continue
		}
		if !filterUnused(k, d.g, opts.IncludeUnused, true) {
			diags = append(diags, Diagnostic{Kind: UnloadedOrUnused, Key: k})
			if !drop {
				out.Add(k)
			}
			continue
		}
		if !d.g[k].Loaded {
			diags = append(diags, Diagnostic{Kind: UnloadedOrUnused, Key: k})
		}
		out.Add(k)
	}

	return out, diags
}
