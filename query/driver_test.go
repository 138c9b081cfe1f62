package query

import (
	"sort"
	"testing"

	"github.com/ldemailly/depquery/graph"
)

func key(name string) graph.ModuleKey {
	return graph.ModuleKey{Name: name, Version: "v1"}
}

type testEdge struct {
	from, to graph.ModuleKey
	used     bool
}

func buildGraph(edges ...testEdge) graph.DepGraph {
	g := graph.NewDepGraph()
	g.Ensure(graph.Root, true, true)
	for _, e := range edges {
		g.AddEdge(e.from, e.to, e.used)
	}
	return g
}

func sortedKeys(m graph.ResultGraph) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k.String())
	}
	sort.Strings(out)
	return out
}

func wantKeys(t *testing.T, got graph.ResultGraph, want ...string) {
	t.Helper()
	sort.Strings(want)
	gotSorted := sortedKeys(got)
	if len(gotSorted) != len(want) {
		t.Fatalf("result keys = %v, want %v", gotSorted, want)
	}
	for i := range want {
		if gotSorted[i] != want[i] {
			t.Fatalf("result keys = %v, want %v", gotSorted, want)
		}
	}
}

func wantChildren(t *testing.T, node *graph.ResultNode, want map[graph.ModuleKey]bool) {
	t.Helper()
	got := node.SortedChildren()
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for _, c := range got {
		exp, _ := node.ChildExpanded(c)
		wantExp, ok := want[c]
		if !ok || exp != wantExp {
			t.Fatalf("child %s expanded=%v, want %v (ok=%v)", c, exp, wantExp, ok)
		}
	}
}

func wantIndirectChildren(t *testing.T, node *graph.ResultNode, want map[graph.ModuleKey]bool) {
	t.Helper()
	got := node.SortedIndirectChildren()
	if len(got) != len(want) {
		t.Fatalf("indirect children = %v, want %v", got, want)
	}
	for _, c := range got {
		exp, _ := node.IndirectChildExpanded(c)
		wantExp, ok := want[c]
		if !ok || exp != wantExp {
			t.Fatalf("indirect child %s expanded=%v, want %v (ok=%v)", c, exp, wantExp, ok)
		}
	}
}

// TestScenarioA covers a simple chain with no target filtering.
func TestScenarioA(t *testing.T) {
	a, b, c := key("A"), key("B"), key("C")
	g := buildGraph(
		testEdge{graph.Root, a, true},
		testEdge{a, b, true},
		testEdge{b, c, true},
	)
	d := NewQueryDriver(g)
	result, diags := d.Tree(graph.NewKeySet(graph.Root), Options{Depth: 10})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	wantKeys(t, result, graph.Root.String(), a.String(), b.String(), c.String())
	wantChildren(t, result[graph.Root], map[graph.ModuleKey]bool{a: true})
	wantChildren(t, result[a], map[graph.ModuleKey]bool{b: true})
	wantChildren(t, result[b], map[graph.ModuleKey]bool{c: true})
	wantChildren(t, result[c], map[graph.ModuleKey]bool{})

	for _, k := range []graph.ModuleKey{graph.Root, a, b, c} {
		if result[k].IsTarget || result[k].IsTargetParent {
			t.Errorf("%s: expected isTarget=false isTargetParent=false, got %v/%v", k, result[k].IsTarget, result[k].IsTargetParent)
		}
	}
}

// TestScenarioB covers singlePath pruning a branch with no route to the target.
func TestScenarioB(t *testing.T) {
	a, b, c, dd := key("A"), key("B"), key("C"), key("D")
	g := buildGraph(
		testEdge{graph.Root, a, true},
		testEdge{a, b, true},
		testEdge{a, c, true},
		testEdge{c, dd, true},
	)
	d := NewQueryDriver(g)
	result, _ := d.Path(graph.NewKeySet(graph.Root), graph.NewKeySet(dd), Options{Depth: 10})

	wantKeys(t, result, graph.Root.String(), a.String(), c.String(), dd.String())
	wantChildren(t, result[graph.Root], map[graph.ModuleKey]bool{a: true})
	wantChildren(t, result[a], map[graph.ModuleKey]bool{c: true})
	wantChildren(t, result[c], map[graph.ModuleKey]bool{dd: true})
	wantChildren(t, result[dd], map[graph.ModuleKey]bool{})

	if !result[dd].IsTarget {
		t.Error("D: expected isTarget=true")
	}
	if !result[c].IsTargetParent {
		t.Error("C: expected isTargetParent=true")
	}
	if result[a].IsTargetParent {
		t.Error("A: expected isTargetParent=false (target is a grandchild, not a direct child)")
	}
	if _, ok := result[b]; ok {
		t.Error("B: expected absent from the result (no path to D)")
	}
}

// TestScenarioC covers depth-limited detachment: an intermediate non-target
// node is elided entirely and the target is reparented via an indirect edge.
func TestScenarioC(t *testing.T) {
	a, b, c, dd := key("A"), key("B"), key("C"), key("D")
	g := buildGraph(
		testEdge{graph.Root, a, true},
		testEdge{a, b, true},
		testEdge{b, c, true},
		testEdge{c, dd, true},
	)
	d := NewQueryDriver(g)
	result, _ := d.Path(graph.NewKeySet(graph.Root), graph.NewKeySet(dd), Options{Depth: 2})

	wantKeys(t, result, graph.Root.String(), a.String(), b.String(), dd.String())
	wantChildren(t, result[graph.Root], map[graph.ModuleKey]bool{a: true})
	wantChildren(t, result[a], map[graph.ModuleKey]bool{b: true})
	wantChildren(t, result[b], map[graph.ModuleKey]bool{})
	wantIndirectChildren(t, result[b], map[graph.ModuleKey]bool{dd: true})
	if !result[dd].IsTarget {
		t.Error("D: expected isTarget=true")
	}
	if _, ok := result[c]; ok {
		t.Error("C: expected to be elided from the result past the depth cutoff")
	}
}

// TestScenarioD covers cycle handling: with cycles=true the back-edge is a
// FALSE stub, with cycles=false it's silently dropped.
func TestScenarioD(t *testing.T) {
	a, b := key("A"), key("B")
	g := buildGraph(
		testEdge{graph.Root, a, true},
		testEdge{a, b, true},
		testEdge{b, a, true},
	)

	t.Run("cycles=true", func(t *testing.T) {
		d := NewQueryDriver(g)
		result, _ := d.Tree(graph.NewKeySet(graph.Root), Options{Depth: 10, Cycles: true})
		wantKeys(t, result, graph.Root.String(), a.String(), b.String())
		wantChildren(t, result[graph.Root], map[graph.ModuleKey]bool{a: true})
		wantChildren(t, result[a], map[graph.ModuleKey]bool{b: true})
		wantChildren(t, result[b], map[graph.ModuleKey]bool{a: false})
	})

	t.Run("cycles=false", func(t *testing.T) {
		d := NewQueryDriver(g)
		result, _ := d.Tree(graph.NewKeySet(graph.Root), Options{Depth: 10, Cycles: false})
		wantChildren(t, result[b], map[graph.ModuleKey]bool{})
	})
}

// TestScenarioE covers allPaths union across two independent routes to the
// same target, with an unrelated branch excluded.
func TestScenarioE(t *testing.T) {
	a, b, c, target := key("A"), key("B"), key("C"), key("T")
	g := buildGraph(
		testEdge{graph.Root, a, true},
		testEdge{a, target, true},
		testEdge{graph.Root, b, true},
		testEdge{b, target, true},
		testEdge{graph.Root, c, true},
	)
	d := NewQueryDriver(g)
	result, _ := d.AllPaths(graph.NewKeySet(graph.Root), graph.NewKeySet(target), Options{Depth: 10})

	wantKeys(t, result, graph.Root.String(), a.String(), b.String(), target.String())
	if !result[target].IsTarget {
		t.Error("T: expected isTarget=true")
	}
	if !result[a].IsTargetParent || !result[b].IsTargetParent {
		t.Error("A and B: expected isTargetParent=true")
	}
	if _, ok := result[c]; ok {
		t.Error("C: expected absent (unrelated to any path to T)")
	}
}

// TestScenarioF covers unused-dependency exclusion and inclusion.
func TestScenarioF(t *testing.T) {
	a, b, c := key("A"), key("B"), key("C")
	g := buildGraph(
		testEdge{graph.Root, a, true},
		testEdge{a, b, false},
		testEdge{b, c, true},
	)
	g.Ensure(b, false, true)

	t.Run("includeUnused=false", func(t *testing.T) {
		d := NewQueryDriver(g)
		result, _ := d.Tree(graph.NewKeySet(graph.Root), Options{Depth: 10, IncludeUnused: false})
		wantKeys(t, result, graph.Root.String(), a.String())
		wantChildren(t, result[a], map[graph.ModuleKey]bool{})
	})

	t.Run("includeUnused=true", func(t *testing.T) {
		d := NewQueryDriver(g)
		result, _ := d.Tree(graph.NewKeySet(graph.Root), Options{Depth: 10, IncludeUnused: true})
		wantKeys(t, result, graph.Root.String(), a.String(), b.String(), c.String())
		wantChildren(t, result[a], map[graph.ModuleKey]bool{b: true})
		wantChildren(t, result[b], map[graph.ModuleKey]bool{c: true})
	})
}

// TestDiamondDependencySharedDescendant covers a diamond shape where two
// siblings both depend on the same module, and that shared module itself
// has further children: ROOT->A->X->Y, ROOT->B->X. X's one real BFS-
// discovering edge comes from whichever of A/B is visited first; the other
// reaches X through a FALSE back-reference and must not clobber X's
// already-built entry or orphan Y.
func TestDiamondDependencySharedDescendant(t *testing.T) {
	a, b, x, y := key("A"), key("B"), key("X"), key("Y")
	g := buildGraph(
		testEdge{graph.Root, a, true},
		testEdge{graph.Root, b, true},
		testEdge{a, x, true},
		testEdge{b, x, true},
		testEdge{x, y, true},
	)
	d := NewQueryDriver(g)
	result, diags := d.Tree(graph.NewKeySet(graph.Root), Options{Depth: 10})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	wantKeys(t, result, graph.Root.String(), a.String(), b.String(), x.String(), y.String())
	// A is visited first (alphabetical BFS order), so A->X is the one real
	// expanding edge; B->X is a FALSE back-reference to the same entry.
	wantChildren(t, result[a], map[graph.ModuleKey]bool{x: true})
	wantChildren(t, result[b], map[graph.ModuleKey]bool{x: false})
	wantChildren(t, result[x], map[graph.ModuleKey]bool{y: true})
	wantChildren(t, result[y], map[graph.ModuleKey]bool{})
}

func TestEmptyFrontierDiagnostic(t *testing.T) {
	g := buildGraph()
	d := NewQueryDriver(g)
	result, diags := d.Tree(graph.NewKeySet(key("unknown")), Options{Depth: 10})

	wantKeys(t, result, graph.Root.String())
	foundUnknown, foundEmpty := false, false
	for _, diag := range diags {
		if diag.Kind == UnknownModule {
			foundUnknown = true
		}
		if diag.Kind == EmptyFrontier {
			foundEmpty = true
		}
	}
	if !foundUnknown {
		t.Error("expected an UnknownModule diagnostic")
	}
	if !foundEmpty {
		t.Error("expected an EmptyFrontier diagnostic")
	}
}

func TestShow(t *testing.T) {
	a, b := key("A"), key("B")
	g := buildGraph(
		testEdge{graph.Root, a, true},
		testEdge{a, b, true},
	)
	info, ok := Show(g, a)
	if !ok {
		t.Fatal("expected A to be present")
	}
	if len(info.Dependants) != 1 || info.Dependants[0] != graph.Root {
		t.Errorf("Dependants = %v, want [%s]", info.Dependants, graph.Root)
	}
	if len(info.UsedDeps) != 1 || info.UsedDeps[0] != b {
		t.Errorf("UsedDeps = %v, want [%s]", info.UsedDeps, b)
	}

	if _, ok := Show(g, key("nope")); ok {
		t.Error("expected nope to be absent")
	}
}
