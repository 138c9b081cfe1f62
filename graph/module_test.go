package graph

import "testing"

func TestAddEdgeUsedAndAllDeps(t *testing.T) {
	g := NewDepGraph()
	a := ModuleKey{Name: "a"}
	b := ModuleKey{Name: "b"}
	c := ModuleKey{Name: "c"}

	g.AddEdge(a, b, true)
	g.AddEdge(a, c, false)

	if !g[a].Deps(false).Contains(b) {
		t.Error("expected b in a's used deps")
	}
	if g[a].Deps(false).Contains(c) {
		t.Error("expected c absent from a's used deps")
	}
	if !g[a].Deps(true).Contains(b) || !g[a].Deps(true).Contains(c) {
		t.Error("expected b and c in a's all deps")
	}
	if !g[b].Dependants().Contains(a) {
		t.Error("expected a in b's dependants")
	}
	if g[c].Dependants().Contains(a) {
		t.Error("expected a absent from c's dependants (unused edge)")
	}
	if !g[c].OriginalDependants().Contains(a) {
		t.Error("expected a in c's originalDependants")
	}
}

func TestEnsureNeverDowngrades(t *testing.T) {
	g := NewDepGraph()
	k := ModuleKey{Name: "a"}
	g.Ensure(k, true, true)
	g.Ensure(k, false, false)
	if !g[k].Used || !g[k].Loaded {
		t.Error("Ensure must not downgrade Used/Loaded once set")
	}
}
