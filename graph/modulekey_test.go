package graph

import "testing"

func TestModuleKeyLess(t *testing.T) {
	a := ModuleKey{Name: "a", Version: "v1"}
	b := ModuleKey{Name: "a", Version: "v2"}
	c := ModuleKey{Name: "b", Version: "v0"}

	if !a.Less(b) {
		t.Error("expected a@v1 < a@v2")
	}
	if !b.Less(c) {
		t.Error("expected a@v2 < b@v0")
	}
	if c.Less(a) {
		t.Error("expected b@v0 not < a@v1")
	}
}

func TestModuleKeyString(t *testing.T) {
	if Root.String() != "(root)" {
		t.Errorf("Root.String() = %q, want (root)", Root.String())
	}
	bare := ModuleKey{Name: "example.com/foo"}
	if bare.String() != "example.com/foo" {
		t.Errorf("bare.String() = %q", bare.String())
	}
	versioned := ModuleKey{Name: "example.com/foo", Version: "v1.2.3"}
	if versioned.String() != "example.com/foo@v1.2.3" {
		t.Errorf("versioned.String() = %q", versioned.String())
	}
}

func TestKeySetSorted(t *testing.T) {
	b := ModuleKey{Name: "b"}
	a := ModuleKey{Name: "a"}
	c := ModuleKey{Name: "c"}
	s := NewKeySet(b, a, c)

	got := s.Sorted()
	want := []ModuleKey{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("Sorted() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", got, want)
		}
	}
}

func TestKeySetAdd(t *testing.T) {
	s := make(KeySet)
	k := ModuleKey{Name: "x"}
	if !s.Add(k) {
		t.Error("first Add should return true")
	}
	if s.Add(k) {
		t.Error("second Add should return false")
	}
	if !s.Contains(k) {
		t.Error("expected s to contain k")
	}
}
