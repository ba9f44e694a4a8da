package usecase

import "testing"

type memIdentity struct {
	id  string
	set int
}

func (m *memIdentity) Get() (string, bool) { return m.id, m.id != "" }

func (m *memIdentity) Set(id string) {
	m.id = id
	m.set++
}

func TestResolveParamOverridesStored(t *testing.T) {
	store := &memIdentity{id: "xyz"}
	r := NewIdentityResolver()
	if got := r.Resolve("abc", store); got != "abc" {
		t.Fatalf("resolve = %q, want abc", got)
	}
	if store.id != "abc" || store.set != 1 {
		t.Fatalf("store not updated: %+v", store)
	}
}

func TestResolveFallsBackToStored(t *testing.T) {
	store := &memIdentity{id: "xyz"}
	if got := NewIdentityResolver().Resolve("", store); got != "xyz" {
		t.Fatalf("resolve = %q, want xyz", got)
	}
	if store.set != 0 {
		t.Fatalf("store must not be written")
	}
}

func TestResolveUnlinked(t *testing.T) {
	if got := NewIdentityResolver().Resolve("  ", &memIdentity{}); got != "" {
		t.Fatalf("resolve = %q, want empty", got)
	}
	if got := NewIdentityResolver().Resolve("", nil); got != "" {
		t.Fatalf("resolve with nil store = %q", got)
	}
}
