package repository

import "testing"

// toggleMirror models the toggle transaction's state machine: a relation
// set plus a mirrored counter, with the same guards the SQL uses
// (ON CONFLICT DO NOTHING on insert, like_count > 0 on decrement).
type toggleMirror struct {
	relations map[string]bool
	counter   int64
}

func newToggleMirror() *toggleMirror {
	return &toggleMirror{relations: make(map[string]bool)}
}

func (m *toggleMirror) toggle(key string) bool {
	if m.relations[key] {
		delete(m.relations, key)
		if m.counter > 0 {
			m.counter--
		}
		return false
	}
	m.relations[key] = true
	m.counter++
	return true
}

// insert mimics a concurrent INSERT ... ON CONFLICT DO NOTHING: the
// counter moves only when a row was actually inserted.
func (m *toggleMirror) insert(key string) bool {
	if m.relations[key] {
		return false
	}
	m.relations[key] = true
	m.counter++
	return true
}

func TestToggleIsInvolution(t *testing.T) {
	m := newToggleMirror()

	if !m.toggle("u1:video:v1") {
		t.Fatal("first toggle should create the relation")
	}
	if m.counter != 1 {
		t.Fatalf("counter = %d, want 1", m.counter)
	}

	if m.toggle("u1:video:v1") {
		t.Fatal("second toggle should remove the relation")
	}
	if m.counter != 0 {
		t.Fatalf("counter = %d, want 0 after toggle pair", m.counter)
	}
	if len(m.relations) != 0 {
		t.Fatal("relation should be gone after toggle pair")
	}
}

func TestToggleCounterMatchesRelationCount(t *testing.T) {
	m := newToggleMirror()

	keys := []string{"u1:video:v1", "u2:video:v1", "u3:video:v1"}
	for _, k := range keys {
		m.toggle(k)
	}
	m.toggle(keys[1])

	if int(m.counter) != len(m.relations) {
		t.Fatalf("counter = %d, relations = %d; mirror drifted", m.counter, len(m.relations))
	}
	if m.counter != 2 {
		t.Fatalf("counter = %d, want 2", m.counter)
	}
}

func TestDuplicateInsertDoesNotDoubleCount(t *testing.T) {
	m := newToggleMirror()

	if !m.insert("u1:tweet:t1") {
		t.Fatal("first insert should win")
	}
	// A concurrent duplicate hits the unique constraint and is absorbed.
	if m.insert("u1:tweet:t1") {
		t.Fatal("duplicate insert should be a no-op")
	}
	if m.counter != 1 {
		t.Fatalf("counter = %d, want 1 after duplicate insert", m.counter)
	}
}

func TestDecrementNeverGoesNegative(t *testing.T) {
	m := newToggleMirror()

	// Simulate a drifted counter: relation exists but the mirror reads 0.
	m.relations["u1:comment:c1"] = true
	m.counter = 0

	m.toggle("u1:comment:c1")
	if m.counter != 0 {
		t.Fatalf("counter = %d, want 0; guarded decrement must not underflow", m.counter)
	}
}

func TestPerKindRelationsIndependent(t *testing.T) {
	m := newToggleMirror()

	m.toggle("u1:video:id1")
	m.toggle("u1:comment:id1")
	m.toggle("u1:tweet:id1")

	if m.counter != 3 {
		t.Fatalf("counter = %d, want 3; same id under different kinds are distinct relations", m.counter)
	}
}
