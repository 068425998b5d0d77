package ecs

import "testing"

func TestEntityPool_ZeroIDNeverIssued(t *testing.T) {
	p := NewEntityPool()
	id := p.Create()
	if id.IsZero() {
		t.Fatal("first entity got the zero ID")
	}
	if p.Alive(0) {
		t.Error("zero ID reported alive")
	}
}

func TestEntityPool_StaleIDAfterReuse(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	p.Destroy(a)
	b := p.Create()

	if a.Index() != b.Index() {
		t.Fatalf("expected slot reuse, got %d and %d", a.Index(), b.Index())
	}
	if p.Alive(a) {
		t.Error("stale ID still alive after reuse")
	}
	if !p.Alive(b) {
		t.Error("new ID not alive")
	}
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
}

func TestComponentStore_InsertionOrderSurvivesRemove(t *testing.T) {
	s := NewPtrComponentStore[int]()
	vals := []int{10, 20, 30, 40}
	for i, v := range vals {
		v := v
		s.Set(NewEntityID(uint32(i+1), 0), &v)
	}
	s.Remove(NewEntityID(2, 0))

	var got []int
	s.Each(func(_ EntityID, v *int) { got = append(got, *v) })
	want := []int{10, 30, 40}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if v, ok := s.Get(NewEntityID(4, 0)); !ok || *v != 40 {
		t.Errorf("index not rebuilt after remove")
	}
}

func TestComponentStore_EachSkipsRemovedAndAdded(t *testing.T) {
	s := NewPtrComponentStore[int]()
	one, two := 1, 2
	s.Set(NewEntityID(1, 0), &one)
	s.Set(NewEntityID(2, 0), &two)

	visits := 0
	s.Each(func(id EntityID, _ *int) {
		visits++
		if id.Index() == 1 {
			s.Remove(NewEntityID(2, 0))
			three := 3
			s.Set(NewEntityID(3, 0), &three)
		}
	})
	if visits != 1 {
		t.Errorf("visits = %d, want 1", visits)
	}
	if !s.Has(NewEntityID(3, 0)) {
		t.Error("entry added during walk missing afterwards")
	}
}

func TestWorld_FlushDestroyQueue(t *testing.T) {
	w := NewWorld()
	store := NewPtrComponentStore[string]()
	w.Registry().Register("names", store)

	id := w.CreateEntity()
	name := "lander"
	store.Set(id, &name)

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	if !w.Pending(id) {
		t.Fatal("entity not pending after mark")
	}

	hooks := 0
	w.FlushDestroyQueue(func(got EntityID) {
		hooks++
		if _, ok := store.Get(got); !ok {
			t.Error("components removed before hook ran")
		}
	})
	if hooks != 1 {
		t.Errorf("hook ran %d times, want 1", hooks)
	}
	if w.Alive(id) || store.Has(id) || w.Pending(id) {
		t.Error("entity survived flush")
	}
	if held := w.Registry().Holding(id); len(held) != 0 {
		t.Errorf("stores still holding entity: %v", held)
	}
}

func TestRegistry_HoldingAndSizes(t *testing.T) {
	r := NewRegistry()
	names := NewPtrComponentStore[string]()
	counts := NewPtrComponentStore[int]()
	r.Register("names", names)
	r.Register("counts", counts)

	a, b := NewEntityID(1, 0), NewEntityID(2, 0)
	n, c := "a", 1
	names.Set(a, &n)
	counts.Set(a, &c)
	names.Set(b, &n)

	if held := r.Holding(a); len(held) != 2 || held[0] != "names" || held[1] != "counts" {
		t.Errorf("Holding(a) = %v", held)
	}
	r.RemoveAll(a)
	if held := r.Holding(a); len(held) != 0 {
		t.Errorf("Holding(a) after RemoveAll = %v", held)
	}

	sizes := map[string]int{}
	r.Sizes(func(name string, n int) { sizes[name] = n })
	if sizes["names"] != 1 || sizes["counts"] != 0 {
		t.Errorf("sizes = %v", sizes)
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate store name accepted")
		}
	}()
	r.Register("names", NewPtrComponentStore[bool]())
}
