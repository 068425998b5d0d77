package ecs

// Removable is the part of a component store the Registry drives.
type Removable interface {
	Remove(id EntityID)
	Has(id EntityID) bool
	Len() int
}

// PtrComponentStore is a generic typed store for ECS components. Entries keep
// insertion order so iteration is stable from tick to tick.
type PtrComponentStore[T any] struct {
	index map[EntityID]int
	ids   []EntityID
	data  []*T
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		index: make(map[EntityID]int, 64),
		ids:   make([]EntityID, 0, 64),
		data:  make([]*T, 0, 64),
	}
}

// Set inserts or replaces the component for id. Replacing keeps the
// existing position.
func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	if i, ok := s.index[id]; ok {
		s.data[i] = c
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.data = append(s.data, c)
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.data[i], true
}

// Remove deletes the component for id and shifts later entries down so the
// remaining order is unchanged.
func (s *PtrComponentStore[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	copy(s.ids[i:], s.ids[i+1:])
	copy(s.data[i:], s.data[i+1:])
	last := len(s.ids) - 1
	s.data[last] = nil
	s.ids = s.ids[:last]
	s.data = s.data[:last]
	for j := i; j < last; j++ {
		s.index[s.ids[j]] = j
	}
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.ids)
}

// Each visits entries in insertion order. Entries added during the walk are
// not visited; entries removed during the walk are skipped.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	ids := make([]EntityID, len(s.ids))
	copy(ids, s.ids)
	for _, id := range ids {
		if c, ok := s.Get(id); ok {
			fn(id, c)
		}
	}
}
