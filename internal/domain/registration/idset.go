package registration

import "slices"

// IDSet is an insertion-ordered set of ids.
// Add and Remove are idempotent.
type IDSet struct {
	ids []string
}

// NewIDSet creates a set holding ids in order, skipping duplicates.
func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add appends id unless it is already present. Reports whether the set changed.
func (s *IDSet) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes id if present. Reports whether the set changed.
func (s *IDSet) Remove(id string) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

// Contains reports whether id is in the set.
func (s *IDSet) Contains(id string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.ids, id)
}

// Len returns the number of ids in the set.
func (s *IDSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Slice returns a copy of the ids in insertion order.
func (s *IDSet) Slice() []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s.ids)
}
