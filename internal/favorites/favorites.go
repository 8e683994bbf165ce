// Package favorites implements the shopper's favorite-product set.
package favorites

// Outcome reports what Toggle did.
type Outcome int

const (
	Added Outcome = iota + 1
	Removed
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// Set is an immutable set of product ids. Insertion order is kept for display
// but is not part of equality. The zero value is empty.
type Set struct {
	ids []int
}

// Of builds a set from ids, ignoring duplicates.
func Of(ids ...int) Set {
	var s Set
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Toggle removes id if present and adds it otherwise. Any id is accepted.
func Toggle(s Set, id int) (Set, Outcome) {
	for i, v := range s.ids {
		if v == id {
			ids := make([]int, 0, len(s.ids)-1)
			ids = append(ids, s.ids[:i]...)
			ids = append(ids, s.ids[i+1:]...)
			return Set{ids: ids}, Removed
		}
	}
	ids := make([]int, len(s.ids), len(s.ids)+1)
	copy(ids, s.ids)
	return Set{ids: append(ids, id)}, Added
}

// Contains reports membership.
func (s Set) Contains(id int) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// IDs returns the members in insertion order.
func (s Set) IDs() []int {
	return append([]int(nil), s.ids...)
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.ids)
}

// Equal reports whether both sets have the same members.
func (s Set) Equal(other Set) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for _, id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}
