package grid

// Set is a hash set of cells. The zero value is not usable; make one with NewSet.
type Set map[Cell]struct{}

func NewSet(capacity int) Set { return make(Set, capacity) }

func (s Set) Add(c Cell) { s[c] = struct{}{} }

// Has is safe on a nil Set.
func (s Set) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

func (s Set) Len() int { return len(s) }
