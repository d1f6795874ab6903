package snake

import "github.com/hoshinonyaruko/snake-arena/grid"

// placeFood picks a uniformly random free cell by rejection sampling.
// A board with no free cell gets no food.
func (r *Round) placeFood() grid.Cell {
	occupied := r.occupied()
	free := 0
	for i := 0; i < r.grid.Area(); i++ {
		if c := r.grid.CellAt(i); r.grid.Open(c) && !occupied.Has(c) {
			free++
		}
	}
	if free == 0 {
		return grid.NoCell
	}
	size := r.grid.Size()
	for {
		c := grid.Cell{X: r.rng.Intn(size), Y: r.rng.Intn(size)}
		if r.grid.Open(c) && !occupied.Has(c) {
			return c
		}
	}
}

// occupied is every body segment on the board, dead snakes included.
func (r *Round) occupied() grid.Set {
	set := grid.NewSet(r.grid.Area())
	for _, s := range r.snakes {
		for i := 0; i < s.body.Len(); i++ {
			set.Add(s.body.At(i))
		}
	}
	return set
}
