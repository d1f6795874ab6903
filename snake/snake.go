// 蛇的移动、寻路与碰撞规则
package snake

import (
	"math/rand"

	"github.com/gammazero/deque"
	"github.com/hoshinonyaruko/snake-arena/grid"
	"github.com/hoshinonyaruko/snake-arena/pathfind"
)

// Snake is one autonomous agent. Its body is head-first.
type Snake struct {
	ID        int
	Algorithm pathfind.Algorithm

	body      deque.Deque[grid.Cell]
	direction grid.Cell
	score     int
	alive     bool

	find pathfind.Func
	rng  *rand.Rand
}

// NewSnake stacks length segments on start and faces a random direction.
func NewSnake(id int, alg pathfind.Algorithm, start grid.Cell, length int, rng *rand.Rand) *Snake {
	s := &Snake{
		ID:        id,
		Algorithm: alg,
		direction: grid.Directions[rng.Intn(len(grid.Directions))],
		alive:     true,
		find:      alg.Func(),
		rng:       rng,
	}
	for i := 0; i < length; i++ {
		s.body.PushBack(start)
	}
	return s
}

func (s *Snake) Head() grid.Cell      { return s.body.Front() }
func (s *Snake) Tail() grid.Cell      { return s.body.Back() }
func (s *Snake) Len() int             { return s.body.Len() }
func (s *Snake) Direction() grid.Cell { return s.direction }
func (s *Snake) Score() int           { return s.score }
func (s *Snake) Alive() bool          { return s.alive }

// Body returns a copy of the segments, head first.
func (s *Snake) Body() []grid.Cell {
	out := make([]grid.Cell, s.body.Len())
	for i := range out {
		out[i] = s.body.At(i)
	}
	return out
}

func (s *Snake) Contains(c grid.Cell) bool {
	for i := 0; i < s.body.Len(); i++ {
		if s.body.At(i) == c {
			return true
		}
	}
	return false
}

// Move plays one turn and reports whether the snake ate the food.
// Snakes earlier in the slice have already moved this tick.
func (s *Snake) Move(g *grid.Grid, food grid.Cell, snakes []*Snake) bool {
	if !s.alive {
		return false
	}

	obstacles := s.obstacles(snakes)
	head := s.Head()

	var next grid.Cell
	if path := s.find(g, head, food, obstacles); len(path) >= 2 {
		next = path[1]
		s.direction = next.Sub(head)
	} else {
		var ok bool
		if next, ok = s.survivalMove(g, obstacles); !ok {
			// 无路可走，身体保持不变
			s.alive = false
			return false
		}
	}

	s.body.PushFront(next)

	// 撞墙、撞到其他蛇或咬到自己：致命的蛇头保留在身体上
	if !g.Passable(next, obstacles) || s.bitSelf() {
		s.alive = false
		return false
	}

	if next == food {
		s.score++
		return true
	}
	s.body.PopBack()
	return false
}

// obstacles collects every other snake's body, dead or alive, plus our own body minus the head.
func (s *Snake) obstacles(snakes []*Snake) grid.Set {
	n := 0
	for _, other := range snakes {
		n += other.Len()
	}
	set := grid.NewSet(n)
	for _, other := range snakes {
		start := 0
		if other == s {
			start = 1
		}
		for i := start; i < other.body.Len(); i++ {
			set.Add(other.body.At(i))
		}
	}
	return set
}

// survivalMove tries the four directions in a fresh random order.
func (s *Snake) survivalMove(g *grid.Grid, obstacles grid.Set) (grid.Cell, bool) {
	dirs := grid.Directions
	s.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	head := s.Head()
	for _, d := range dirs {
		if c := head.Add(d); g.Passable(c, obstacles) {
			s.direction = d
			return c, true
		}
	}
	return grid.NoCell, false
}

func (s *Snake) bitSelf() bool {
	head := s.body.Front()
	for i := 1; i < s.body.Len(); i++ {
		if s.body.At(i) == head {
			return true
		}
	}
	return false
}
