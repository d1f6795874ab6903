package snake

import (
	"fmt"

	"github.com/hoshinonyaruko/snake-arena/grid"
	"github.com/hoshinonyaruko/snake-arena/pathfind"
)

// SnakeState is a value copy of one snake.
type SnakeState struct {
	ID        int
	Algorithm pathfind.Algorithm
	Body      []grid.Cell
	Direction grid.Cell
	Score     int
	Alive     bool
}

// State is a value copy of a round, enough to rebuild it with Restore.
type State struct {
	Food   grid.Cell
	Status Status
	Ticks  int
	Snakes []SnakeState
}

func (s *Snake) State() SnakeState {
	return SnakeState{
		ID:        s.ID,
		Algorithm: s.Algorithm,
		Body:      s.Body(),
		Direction: s.direction,
		Score:     s.score,
		Alive:     s.alive,
	}
}

func (r *Round) State() State {
	st := State{Food: r.food, Status: r.status, Ticks: r.ticks, Snakes: make([]SnakeState, len(r.snakes))}
	for i, s := range r.snakes {
		st.Snakes[i] = s.State()
	}
	return st
}

// Restore rebuilds a round from a snapshot taken under cfg. The random source
// restarts from cfg.Seed, so a restored round does not replay the original.
func Restore(cfg Config, st State) (*Round, error) {
	r, err := NewRound(cfg)
	if err != nil {
		return nil, err
	}
	if len(st.Snakes) != len(r.snakes) {
		return nil, fmt.Errorf("%w: snapshot has %d snakes, config %d", ErrInvalidConfig, len(st.Snakes), len(r.snakes))
	}
	for i, ss := range st.Snakes {
		if ss.ID != i || len(ss.Body) == 0 {
			return nil, fmt.Errorf("%w: snapshot snake %d is malformed", ErrInvalidConfig, i)
		}
		if !ss.Algorithm.Valid() {
			return nil, fmt.Errorf("%w: snapshot snake %d: %v", ErrInvalidConfig, i, ss.Algorithm)
		}
		for _, c := range ss.Body {
			if !r.grid.Open(c) {
				return nil, fmt.Errorf("%w: snapshot snake %d has segment %v off the board or on a wall", ErrInvalidConfig, i, c)
			}
		}
		s := r.snakes[i]
		s.Algorithm = ss.Algorithm
		s.find = ss.Algorithm.Func()
		r.cfg.Algorithms[i] = ss.Algorithm
		s.direction = ss.Direction
		s.score = ss.Score
		s.alive = ss.Alive
		s.body.Clear()
		for _, c := range ss.Body {
			s.body.PushBack(c)
		}
	}
	// 棋盘满时食物为 NoCell，其余情况必须落在空地上
	if st.Food != grid.NoCell {
		if !r.grid.Open(st.Food) || r.occupied().Has(st.Food) {
			return nil, fmt.Errorf("%w: snapshot food %v is not on a free cell", ErrInvalidConfig, st.Food)
		}
	}
	r.food = st.Food
	r.status = st.Status
	r.ticks = st.Ticks
	return r, nil
}
