package snake

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/hoshinonyaruko/snake-arena/grid"
	"github.com/hoshinonyaruko/snake-arena/pathfind"
)

// ErrInvalidConfig wraps every rejected round configuration.
var ErrInvalidConfig = errors.New("snake: invalid round config")

const MinGridSize = 5

// Status of a round after a tick.
type Status int

const (
	Continuing Status = iota
	Over
)

func (s Status) String() string {
	if s == Over {
		return "over"
	}
	return "continuing"
}

// Config is everything a round needs at reset. It is copied into the round.
type Config struct {
	GridSize      int
	Algorithms    []pathfind.Algorithm // one per snake, in id order
	SnakeCount    int                  // 0 means len(Algorithms)
	InitialLength int
	Starts        []grid.Cell // nil means DefaultStarts(GridSize)
	Seed          int64
}

// DefaultStarts is the four-corner start table, inset five cells from the border.
func DefaultStarts(size int) []grid.Cell {
	return []grid.Cell{
		{X: 5, Y: 5},
		{X: size - 6, Y: size - 6},
		{X: 5, Y: size - 6},
		{X: size - 6, Y: 5},
	}
}

func (c Config) count() int {
	if c.SnakeCount == 0 {
		return len(c.Algorithms)
	}
	return c.SnakeCount
}

func (c Config) starts() []grid.Cell {
	if c.Starts == nil {
		return DefaultStarts(c.GridSize)
	}
	return c.Starts
}

// Validate rejects configurations the round cannot play. It never clamps.
func (c Config) Validate() error {
	if c.GridSize < MinGridSize {
		return fmt.Errorf("%w: grid size %d is below %d", ErrInvalidConfig, c.GridSize, MinGridSize)
	}
	if c.InitialLength < 1 {
		return fmt.Errorf("%w: initial length %d", ErrInvalidConfig, c.InitialLength)
	}
	// interior must be wider than a fully stretched starting snake
	if c.GridSize-2 <= c.InitialLength {
		return fmt.Errorf("%w: grid size %d too small for initial length %d", ErrInvalidConfig, c.GridSize, c.InitialLength)
	}
	n := c.count()
	if n < 1 {
		return fmt.Errorf("%w: no snakes", ErrInvalidConfig)
	}
	if len(c.Algorithms) != n {
		return fmt.Errorf("%w: %d algorithms for %d snakes", ErrInvalidConfig, len(c.Algorithms), n)
	}
	for i, alg := range c.Algorithms {
		if !alg.Valid() {
			return fmt.Errorf("%w: snake %d: %v", ErrInvalidConfig, i, alg)
		}
	}
	starts := c.starts()
	if len(starts) < n {
		return fmt.Errorf("%w: %d snakes but only %d start positions", ErrInvalidConfig, n, len(starts))
	}
	g, err := grid.New(c.GridSize)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	seen := grid.NewSet(n)
	for i, p := range starts[:n] {
		if !g.Open(p) {
			return fmt.Errorf("%w: start %v of snake %d is off the board or on a wall", ErrInvalidConfig, p, i)
		}
		if seen.Has(p) {
			return fmt.Errorf("%w: start %v is shared", ErrInvalidConfig, p)
		}
		seen.Add(p)
	}
	return nil
}

// Round owns the board, the food and the snakes of one game.
type Round struct {
	cfg    Config
	grid   *grid.Grid
	food   grid.Cell
	snakes []*Snake
	status Status
	ticks  int
	rng    *rand.Rand
}

func NewRound(cfg Config) (*Round, error) {
	r := &Round{}
	if err := r.Reset(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// Reset starts a fresh round. On error the round is left untouched.
func (r *Round) Reset(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g, err := grid.New(cfg.GridSize)
	if err != nil {
		return err
	}
	cfg.Algorithms = append([]pathfind.Algorithm(nil), cfg.Algorithms...)
	cfg.Starts = append([]grid.Cell(nil), cfg.starts()[:cfg.count()]...)

	rng := NewRand(cfg.Seed)
	snakes := make([]*Snake, cfg.count())
	for i := range snakes {
		snakes[i] = NewSnake(i, cfg.Algorithms[i], cfg.Starts[i], cfg.InitialLength, rng)
	}

	*r = Round{cfg: cfg, grid: g, snakes: snakes, rng: rng}
	r.food = r.placeFood()
	return nil
}

// Tick moves every living snake once, in id order.
func (r *Round) Tick() Status {
	if r.status == Over {
		return Over
	}
	eaten := false
	for _, s := range r.snakes {
		if s.Alive() && s.Move(r.grid, r.food, r.snakes) {
			eaten = true
		}
	}
	// 同一回合多条蛇吃到食物也只刷新一次
	if eaten {
		r.food = r.placeFood()
	}
	r.ticks++
	if r.AliveCount() <= 1 {
		r.status = Over
	}
	return r.status
}

func (r *Round) Config() Config      { return r.cfg }
func (r *Round) Grid() *grid.Grid    { return r.grid }
func (r *Round) Food() grid.Cell     { return r.food }
func (r *Round) Snakes() []*Snake    { return r.snakes }
func (r *Round) Status() Status      { return r.status }
func (r *Round) Ticks() int          { return r.ticks }

// Snake returns the snake with the given id, or nil when there is none.
func (r *Round) Snake(id int) *Snake {
	if id < 0 || id >= len(r.snakes) {
		return nil
	}
	return r.snakes[id]
}

func (r *Round) AliveCount() int {
	n := 0
	for _, s := range r.snakes {
		if s.Alive() {
			n++
		}
	}
	return n
}

// Winner returns the sole survivor of a finished round.
func (r *Round) Winner() (*Snake, bool) {
	if r.status != Over {
		return nil, false
	}
	var winner *Snake
	for _, s := range r.snakes {
		if s.Alive() {
			if winner != nil {
				return nil, false
			}
			winner = s
		}
	}
	return winner, winner != nil
}
