// Package pathfind computes obstacle-avoiding shortest paths on a grid.
package pathfind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hoshinonyaruko/snake-arena/grid"
)

var ErrUnknownAlgorithm = errors.New("pathfind: unknown algorithm")

// Algorithm selects one of the search strategies.
type Algorithm int

const (
	UniformCost Algorithm = iota
	Heuristic
	BFS
)

// Func is the common signature of every strategy. It returns the cells from
// start to goal inclusive, or nil when goal cannot be reached.
type Func func(g *grid.Grid, start, goal grid.Cell, obstacles grid.Set) []grid.Cell

func Algorithms() []Algorithm { return []Algorithm{UniformCost, Heuristic, BFS} }

func (a Algorithm) String() string {
	switch a {
	case UniformCost:
		return "Dijkstra"
	case Heuristic:
		return "A*"
	case BFS:
		return "BFS"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

func (a Algorithm) Valid() bool { return a >= UniformCost && a <= BFS }

// Func returns the search function for a. Unknown values fall back to
// uniform-cost search.
func (a Algorithm) Func() Func {
	switch a {
	case Heuristic:
		return AStar
	case BFS:
		return BreadthFirst
	default:
		return Dijkstra
	}
}

func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return []byte(a.String()), nil
}

func (a *Algorithm) UnmarshalText(b []byte) error {
	parsed, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAlgorithm accepts the menu names and a few aliases, ignoring case.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dijkstra", "uniform", "uniformcost", "uniform-cost", "ucs":
		return UniformCost, nil
	case "a*", "astar", "a-star", "heuristic":
		return Heuristic, nil
	case "bfs", "breadth-first", "breadthfirst":
		return BFS, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}
