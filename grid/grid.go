// Package grid holds the board the snakes move on.
package grid

import (
	"errors"
	"fmt"
)

// ErrGridTooSmall is returned when a board has no open interior.
var ErrGridTooSmall = errors.New("grid: size must be at least 3")

// Cell is a board coordinate, 0-indexed.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoCell lies outside every board.
var NoCell = Cell{X: -1, Y: -1}

func (c Cell) Add(d Cell) Cell { return Cell{X: c.X + d.X, Y: c.Y + d.Y} }
func (c Cell) Sub(d Cell) Cell { return Cell{X: c.X - d.X, Y: c.Y - d.Y} }

// Manhattan returns the 4-neighbourhood distance between c and d.
func (c Cell) Manhattan(d Cell) int {
	return abs(c.X-d.X) + abs(c.Y-d.Y)
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Directions are the only unit vectors a snake may face.
var Directions = [4]Cell{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}}

// NeighborOrder is the fixed expansion order used by searches.
var NeighborOrder = [4]Cell{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}

// Grid is a square board whose outer ring is wall. It never changes after New.
type Grid struct {
	size  int
	walls []bool
}

func New(size int) (*Grid, error) {
	if size < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrGridTooSmall, size)
	}
	g := &Grid{size: size, walls: make([]bool, size*size)}
	for i := 0; i < size; i++ {
		g.walls[g.Index(Cell{X: i, Y: 0})] = true
		g.walls[g.Index(Cell{X: i, Y: size - 1})] = true
		g.walls[g.Index(Cell{X: 0, Y: i})] = true
		g.walls[g.Index(Cell{X: size - 1, Y: i})] = true
	}
	return g, nil
}

func (g *Grid) Size() int { return g.size }
func (g *Grid) Area() int { return g.size * g.size }

func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size
}

// IsWall reports false for cells outside the board.
func (g *Grid) IsWall(c Cell) bool {
	return g.InBounds(c) && g.walls[g.Index(c)]
}

// Open reports whether c is on the board and not a wall.
func (g *Grid) Open(c Cell) bool {
	return g.InBounds(c) && !g.walls[g.Index(c)]
}

// Passable reports whether a snake may step onto c given the obstacle set.
func (g *Grid) Passable(c Cell, obstacles Set) bool {
	return g.Open(c) && !obstacles.Has(c)
}

// Index flattens an in-bounds cell for slices of length Area.
func (g *Grid) Index(c Cell) int { return c.Y*g.size + c.X }

func (g *Grid) CellAt(i int) Cell { return Cell{X: i % g.size, Y: i / g.size} }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
