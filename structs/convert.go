package structs

import (
	"github.com/hoshinonyaruko/snake-arena/grid"
	"github.com/hoshinonyaruko/snake-arena/snake"
)

func FromCell(c grid.Cell) Position { return Position{X: c.X, Y: c.Y} }

func (p Position) Cell() grid.Cell { return grid.Cell{X: p.X, Y: p.Y} }

func FromCells(cells []grid.Cell) []Position {
	out := make([]Position, len(cells))
	for i, c := range cells {
		out[i] = FromCell(c)
	}
	return out
}

func ToCells(ps []Position) []grid.Cell {
	out := make([]grid.Cell, len(ps))
	for i, p := range ps {
		out[i] = p.Cell()
	}
	return out
}

// FromRound builds the view a presentation layer consumes.
func FromRound(roomID, roundID string, r *snake.Round, paused bool) Round {
	st := r.State()
	view := Round{
		RoomID:   roomID,
		RoundID:  roundID,
		GridSize: r.Grid().Size(),
		Food:     FromCell(st.Food),
		Snakes:   make([]Snake, len(st.Snakes)),
		Status:   st.Status.String(),
		Tick:     st.Ticks,
		Paused:   paused,
	}
	for i, s := range st.Snakes {
		view.Snakes[i] = FromSnakeState(s)
	}
	if w, ok := r.Winner(); ok {
		id := w.ID
		view.Winner = &id
	}
	return view
}

func FromSnakeState(s snake.SnakeState) Snake {
	return Snake{
		ID:        s.ID,
		Algorithm: s.Algorithm.String(),
		Positions: FromCells(s.Body),
		Direction: FromCell(s.Direction),
		Score:     s.Score,
		Alive:     s.Alive,
	}
}
