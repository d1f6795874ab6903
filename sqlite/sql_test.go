package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hoshinonyaruko/snake-arena/pathfind"
	"github.com/hoshinonyaruko/snake-arena/snake"
)

func TestSaveAndRestoreRound(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg := snake.Config{
		GridSize:      20,
		Algorithms:    []pathfind.Algorithm{pathfind.UniformCost, pathfind.Heuristic, pathfind.BFS},
		InitialLength: 3,
		Seed:          17,
	}
	round, err := snake.NewRound(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 40; i++ {
		round.Tick()
	}

	rec := Record{RoomID: "room-1", RoundID: "r-1", Paused: true, Config: round.Config(), State: round.State()}
	if err := SaveRound(ctx, db, rec); err != nil {
		t.Fatal(err)
	}

	got, err := LoadRound(ctx, db, "room-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.RoundID != "r-1" || !got.Paused {
		t.Errorf("Unexpected header %+v", got)
	}
	if !reflect.DeepEqual(got.State, rec.State) {
		t.Errorf("State mismatch:\n got %+v\nwant %+v", got.State, rec.State)
	}

	restored, err := got.Restore()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(restored.State(), round.State()) {
		t.Errorf("Restored round differs from saved round")
	}
}

func TestSaveReplacesPreviousState(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	four, _ := snake.NewRound(snake.Config{GridSize: 20, Algorithms: []pathfind.Algorithm{0, 1, 2, 0}, InitialLength: 3, Seed: 1})
	two, _ := snake.NewRound(snake.Config{GridSize: 12, Algorithms: []pathfind.Algorithm{2, 2}, InitialLength: 2, Seed: 2})

	for _, r := range []*snake.Round{four, two} {
		if err := SaveRound(ctx, db, Record{RoomID: "lobby", Config: r.Config(), State: r.State()}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := LoadRound(ctx, db, "lobby")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.State.Snakes) != 2 || got.Config.GridSize != 12 {
		t.Errorf("Expected the second save to win, got %d snakes on %d", len(got.State.Snakes), got.Config.GridSize)
	}

	ids, err := RoomIDs(ctx, db)
	if err != nil || len(ids) != 1 || ids[0] != "lobby" {
		t.Errorf("Expected one room, got %v %v", ids, err)
	}
}

func TestDeleteRound(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	r, _ := snake.NewRound(snake.Config{GridSize: 10, Algorithms: []pathfind.Algorithm{1}, InitialLength: 3, Seed: 3})
	if err := SaveRound(ctx, db, Record{RoomID: "gone", Config: r.Config(), State: r.State()}); err != nil {
		t.Fatal(err)
	}
	if err := DeleteRound(ctx, db, "gone"); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRound(ctx, db, "gone"); !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("Expected ErrRoundNotFound, got %v", err)
	}
}
