package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hoshinonyaruko/snake-arena/pathfind"
	"github.com/hoshinonyaruko/snake-arena/snake"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "38870" || cfg.InitialLength != 3 {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config file to be written: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.GridSizes["Large"] != 40 {
		t.Errorf("Expected Large=40 after reload, got %v", again.GridSizes)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"port":"9000","gridsize":"Small","algorithms":["BFS","A*"]}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9000" || cfg.FPS != 15 {
		t.Errorf("Expected port override with default fps, got %s %d", cfg.Port, cfg.FPS)
	}
	rc, err := cfg.RoundConfig(Overrides{Seed: 4})
	if err != nil {
		t.Fatal(err)
	}
	if rc.GridSize != 20 || len(rc.Algorithms) != 2 || rc.Algorithms[0] != pathfind.BFS || rc.Seed != 4 {
		t.Errorf("Unexpected round config %+v", rc)
	}
}

func TestLoadRejectsBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"port":`), 0644)
	if _, err := Load(path); err == nil {
		t.Errorf("Expected decode error")
	}
}

func TestRoundConfigOverrides(t *testing.T) {
	cfg := Default()
	rc, err := cfg.RoundConfig(Overrides{GridSize: "25", Algorithms: "bfs, astar,dijkstra", InitialLength: 4, Seed: 8})
	if err != nil {
		t.Fatal(err)
	}
	want := []pathfind.Algorithm{pathfind.BFS, pathfind.Heuristic, pathfind.UniformCost}
	if rc.GridSize != 25 || rc.InitialLength != 4 || len(rc.Algorithms) != 3 {
		t.Fatalf("Unexpected round config %+v", rc)
	}
	for i := range want {
		if rc.Algorithms[i] != want[i] {
			t.Errorf("algorithm %d: expected %v, got %v", i, want[i], rc.Algorithms[i])
		}
	}
	if rc.Seed == 0 {
		t.Errorf("Expected a non-zero seed")
	}
}

func TestRoundConfigErrors(t *testing.T) {
	cfg := Default()
	for _, o := range []Overrides{
		{GridSize: "Huge"},
		{Algorithms: "Dijkstra,greedy"},
		{GridSize: "4"},
		{Algorithms: "BFS,BFS,BFS,BFS,BFS"},
	} {
		if _, err := cfg.RoundConfig(o); !errors.Is(err, snake.ErrInvalidConfig) {
			t.Errorf("%+v: expected ErrInvalidConfig, got %v", o, err)
		}
	}
}

func TestGridSizeNameIgnoresCase(t *testing.T) {
	n, err := Default().ResolveGridSize("large")
	if err != nil || n != 40 {
		t.Errorf("Expected 40, got %d %v", n, err)
	}
}

func TestLoadScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	data := `
scenarios:
  - name: duel
    gridsize: 20
    algorithms: [Dijkstra, BFS]
    rounds: 10
    seed: 3
    maxticks: 500
  - gridsize: 30
    algorithms: [A*, A*, BFS, Dijkstra]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadScenarios(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 scenarios, got %d", len(got))
	}
	if got[0].Name != "duel" || got[0].Rounds != 10 || got[0].MaxTicks != 500 || got[0].InitialLength != 3 {
		t.Errorf("Unexpected first scenario %+v", got[0])
	}
	if got[1].Name != "scenario-2" || got[1].Rounds != 1 || got[1].Workers != 4 || len(got[1].Algorithms) != 4 {
		t.Errorf("Unexpected defaults %+v", got[1])
	}
}

func TestColorCycles(t *testing.T) {
	cfg := Default()
	if cfg.Color(5) != cfg.Palette[1] {
		t.Errorf("Expected palette to cycle")
	}
}

func TestTickInterval(t *testing.T) {
	cfg := Default()
	if got := cfg.TickInterval(); got != time.Second/15 {
		t.Errorf("Expected 1/15s, got %v", got)
	}
	cfg.FPS = 0
	if got := cfg.TickInterval(); got != 0 {
		t.Errorf("Expected ticker disabled, got %v", got)
	}
}
