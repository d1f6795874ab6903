// Package bench plays many headless rounds and compares how each algorithm fares.
package bench

import (
	"fmt"
	"sync"

	"github.com/hoshinonyaruko/snake-arena/config"
	"github.com/hoshinonyaruko/snake-arena/snake"
)

// DefaultMaxTicks caps rounds whose scenario sets no limit.
const DefaultMaxTicks = 10000

// Result is the outcome of one round.
type Result struct {
	Seed    int64 `json:"seed"`
	Ticks   int   `json:"ticks"`
	Winner  int   `json:"winner"` // -1 when nobody survived or the cap was hit
	Timeout bool  `json:"timeout"`
	Scores  []int `json:"scores"`
}

type Summary struct {
	Name      string             `json:"name"`
	Rounds    int                `json:"rounds"`
	Draws     int                `json:"draws"`
	Timeouts  int                `json:"timeouts"`
	Wins      map[string]int     `json:"wins"`
	MeanScore map[string]float64 `json:"mean_score"`
	MeanTicks float64            `json:"mean_ticks"`
	Results   []Result           `json:"results,omitempty"`
}

// Run plays sc.Rounds rounds on sc.Workers goroutines. Round i uses
// RoundSeed(sc.Seed, i), so the summary does not depend on the worker count.
func Run(sc config.Scenario) (Summary, error) {
	algs, err := config.ParseAlgorithms(sc.Algorithms)
	if err != nil {
		return Summary{}, err
	}
	base := snake.Config{GridSize: sc.GridSize, Algorithms: algs, InitialLength: sc.InitialLength}
	if err := base.Validate(); err != nil {
		return Summary{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	if sc.Seed < 0 {
		return Summary{}, fmt.Errorf("scenario %s: %w: negative seed %d", sc.Name, snake.ErrInvalidConfig, sc.Seed)
	}
	if sc.Rounds < 1 {
		return Summary{}, fmt.Errorf("scenario %s: %w: %d rounds", sc.Name, snake.ErrInvalidConfig, sc.Rounds)
	}
	maxTicks := sc.MaxTicks
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	workers := sc.Workers
	if workers <= 0 {
		workers = 1
	}

	results := make([]Result, sc.Rounds)
	errs := make([]error, sc.Rounds)
	jobs := make(chan int, sc.Rounds)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				cfg := base
				cfg.Seed = RoundSeed(sc.Seed, i)
				results[i], errs[i] = play(cfg, maxTicks)
			}
		}()
	}
	for i := 0; i < sc.Rounds; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Summary{}, err
		}
	}
	return summarize(sc.Name, base, results), nil
}

// RoundSeed is the seed of round i. It never yields 0, which the core would
// map to 1 and so replay the next round.
func RoundSeed(base int64, i int) int64 {
	return base + int64(i) + 1
}

func play(cfg snake.Config, maxTicks int) (Result, error) {
	round, err := snake.NewRound(cfg)
	if err != nil {
		return Result{}, err
	}
	for round.Status() == snake.Continuing && round.Ticks() < maxTicks {
		round.Tick()
	}

	res := Result{Seed: cfg.Seed, Ticks: round.Ticks(), Winner: -1}
	for _, s := range round.Snakes() {
		res.Scores = append(res.Scores, s.Score())
	}
	if round.Status() == snake.Continuing {
		res.Timeout = true
	} else if w, ok := round.Winner(); ok {
		res.Winner = w.ID
	}
	return res, nil
}

func summarize(name string, cfg snake.Config, results []Result) Summary {
	sum := Summary{
		Name:      name,
		Rounds:    len(results),
		Wins:      make(map[string]int),
		MeanScore: make(map[string]float64),
		Results:   results,
	}
	for _, alg := range cfg.Algorithms {
		sum.Wins[alg.String()] = 0
	}

	// 同一算法可能被多条蛇使用，按蛇的数量取平均
	snakesPerAlg := make(map[string]int)
	totalTicks := 0
	for _, res := range results {
		totalTicks += res.Ticks
		switch {
		case res.Timeout:
			sum.Timeouts++
		case res.Winner < 0:
			sum.Draws++
		default:
			sum.Wins[cfg.Algorithms[res.Winner].String()]++
		}
		for id, score := range res.Scores {
			alg := cfg.Algorithms[id].String()
			sum.MeanScore[alg] += float64(score)
			snakesPerAlg[alg]++
		}
	}
	for alg, n := range snakesPerAlg {
		sum.MeanScore[alg] /= float64(n)
	}
	if len(results) > 0 {
		sum.MeanTicks = float64(totalTicks) / float64(len(results))
	}
	return sum
}
