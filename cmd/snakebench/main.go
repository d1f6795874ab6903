package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/hoshinonyaruko/snake-arena/bench"
	"github.com/hoshinonyaruko/snake-arena/config"
)

func main() {
	var scenarios, out string
	var keepResults bool
	flag.StringVar(&scenarios, "scenarios", "bench.yaml", "scenario file")
	flag.StringVar(&out, "out", "bench.json", "summary file")
	flag.BoolVar(&keepResults, "results", false, "include every round in the summary")
	flag.Parse()

	list, err := config.LoadScenarios(scenarios)
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}

	summaries := make([]bench.Summary, 0, len(list))
	for _, sc := range list {
		sum, err := bench.Run(sc)
		if err != nil {
			log.Fatalf("%s: %v", sc.Name, err)
		}
		if !keepResults {
			sum.Results = nil
		}
		log.Printf("%s: %d rounds, wins %v, draws %d, timeouts %d, mean ticks %.1f",
			sum.Name, sum.Rounds, sum.Wins, sum.Draws, sum.Timeouts, sum.MeanTicks)
		summaries = append(summaries, sum)
	}

	b, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		log.Fatalf("encode summary: %v", err)
	}
	if err := os.WriteFile(out, b, 0644); err != nil {
		log.Fatalf("write %s: %v", out, err)
	}
	log.Printf("Batch done -> %s", out)
}
