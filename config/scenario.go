package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one batch of headless rounds.
type Scenario struct {
	Name          string   `yaml:"name"`
	GridSize      int      `yaml:"gridsize"`
	InitialLength int      `yaml:"initiallength"`
	Algorithms    []string `yaml:"algorithms"`
	Rounds        int      `yaml:"rounds"`
	Seed          int64    `yaml:"seed"`
	Workers       int      `yaml:"workers"`
	MaxTicks      int      `yaml:"maxticks"` // 0 uses bench.DefaultMaxTicks
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

func LoadScenarios(path string) ([]Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f scenarioFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("scenarios %s: %w", path, err)
	}
	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if s.InitialLength == 0 {
			s.InitialLength = 3
		}
		if s.Rounds == 0 {
			s.Rounds = 1
		}
		if s.Workers <= 0 {
			s.Workers = 4
		}
	}
	return f.Scenarios, nil
}
