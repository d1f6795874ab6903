package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-arena/pathfind"
	"github.com/hoshinonyaruko/snake-arena/snake"
)

// RGB is a palette entry.
type RGB [3]uint8

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath      string         `json:"selfpath"`
	Port          string         `json:"port"`
	Blocksize     int            `json:"blocksize"`
	GridSize      string         `json:"gridsize"`
	GridSizes     map[string]int `json:"gridsizes"`
	InitialLength int            `json:"initiallength"`
	Algorithms    []string       `json:"algorithms"` // one per snake
	FPS           int            `json:"fps"`        // 0 disables the room ticker
	Seed          int64          `json:"seed"`       // 0 picks a seed from the clock
	DBPath        string         `json:"dbpath"`
	SkinsDir      string         `json:"skinsdir"`
	StaticDir     string         `json:"staticdir"`
	Palette       []RGB          `json:"palette"`
	FoodColor     RGB            `json:"foodcolor"`
	GridColor     RGB            `json:"gridcolor"`
	Background    RGB            `json:"background"`
}

var (
	instance *AppConfig
	once     sync.Once
)

// Default returns the settings used when no config file exists.
func Default() *AppConfig {
	return &AppConfig{
		SelfPath:      "www.example.com",
		Port:          "38870",
		Blocksize:     15,
		GridSize:      "Medium",
		GridSizes:     map[string]int{"Small": 20, "Medium": 30, "Large": 40},
		InitialLength: 3,
		Algorithms:    []string{"Dijkstra", "A*", "Dijkstra", "A*"},
		FPS:           15,
		DBPath:        "game.db",
		SkinsDir:      "./skins",
		StaticDir:     "./static",
		Palette:       []RGB{{255, 0, 0}, {255, 255, 0}, {255, 255, 255}, {255, 105, 180}},
		FoodColor:     RGB{255, 255, 255},
		GridColor:     RGB{100, 100, 100},
		Background:    RGB{0, 0, 0},
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) (*AppConfig, error) {
	var err error
	once.Do(func() {
		instance, err = Load(filePath)
	})
	return instance, err
}

// Get returns the loaded instance, or the defaults before LoadConfig ran.
func Get() *AppConfig {
	if instance == nil {
		return Default()
	}
	return instance
}

// Load reads filePath over the defaults, creating the file when it does not exist.
func Load(filePath string) (*AppConfig, error) {
	cfg := Default()
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return cfg, saveConfig(filePath, cfg)
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", filePath, err)
	}
	return cfg, nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// TickInterval is the ticker period for live rooms. Zero means rooms only
// advance on request.
func (c *AppConfig) TickInterval() time.Duration {
	if c.FPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.FPS)
}

// Overrides are per-request replacements for the configured round settings.
// Empty fields keep the configured value.
type Overrides struct {
	GridSize      string
	Algorithms    string // comma separated
	InitialLength int
	Seed          int64
}

// ResolveGridSize accepts a size name ("Small") or a plain number.
func (c *AppConfig) ResolveGridSize(name string) (int, error) {
	if n, ok := c.GridSizes[name]; ok {
		return n, nil
	}
	for k, n := range c.GridSizes {
		if strings.EqualFold(k, name) {
			return n, nil
		}
	}
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0, fmt.Errorf("%w: unknown grid size %q", snake.ErrInvalidConfig, name)
	}
	return n, nil
}

// RoundConfig turns the application settings into a core round config.
func (c *AppConfig) RoundConfig(o Overrides) (snake.Config, error) {
	sizeName := c.GridSize
	if o.GridSize != "" {
		sizeName = o.GridSize
	}
	size, err := c.ResolveGridSize(sizeName)
	if err != nil {
		return snake.Config{}, err
	}

	names := c.Algorithms
	if o.Algorithms != "" {
		names = strings.Split(o.Algorithms, ",")
	}
	algs, err := ParseAlgorithms(names)
	if err != nil {
		return snake.Config{}, err
	}

	length := c.InitialLength
	if o.InitialLength != 0 {
		length = o.InitialLength
	}
	seed := c.Seed
	if o.Seed != 0 {
		seed = o.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := snake.Config{GridSize: size, Algorithms: algs, InitialLength: length, Seed: seed}
	return cfg, cfg.Validate()
}

func ParseAlgorithms(names []string) ([]pathfind.Algorithm, error) {
	algs := make([]pathfind.Algorithm, 0, len(names))
	for _, name := range names {
		alg, err := pathfind.ParseAlgorithm(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", snake.ErrInvalidConfig, err)
		}
		algs = append(algs, alg)
	}
	return algs, nil
}

// Color returns the palette entry for a snake id, cycling when the palette is short.
func (c *AppConfig) Color(id int) RGB {
	if len(c.Palette) == 0 {
		return RGB{255, 255, 255}
	}
	return c.Palette[id%len(c.Palette)]
}
