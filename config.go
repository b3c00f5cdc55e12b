package torus

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents a torus.toml configuration file.
type FileConfig struct {
	Engine struct {
		Lines         int `toml:"lines"`
		TextLimit     int `toml:"text-limit"`
		BytecodeLimit int `toml:"bytecode-limit"`
		Stack         int `toml:"stack"`
		Population    int `toml:"population"`
	} `toml:"engine"`

	Breeder struct {
		Interval string `toml:"interval"`
	} `toml:"breeder"`
}

// LoadConfig will parse a torus.toml file. Missing values stay zero and fall
// back to the component defaults at construction.
func LoadConfig(path string) (*FileConfig, error) {
	// read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("torus: cannot read %s: %w", path, err)
	}

	// parse file
	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("torus: parse error in %s: %w", path, err)
	}

	return &fc, nil
}

// EngineConfig will convert the file configuration to an engine
// configuration.
func (fc *FileConfig) EngineConfig() Config {
	return Config{
		Lines:         fc.Engine.Lines,
		TextLimit:     fc.Engine.TextLimit,
		BytecodeLimit: fc.Engine.BytecodeLimit,
		Stack:         fc.Engine.Stack,
		Population:    fc.Engine.Population,
	}
}

// BreederInterval will return the configured breeding interval or one second
// if none is configured.
func (fc *FileConfig) BreederInterval() (time.Duration, error) {
	// fall back to default
	if fc.Breeder.Interval == "" {
		return time.Second, nil
	}

	// parse duration
	interval, err := time.ParseDuration(fc.Breeder.Interval)
	if err != nil {
		return 0, fmt.Errorf("torus: invalid breeder interval: %w", err)
	}

	return interval, nil
}
