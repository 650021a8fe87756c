package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lokenilsson/snwk-stats/internal/portal"
)

// Config holds the pipeline settings
type Config struct {
	DataDir      string
	Years        []int
	Types        []string
	RequestDelay time.Duration
	SubpageDelay time.Duration
}

// fileConfig is the YAML shape of a config file; delays are duration
// strings like "2s" or "500ms"
type fileConfig struct {
	DataDir      string   `yaml:"data_dir"`
	Years        []int    `yaml:"years"`
	Types        []string `yaml:"types"`
	RequestDelay string   `yaml:"request_delay"`
	SubpageDelay string   `yaml:"subpage_delay"`
}

// DefaultConfig returns the portal's standard settings
func DefaultConfig() Config {
	return Config{
		DataDir:      "data",
		Years:        portal.Years,
		Types:        portal.CompetitionTypes,
		RequestDelay: portal.RequestDelay,
		SubpageDelay: portal.SubpageDelay,
	}
}

// LoadConfig reads a YAML config file over the defaults. Fields absent from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if len(fc.Years) > 0 {
		cfg.Years = fc.Years
	}
	if len(fc.Types) > 0 {
		cfg.Types = fc.Types
	}
	if fc.RequestDelay != "" {
		d, err := time.ParseDuration(fc.RequestDelay)
		if err != nil {
			return cfg, fmt.Errorf("parsing request_delay: %w", err)
		}
		cfg.RequestDelay = d
	}
	if fc.SubpageDelay != "" {
		d, err := time.ParseDuration(fc.SubpageDelay)
		if err != nil {
			return cfg, fmt.Errorf("parsing subpage_delay: %w", err)
		}
		cfg.SubpageDelay = d
	}

	if cfg.RequestDelay < 0 || cfg.SubpageDelay < 0 {
		return cfg, fmt.Errorf("delays must not be negative")
	}
	return cfg, nil
}
