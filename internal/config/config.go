// Package config implements session configuration (spec §9's recursion
// limit, cond-expand feature identifiers, port buffering mode): a YAML
// file under $XDG_CONFIG_HOME/lambdust/config.yaml, loaded with
// gopkg.in/yaml.v3 and located with github.com/adrg/xdg, the same
// load-or-create lifecycle as the teacher's app.LoadOrCreateConfig and
// config.RuleSet — generalized from a list of editor rules to a single
// session record.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxRecursionDepth is the default session recursion limit.
	// cmd/lambdust publishes it to Scheme code as the global
	// *max-recursion-depth*; the evaluator itself does not check the
	// Machine's frame depth against it, so non-tail recursion is not cut
	// off at this depth.
	DefaultMaxRecursionDepth = 10000

	// DefaultPortBufferSize is the default for Config.PortBufferSize.
	// internal/port's FilePort does not read it: its write accumulator
	// is an unsized strings.Builder.
	DefaultPortBufferSize = 4096
)

// Config is one session's configuration.
type Config struct {
	MaxRecursionDepth int      `yaml:"maxRecursionDepth"`
	Features          []string `yaml:"features"`
	PortBufferSize    int      `yaml:"portBufferSize"`
}

// DefaultConfig returns the configuration a fresh session starts with
// absent any config file (config.RuleSet's DefaultConfig analogue).
func DefaultConfig() Config {
	return Config{
		MaxRecursionDepth: DefaultMaxRecursionDepth,
		Features:          []string{"r7rs", "lambdust"},
		PortBufferSize:    DefaultPortBufferSize,
	}
}

// Apply overrides c's fields with any non-zero field set in overlay,
// mirroring config.Config.Apply's merge-in-place behavior.
func (c *Config) Apply(overlay Config) {
	if overlay.MaxRecursionDepth > 0 {
		c.MaxRecursionDepth = overlay.MaxRecursionDepth
	}
	if len(overlay.Features) > 0 {
		c.Features = overlay.Features
	}
	if overlay.PortBufferSize > 0 {
		c.PortBufferSize = overlay.PortBufferSize
	}
}

// Path returns the XDG-resolved path to the config file, creating any
// missing parent directories along the way (xdg.ConfigFile's contract).
func Path() (string, error) {
	return xdg.ConfigFile(filepath.Join("lambdust", "config.yaml"))
}

// LoadOrCreate loads the config file if present, or writes and returns
// DefaultConfig if it does not exist yet — the same branch structure as
// app.LoadOrCreateConfig, generalized from forceDefaultConfig to a plain
// useDefault flag since a REPL session has no -noconfig equivalent flag
// of its own (cmd/lambdust threads its own CLI flag into this).
func LoadOrCreate(useDefault bool) (Config, error) {
	if useDefault {
		return DefaultConfig(), nil
	}

	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := saveDefault(path); err != nil {
			return Config{}, fmt.Errorf("writing default config to %q: %w", path, err)
		}
		return DefaultConfig(), nil
	} else if err != nil {
		return Config{}, fmt.Errorf("loading config from %q: %w", path, err)
	}

	cfg := DefaultConfig()
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, fmt.Errorf("yaml.Unmarshal: %w", err)
	}
	cfg.Apply(overlay)
	return cfg, nil
}

func saveDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("yaml.Marshal: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
