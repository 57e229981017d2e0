// Package config loads the globals configuration from a YAML file with
// environment overrides.
//
// A file looks like:
//
//	variant: MZ
//	runtime: auto
//	save_dir: save
//	kv_path: ""
//	variables: [1, 5]
//	switches: '["3"]'
//	activity:
//	  enabled: true
//	  channel: globals
//
// Id lists accept a YAML sequence or the raw JSON string form used by plugin
// parameters. A malformed list is read as empty, never as an error.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	globals "github.com/goliatone/go-globals"
	"github.com/goliatone/go-globals/pkg/activity"
	"github.com/goliatone/go-globals/pkg/state"
)

// Config is the file and environment shape of the module settings.
type Config struct {
	Variant   string         `yaml:"variant" env:"GLOBALS_VARIANT"`
	Runtime   string         `yaml:"runtime" env:"GLOBALS_RUNTIME"`
	SaveDir   string         `yaml:"save_dir" env:"GLOBALS_SAVE_DIR"`
	KVPath    string         `yaml:"kv_path" env:"GLOBALS_KV_PATH"`
	Variables IDList         `yaml:"variables" env:"GLOBALS_VARIABLES"`
	Switches  IDList         `yaml:"switches" env:"GLOBALS_SWITCHES"`
	Activity  ActivityConfig `yaml:"activity" envPrefix:"GLOBALS_ACTIVITY_"`
}

// ActivityConfig toggles sync activity events.
type ActivityConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Channel string `yaml:"channel" env:"CHANNEL"`
}

// Load reads path (when not empty) and then applies environment overrides.
// A missing file is an error; an empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Parse(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Empty input leaves cfg untouched.
func Parse(raw []byte, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Environment converts the storage settings into a state.Environment ready
// for state.Detect. An empty variant is left for Detect to default.
func (c *Config) Environment() (state.Environment, error) {
	out := state.Environment{SaveDir: c.SaveDir, KVPath: c.KVPath}
	if strings.TrimSpace(c.Variant) != "" {
		variant, err := state.ParseVariant(c.Variant)
		if err != nil {
			return state.Environment{}, err
		}
		out.Variant = variant
	}
	runtime, err := state.ParseRuntime(c.Runtime)
	if err != nil {
		return state.Environment{}, err
	}
	out.Runtime = runtime
	return out, nil
}

// Registry builds the global registry from the configured id lists.
func (c *Config) Registry() *globals.Registry {
	return globals.NewRegistry(c.Variables, c.Switches)
}

// ActivityOptions maps the activity section onto activity.Config.
func (c *Config) ActivityOptions() activity.Config {
	return activity.Config{Enabled: c.Activity.Enabled, Channel: c.Activity.Channel}
}

// IDList is a list of positive cell ids.
type IDList []int

// UnmarshalYAML accepts a sequence (`[1, "5"]`) or a scalar holding the
// JSON string form (`'["1","5"]'`).
func (l *IDList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = globals.ParseIDs(node.Value)
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				*l = IDList{}
				return nil
			}
			items = append(items, item.Value)
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return err
		}
		*l = globals.ParseIDs(string(raw))
	default:
		*l = IDList{}
	}
	return nil
}

// UnmarshalText reads the JSON string form. Environment values use it.
func (l *IDList) UnmarshalText(text []byte) error {
	*l = globals.ParseIDs(string(text))
	return nil
}
