// Package config loads the optional mycounter.yaml or mycounter.toml file.
package config

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/a-h/templ"
	"gopkg.in/yaml.v3"

	"github.com/pthm/mycounter"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config represents the optional mycounter.yaml or mycounter.toml file.
type Config struct {
	Server   ServerConfig    `yaml:"server" toml:"server"`
	Log      LogConfig       `yaml:"log" toml:"log"`
	Counters []CounterConfig `yaml:"counters" toml:"counters"`
}

// ServerConfig contains HTTP host settings.
type ServerConfig struct {
	Addr      string `yaml:"addr,omitempty" toml:"addr"`
	Key       string `yaml:"key,omitempty" toml:"key"` // hex; random when empty
	Sensitive bool   `yaml:"sensitive,omitempty" toml:"sensitive"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level"`
	Pretty bool   `yaml:"pretty,omitempty" toml:"pretty"`
}

// CounterConfig describes one counter instance on the demo page and in the
// terminal host. Numbers are kept as attribute strings.
type CounterConfig struct {
	ID            string `yaml:"id,omitempty" toml:"id"`
	Value         string `yaml:"value,omitempty" toml:"value"`
	Min           string `yaml:"min,omitempty" toml:"min"`
	Max           string `yaml:"max,omitempty" toml:"max"`
	Height        string `yaml:"height,omitempty" toml:"height"`
	Header        string `yaml:"header,omitempty" toml:"header"`
	Help          string `yaml:"help,omitempty" toml:"help"`
	ObserveBounds bool   `yaml:"observe_bounds,omitempty" toml:"observe_bounds"`
}

// Default returns the configuration used when no file is present: one
// unbounded counter.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the file at path. The format is picked by extension (.yaml,
// .yml or .toml). An empty path or a missing file yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalid, ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if len(c.Counters) == 0 {
		c.Counters = []CounterConfig{{}}
	}
}

// Validate rejects a non-hex key and counters whose min is above their max.
func (c *Config) Validate() error {
	if _, err := c.KeyBytes(); err != nil {
		return err
	}
	for i, cc := range c.Counters {
		lo := mycounter.ParseNumericOr(cc.Min, math.Inf(-1))
		hi := mycounter.ParseNumericOr(cc.Max, math.Inf(1))
		if lo > hi {
			return fmt.Errorf("%w: counters[%d]: min %s is above max %s", ErrInvalid, i, cc.Min, cc.Max)
		}
	}
	return nil
}

// KeyBytes decodes the server key. It returns nil for an empty key.
func (c *Config) KeyBytes() ([]byte, error) {
	if c.Server.Key == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.Server.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: server.key: %v", ErrInvalid, err)
	}
	return key, nil
}

// Attributes returns the initial attribute set of the counter.
func (cc CounterConfig) Attributes() map[string]string {
	attrs := map[string]string{}
	set := func(name, v string) {
		if v = strings.TrimSpace(v); v != "" {
			attrs[name] = v
		}
	}
	set(mycounter.AttrID, cc.ID)
	set(mycounter.AttrValue, cc.Value)
	set(mycounter.AttrMinValue, cc.Min)
	set(mycounter.AttrMaxValue, cc.Max)
	return attrs
}

// Options returns the construction options for the counter's slots,
// height and bound observation.
func (cc CounterConfig) Options() []mycounter.Option {
	var opts []mycounter.Option
	if cc.Height != "" {
		opts = append(opts, mycounter.WithHeight(cc.Height))
	}
	if cc.Header != "" {
		opts = append(opts, mycounter.WithHeader(text("h1", cc.Header)))
	}
	if cc.Help != "" {
		opts = append(opts, mycounter.WithHelpText(text("p", cc.Help)))
	}
	if cc.ObserveBounds {
		opts = append(opts, mycounter.ObserveBounds())
	}
	return opts
}

func text(tag, s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<"+tag+">"+templ.EscapeString(s)+"</"+tag+">")
		return err
	})
}
