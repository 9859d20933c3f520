package sco

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
)

// Config carries the tunables an embedding application might want to
// override. Everything in it has a sensible zero-value default, so a
// zero Config behaves exactly like the package defaults.
type Config struct {
	// MinStackSize is carried for information only: Descriptor
	// validation always uses the package MinStackSize, whatever this
	// field holds. Zero means "use the package default."
	MinStackSize int `json:"minStackSize"`

	// LogLevel selects the slog level for scheduler lifecycle events:
	// "debug", "info", "warn", or "error". Empty means "warn".
	LogLevel string `json:"logLevel"`
}

// DefaultConfig returns the configuration sco uses when Apply is never
// called.
func DefaultConfig() Config {
	return Config{
		MinStackSize: MinStackSize,
		LogLevel:     "warn",
	}
}

// LoadConfig reads a JSON-encoded Config from r, filling in defaults for
// any field left unset.
//
// The reference corpus's only examples of a structured config format
// (pelletier/go-toml/v2 in meet-ai-echo-lang) live in a module with no
// go.mod and entirely commented-out source, so there is nothing buildable
// to ground a TOML dependency on; encoding/json is used instead. See
// DESIGN.md.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, err
	}
	if cfg.MinStackSize == 0 {
		cfg.MinStackSize = MinStackSize
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg, nil
}

// LoadConfigFile is a convenience wrapper around LoadConfig for a path on
// disk.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return LoadConfig(f)
}

// Apply installs cfg's logging level as the package-wide logger used by
// scheduler lifecycle events. MinStackSize is informational only in this
// port (see coroctx.MinStackSize); Apply does not enforce it globally,
// since Descriptor.StackSize is validated per-call against the package
// constant, not per-Config.
func (cfg Config) Apply() {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
