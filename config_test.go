package sco_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tidwall/sco"
)

func TestDefaultConfig(t *testing.T) {
	r := require.New(t)

	cfg := sco.DefaultConfig()
	r.Equal(sco.MinStackSize, cfg.MinStackSize)
	r.Equal("warn", cfg.LogLevel)
}

func TestLoadConfigFillsDefaults(t *testing.T) {
	r := require.New(t)

	cfg, err := sco.LoadConfig(strings.NewReader(`{}`))
	r.NoError(err)
	r.Equal(sco.DefaultConfig(), cfg)
}

func TestLoadConfigPartialOverride(t *testing.T) {
	r := require.New(t)

	cfg, err := sco.LoadConfig(strings.NewReader(`{"logLevel":"debug"}`))
	r.NoError(err)
	r.Equal("debug", cfg.LogLevel)
	r.Equal(sco.MinStackSize, cfg.MinStackSize)
}

func TestLoadConfigOverridesEverything(t *testing.T) {
	r := require.New(t)

	cfg, err := sco.LoadConfig(strings.NewReader(`{"minStackSize":32768,"logLevel":"error"}`))
	r.NoError(err)
	r.Equal(32768, cfg.MinStackSize)
	r.Equal("error", cfg.LogLevel)
}

func TestLoadConfigRejectsMalformedJSON(t *testing.T) {
	r := require.New(t)

	_, err := sco.LoadConfig(strings.NewReader(`{not json`))
	r.Error(err)
}

func TestLoadConfigFileMissing(t *testing.T) {
	r := require.New(t)

	_, err := sco.LoadConfigFile("/nonexistent/path/to/sco-config.json")
	r.Error(err)
}
