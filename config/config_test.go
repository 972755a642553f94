package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesStorageBudget(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1<<16, cfg.Storage.Slots)
	assert.Equal(t, 4, cfg.Storage.D)
	assert.Equal(t, 8, cfg.Storage.MaxHops)
	assert.Equal(t, 250, cfg.Storage.KeyMax)
	assert.Equal(t, 1024, cfg.Storage.ValMax)
}

func TestLoadWithNoFileOrFlagsReturnsDefaults(t *testing.T) {
	// Empty configPath makes viper search "." for slimcache.yaml, which
	// is absent in the test working directory, so ReadInConfig reports
	// ConfigFileNotFoundError and Load falls back to Default().
	cfg, err := Load("", nil)
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slimcache.yaml")
	want := Default()
	want.Server.ListenAddr = "0.0.0.0:12345"
	want.Storage.D = 8

	require.NoError(t, Save(want, path))

	got, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
