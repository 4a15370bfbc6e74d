package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFilesAbsent(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, Default().ChainID, cfg.ChainID)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("log_level: debug\nstorage:\n  driver: redis\n  dsn: redis://localhost:6379\n"), 0o644))

	cfg, err := Load(yamlPath, "")
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "redis", cfg.Storage.Driver)
	require.Equal(t, int64(137), cfg.ChainID)
}

func TestDefaultTimeoutStakeWei(t *testing.T) {
	cfg := Default()
	v, err := cfg.DefaultTimeoutStakeWei()
	require.NoError(t, err)
	require.Equal(t, "100000000000000000", v.String())
}
