package config

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: Europe/Berlin\nwindowed: true\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.True(t, cfg.Windowed)
	assert.Equal(t, defaultDatabase, cfg.Database)
	assert.Equal(t, defaultAgendaRefresh, cfg.AgendaRefresh)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: Europe/Berlin\ndatabase: a.db\n"), 0o600))

	t.Setenv("LOCALCALENDAR_TIMEZONE", "Asia/Tokyo")
	t.Setenv("LOCALCALENDAR_SEED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.True(t, cfg.Seed)
	assert.Equal(t, "a.db", cfg.Database)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: [\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Location(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Mars/Olympus"

	_, err := cfg.Location()
	assert.Error(t, err)
}
