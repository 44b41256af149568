package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PHONEBOOK_CONFIG_DIR", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "localhost:50051", cfg.Address)
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PHONEBOOK_CONFIG_DIR", dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
address: phonebook.internal:6000
timeout: 750ms
log:
  file: /tmp/phonebook.log
tui:
  profile: mono
`), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "phonebook.internal:6000", cfg.Address)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "/tmp/phonebook.log", cfg.Log.File)
	assert.Empty(t, cfg.Log.Level, "unset keys keep defaults")
	assert.Equal(t, "mono", cfg.TUI.Profile)

	t.Setenv("PHONEBOOK_ADDR", "127.0.0.1:50052")
	t.Setenv("PHONEBOOK_TIMEOUT", "2s")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:50052", cfg.Address)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoad_BadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("address: [unterminated"), 0o600))
	_, err := Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("address: ok:1\n"), 0o600))
	for _, v := range []string{"soon", "0s", "-1s"} {
		t.Setenv("PHONEBOOK_TIMEOUT", v)
		_, err = Load(path)
		require.Error(t, err, "PHONEBOOK_TIMEOUT=%s", v)
	}
}

func TestSave_RoundTripKeepsBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	first := Default()
	first.Address = "first:1"
	require.NoError(t, Save(path, first))

	second := Default()
	second.Address = "second:2"
	second.Metrics.Listen = "127.0.0.1:9100"
	require.NoError(t, Save(path, second))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "second:2", got.Address)
	assert.Equal(t, "127.0.0.1:9100", got.Metrics.Listen)

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(bak), "first:1")
}
