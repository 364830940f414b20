package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "~/.config/grass", cfg.Storage.Path)
	assert.Equal(t, "grass.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "light", cfg.Display.Theme)
	assert.Equal(t, "Local", cfg.Display.Timezone)
	assert.Equal(t, "none", cfg.Share.Target)
	assert.Equal(t, int64(8<<20), cfg.Share.MaxBytes)
	assert.Equal(t, "running-grass.png", cfg.Share.Filename)
	assert.Equal(t, 2.0, cfg.Share.Scale)
	assert.Equal(t, "canvas", cfg.Share.Renderer)
	assert.True(t, cfg.Share.CrossOrigin)
	assert.Equal(t, "https://www.strava.com/api/v3", cfg.Strava.BaseURL)
	assert.Equal(t, 100, cfg.Strava.PerPage)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8732, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
display:
  theme: "dark"
  timezone: "Asia/Seoul"
share:
  target: "webhook"
  webhook_url: "http://localhost:9000/share"
  scale: 3
server:
  port: 9999
logging:
  level: "debug"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "dark", cfg.Display.Theme)
	assert.Equal(t, "Asia/Seoul", cfg.Display.Timezone)
	assert.Equal(t, "webhook", cfg.Share.Target)
	assert.Equal(t, 3.0, cfg.Share.Scale)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Non-overridden values remain defaults
	assert.Equal(t, "running-grass.png", cfg.Share.Filename)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "~/.config/grass", cfg.Storage.Path)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	err := os.WriteFile(cfgPath, []byte(":::not valid yaml{{{"), 0644)
	require.NoError(t, err)

	_, err = Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load("/tmp/nonexistent_path_12345/config.yaml")
	assert.Error(t, err)
}

func TestValidateAcceptsEveryTarget(t *testing.T) {
	for _, target := range []string{TargetNone, TargetOpen, TargetCopy, TargetWebhook} {
		cfg := DefaultConfig()
		cfg.Share.Target = target
		cfg.Share.WebhookURL = "http://example.test/hook"
		assert.NoError(t, cfg.Validate(), target)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"theme":    func(c *Config) { c.Display.Theme = "sepia" },
		"target":   func(c *Config) { c.Share.Target = "carrier-pigeon" },
		"webhook":  func(c *Config) { c.Share.Target = TargetWebhook },
		"renderer": func(c *Config) { c.Share.Renderer = "vector" },
		"scale":    func(c *Config) { c.Share.Scale = 0 },
		"timezone": func(c *Config) { c.Display.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)

	// Should return defaults
	assert.Equal(t, "light", cfg.Display.Theme)
	assert.Equal(t, "none", cfg.Share.Target)

	// File should now exist on disk
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)

	// File should be valid YAML loadable again
	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Share.Filename, cfg2.Share.Filename)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
share:
  filename: "grass.png"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "grass.png", cfg.Share.Filename)
	// Other fields remain defaults
	assert.Equal(t, "canvas", cfg.Share.Renderer)
}

func TestDBPathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := DefaultConfig()
	path, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "grass", "grass.db"), path)
}

func TestApplyEnvOverlaysFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("STRAVA_ACCESS_TOKEN=from-file\nGRASS_THEME=dark\n"), 0644))

	t.Setenv("STRAVA_ACCESS_TOKEN", "")
	os.Unsetenv("STRAVA_ACCESS_TOKEN")
	t.Setenv("GRASS_SHARE_WEBHOOK", "http://example.test/hook")
	t.Setenv("GRASS_THEME", "")
	os.Unsetenv("GRASS_THEME")

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(cfg, envPath))

	assert.Equal(t, "from-file", cfg.Strava.AccessToken)
	assert.Equal(t, "dark", cfg.Display.Theme)
	assert.Equal(t, "http://example.test/hook", cfg.Share.WebhookURL)
}

func TestApplyEnvMissingFileIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, ApplyEnv(cfg, filepath.Join(t.TempDir(), "missing.env")))
}
