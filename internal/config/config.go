package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/grass/config.yaml"

// Config holds all grass configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Display DisplayConfig `yaml:"display"`
	Share   ShareConfig   `yaml:"share"`
	Strava  StravaConfig  `yaml:"strava"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

type StorageConfig struct {
	Path       string `yaml:"path"`
	SQLiteFile string `yaml:"sqlite_file"`
}

type DisplayConfig struct {
	Theme    string `yaml:"theme"`
	Timezone string `yaml:"timezone"`
}

type ShareConfig struct {
	Target      string  `yaml:"target"`
	WebhookURL  string  `yaml:"webhook_url"`
	MaxBytes    int64   `yaml:"max_bytes"`
	DownloadDir string  `yaml:"download_dir"`
	Filename    string  `yaml:"filename"`
	Title       string  `yaml:"title"`
	Text        string  `yaml:"text"`
	Scale       float64 `yaml:"scale"`
	Renderer    string  `yaml:"renderer"`
	BrowserBin  string  `yaml:"browser_bin"`
	CrossOrigin bool    `yaml:"cross_origin"`
}

type StravaConfig struct {
	BaseURL      string `yaml:"base_url"`
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token"`
	PerPage      int    `yaml:"per_page"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Themes, share targets and renderers accepted by Validate.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	TargetNone    = "none"
	TargetWebhook = "webhook"
	TargetOpen    = "open"
	TargetCopy    = "clipboard"

	RendererCanvas  = "canvas"
	RendererBrowser = "browser"
)

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects enum values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Display.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid display.theme %q (use light or dark)", c.Display.Theme)
	}

	switch c.Share.Target {
	case TargetNone, TargetOpen, TargetCopy:
	case TargetWebhook:
		if c.Share.WebhookURL == "" {
			return fmt.Errorf("share.target webhook requires share.webhook_url")
		}
	default:
		return fmt.Errorf("invalid share.target %q (use none, webhook, open or clipboard)", c.Share.Target)
	}

	switch c.Share.Renderer {
	case RendererCanvas, RendererBrowser:
	default:
		return fmt.Errorf("invalid share.renderer %q (use canvas or browser)", c.Share.Renderer)
	}

	if c.Share.Scale <= 0 {
		return fmt.Errorf("share.scale must be positive, got %v", c.Share.Scale)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolves display.timezone. Empty or "Local" means the system zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Display.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display.timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}

// DBPath is the SQLite database file, with ~ expanded.
func (c *Config) DBPath() (string, error) {
	dir, err := ExpandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
