package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "~/.config/grass",
			SQLiteFile: "grass.db",
		},
		Display: DisplayConfig{
			Theme:    ThemeLight,
			Timezone: "Local",
		},
		Share: ShareConfig{
			Target:      TargetNone,
			WebhookURL:  "",
			MaxBytes:    8 << 20,
			DownloadDir: "~/Downloads",
			Filename:    "running-grass.png",
			Title:       "My running grass",
			Text:        "Sharing my Strava runs as a grass field!",
			Scale:       2,
			Renderer:    RendererCanvas,
			BrowserBin:  "",
			CrossOrigin: true,
		},
		Strava: StravaConfig{
			BaseURL:  "https://www.strava.com/api/v3",
			TokenURL: "https://www.strava.com/oauth/token",
			PerPage:  100,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8732,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}
