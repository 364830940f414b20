package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// ApplyEnv loads envFile (when it exists) into the process environment and
// overlays recognised variables onto cfg. Variables already set in the
// environment win over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading env file: %w", err)
		}
	}

	overlay := []struct {
		key string
		dst *string
	}{
		{"STRAVA_CLIENT_ID", &cfg.Strava.ClientID},
		{"STRAVA_CLIENT_SECRET", &cfg.Strava.ClientSecret},
		{"STRAVA_ACCESS_TOKEN", &cfg.Strava.AccessToken},
		{"STRAVA_REFRESH_TOKEN", &cfg.Strava.RefreshToken},
		{"GRASS_SHARE_WEBHOOK", &cfg.Share.WebhookURL},
		{"GRASS_THEME", &cfg.Display.Theme},
	}
	for _, o := range overlay {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.dst = v
		}
	}

	return nil
}
