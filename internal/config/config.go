package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	RiotAPIKey string
	Region     string

	DenylistPath   string
	PuuidCachePath string
	DBPath         string
	SettingsPath   string

	ServerPort string

	// WatchName/WatchTag enable the background live-scan watcher when set.
	WatchName string
	WatchTag  string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:     getEnv("RIOT_API_KEY", ""),
		Region:         getEnv("REGION", "na1"),
		DenylistPath:   getEnv("DENYLIST_PATH", "denylist.csv"),
		PuuidCachePath: getEnv("PUUID_CACHE_PATH", "puuid_cache.json"),
		DBPath:         getEnv("DB_PATH", "matches.db"),
		SettingsPath:   getEnv("SETTINGS_PATH", "config.json"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		WatchName:      getEnv("WATCH_NAME", ""),
		WatchTag:       getEnv("WATCH_TAG", ""),
	}

	if cfg.RiotAPIKey == "" {
		// Fall back to the key stored by a previous session, the way the
		// desktop app remembers it.
		if saved, err := NewSettings(cfg.SettingsPath).Load(); err == nil && saved.APIKey != "" {
			cfg.RiotAPIKey = saved.APIKey
			if saved.Region != "" {
				cfg.Region = saved.Region
			}
			logger.Info().Str("path", cfg.SettingsPath).Msg("riot api key loaded from saved settings")
		}
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	logger.Info().
		Str("region", cfg.Region).
		Str("denylist_path", cfg.DenylistPath).
		Str("puuid_cache_path", cfg.PuuidCachePath).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
