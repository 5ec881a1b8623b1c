package config

import (
	"encoding/json"
	"os"
)

// SavedSettings mirrors the config.json the UI layer reads back on startup:
// the API key, region, and the last identity the user searched for.
type SavedSettings struct {
	APIKey   string `json:"api_key"`
	Region   string `json:"region"`
	Username string `json:"username,omitempty"`
	Tagline  string `json:"tagline,omitempty"`
}

// Settings persists SavedSettings to a JSON file. A missing or unparsable
// file is treated as "no saved values", never as a fatal condition.
type Settings struct {
	path string
}

func NewSettings(path string) *Settings {
	return &Settings{path: path}
}

func (s *Settings) Load() (SavedSettings, error) {
	saved := SavedSettings{Region: "na1"}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return saved, nil
	}
	if err := json.Unmarshal(raw, &saved); err != nil {
		return SavedSettings{Region: "na1"}, nil
	}
	if saved.Region == "" {
		saved.Region = "na1"
	}
	return saved, nil
}

func (s *Settings) Save(saved SavedSettings) error {
	raw, err := json.MarshalIndent(saved, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
