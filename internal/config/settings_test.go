package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsLoadMissingFileIsNotFatal(t *testing.T) {
	s := NewSettings(filepath.Join(t.TempDir(), "config.json"))

	saved, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, saved.APIKey)
	require.Equal(t, "na1", saved.Region)
}

func TestSettingsLoadMalformedFileIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	saved, err := NewSettings(path).Load()
	require.NoError(t, err)
	require.Empty(t, saved.APIKey)
	require.Equal(t, "na1", saved.Region)
}

func TestSettingsSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := NewSettings(path)

	want := SavedSettings{
		APIKey:   "RGAPI-test",
		Region:   "euw1",
		Username: "Caps",
		Tagline:  "EUW1",
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}
