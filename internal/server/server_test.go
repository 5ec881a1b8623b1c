package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"lol-denylist/internal/config"
	"lol-denylist/internal/denylist"
	"lol-denylist/internal/riot"
	"lol-denylist/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// The denylist endpoints never touch the upstream service, so the client can
// point at a closed port.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	logger := zerolog.Nop()

	store, err := denylist.Open(filepath.Join(dir, "denylist.csv"), logger)
	require.NoError(t, err)

	client := riot.NewClientWithHosts("test-key", "na1", "http://127.0.0.1:0", "http://127.0.0.1:0")
	manager := service.NewManager(store, client, logger)

	cfg := &config.Config{RiotAPIKey: "test-key", Region: "na1"}
	settings := config.NewSettings(filepath.Join(dir, "config.json"))

	srv := New(nil, nil, manager, client, settings, cfg, logger)

	mux := http.NewServeMux()
	srv.Routes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestDenylistAddCheckRemoveFlow(t *testing.T) {
	ts := testServer(t)

	body := `{"stable_id":"puuid-1","display_name":"Griefer","tag":"NA1","reason":"afk"}`
	resp, err := http.Post(ts.URL+"/v1/denylist", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate add renders as a conflict, not a server error.
	resp, err = http.Post(ts.URL+"/v1/denylist", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/v1/denylist/puuid-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/v1/denylist/puuid-1", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Removing again is a not-found outcome.
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDenylistAddValidation(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/v1/denylist", "application/json", strings.NewReader(`{"stable_id":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/v1/denylist", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDenylistExportImport(t *testing.T) {
	ts := testServer(t)

	body := `{"stable_id":"puuid-1","display_name":"Griefer","tag":"NA1","reason":"afk"}`
	resp, err := http.Post(ts.URL+"/v1/denylist", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/v1/denylist/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	var csv strings.Builder
	_, err = io.Copy(&csv, resp.Body)
	require.NoError(t, err)
	require.Contains(t, csv.String(), "puuid-1")

	// Re-importing the export skips the existing entry.
	resp, err = http.Post(ts.URL+"/v1/denylist/import", "text/csv", strings.NewReader(csv.String()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	require.Equal(t, 0, report.Imported)
	require.Equal(t, 1, report.Skipped)
}
