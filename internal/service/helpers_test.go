package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"lol-denylist/internal/config"
	"lol-denylist/internal/database"
	"lol-denylist/internal/denylist"
	"lol-denylist/internal/identitycache"
	"lol-denylist/internal/repository"
	"lol-denylist/internal/riot"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeRiot stands in for the Riot API. Handlers serve canned data and count
// calls so tests can assert which resolution path was taken.
type fakeRiot struct {
	mu sync.Mutex

	accountCalls   int
	summonerCalls  int
	matchIDsCalls  int
	matchCalls     int
	spectatorCalls int

	lastAccountName string
	lastAccountTag  string

	matchIDs []string
	matches  map[string]string

	spectatorStatus int
	spectatorBody   string
}

func newFakeRiot(t *testing.T) (*riot.Client, *fakeRiot) {
	t.Helper()

	f := &fakeRiot{
		matches:         map[string]string{},
		spectatorStatus: http.StatusNotFound,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /riot/account/v1/accounts/by-riot-id/{name}/{tag}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.accountCalls++
		f.lastAccountName = r.PathValue("name")
		f.lastAccountTag = r.PathValue("tag")
		f.mu.Unlock()

		writeJSON(t, w, map[string]any{
			"puuid":    "puuid-" + r.PathValue("name"),
			"gameName": r.PathValue("name"),
			"tagLine":  r.PathValue("tag"),
		})
	})
	mux.HandleFunc("GET /lol/summoner/v4/summoners/by-puuid/{puuid}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.summonerCalls++
		f.mu.Unlock()

		writeJSON(t, w, map[string]any{
			"puuid":         r.PathValue("puuid"),
			"summonerLevel": 42,
		})
	})
	mux.HandleFunc("GET /lol/match/v5/matches/by-puuid/{puuid}/ids", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.matchIDsCalls++
		ids := f.matchIDs
		f.mu.Unlock()

		if ids == nil {
			ids = []string{}
		}
		writeJSON(t, w, ids)
	})
	mux.HandleFunc("GET /lol/match/v5/matches/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.matchCalls++
		body, ok := f.matches[r.PathValue("id")]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("GET /lol/spectator/v5/active-games/by-summoner/{puuid}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.spectatorCalls++
		status, body := f.spectatorStatus, f.spectatorBody
		f.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := riot.NewClientWithHosts("test-key", "na1", srv.URL, srv.URL)
	return client, f
}

func writeJSON(t *testing.T, w http.ResponseWriter, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func testCache(t *testing.T) *identitycache.Cache {
	t.Helper()
	return identitycache.New(filepath.Join(t.TempDir(), "cache.json"), zerolog.Nop())
}

func testDenylist(t *testing.T) *denylist.Store {
	t.Helper()
	s, err := denylist.Open(filepath.Join(t.TempDir(), "denylist.csv"), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func testMatchRepo(t *testing.T) *repository.MatchRepository {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "matches.db")}
	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewMatchRepository(db, zerolog.Nop())
}
