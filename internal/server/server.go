package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"lol-denylist/internal/config"
	"lol-denylist/internal/constants"
	"lol-denylist/internal/domain"
	"lol-denylist/internal/riot"
	"lol-denylist/internal/service"

	"github.com/rs/zerolog"
)

// Server is the JSON presentation surface over the denylist manager. It only
// invokes the core's public operations and renders their results; all policy
// (retries, messaging) stays with the caller of this API.
type Server struct {
	identities *service.IdentityService
	matches    *service.MatchService
	manager    *service.Manager
	riot       *riot.Client
	settings   *config.Settings
	cfg        *config.Config
	logger     zerolog.Logger
}

func New(
	identities *service.IdentityService,
	matches *service.MatchService,
	manager *service.Manager,
	riotClient *riot.Client,
	settings *config.Settings,
	cfg *config.Config,
	logger zerolog.Logger,
) *Server {
	return &Server{
		identities: identities,
		matches:    matches,
		manager:    manager,
		riot:       riotClient,
		settings:   settings,
		cfg:        cfg,
		logger:     logger,
	}
}

// Routes registers every endpoint on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/players/{name}/{tag}", s.handleResolve)
	mux.HandleFunc("GET /v1/players/{puuid}/matches", s.handleHistory)
	mux.HandleFunc("GET /v1/matches/{id}", s.handleMatchDetail)
	mux.HandleFunc("GET /v1/players/{puuid}/live-scan", s.handleLiveScan)

	mux.HandleFunc("GET /v1/denylist", s.handleDenylistList)
	mux.HandleFunc("POST /v1/denylist", s.handleDenylistAdd)
	mux.HandleFunc("DELETE /v1/denylist/{id}", s.handleDenylistRemove)
	mux.HandleFunc("GET /v1/denylist/{id}", s.handleDenylistCheck)
	mux.HandleFunc("GET /v1/denylist/export", s.handleExport)
	mux.HandleFunc("POST /v1/denylist/import", s.handleImport)

	mux.HandleFunc("GET /v1/ratelimit", s.handleRateLimit)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	tag := r.PathValue("tag")

	identity, err := s.identities.Resolve(r.Context(), name, tag)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Remember the last searched identity the way the desktop app does.
	saved := config.SavedSettings{
		APIKey:   s.cfg.RiotAPIKey,
		Region:   s.cfg.Region,
		Username: identity.Name,
		Tagline:  identity.Tag,
	}
	if err := s.settings.Save(saved); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to save settings")
	}

	s.writeJSON(w, http.StatusOK, identity)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	identity := &domain.PlayerIdentity{Puuid: r.PathValue("puuid")}
	limit := queryInt(r, "limit", constants.DefaultHistoryLimit)
	offset := queryInt(r, "offset", 0)

	if r.URL.Query().Get("detailed") == "true" {
		summaries, err := s.matches.HistoryDetailed(r.Context(), identity, limit, offset)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"matches": summaries})
		return
	}

	ids, err := s.matches.History(r.Context(), identity, limit, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"match_ids": ids})
}

func (s *Server) handleMatchDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.matches.Detail(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleLiveScan(w http.ResponseWriter, r *http.Request) {
	identity := &domain.PlayerIdentity{Puuid: r.PathValue("puuid")}

	flagged, err := s.manager.ScanLiveMatch(r.Context(), identity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"flagged": flagged})
}

func (s *Server) handleDenylistList(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"entries": s.manager.List()})
}

type addRequest struct {
	StableID    string `json:"stable_id"`
	DisplayName string `json:"display_name"`
	Tag         string `json:"tag"`
	Reason      string `json:"reason"`
}

func (s *Server) handleDenylistAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &domain.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	if err := s.manager.Add(req.StableID, req.DisplayName, req.Tag, req.Reason); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"added": req.StableID})
}

func (s *Server) handleDenylistRemove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.manager.Remove(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"removed": id})
}

func (s *Server) handleDenylistCheck(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.writeJSON(w, http.StatusOK, map[string]any{
		"stable_id":  id,
		"denylisted": s.manager.IsDenylisted(id),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="denylist.csv"`)
	if err := s.manager.Export(w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("export failed")
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	report, err := s.manager.Import(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.riot.RateLimit())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var validationErr *domain.ValidationError
	var upstreamErr *domain.UpstreamError
	var persistenceErr *domain.PersistenceError

	switch {
	case errors.Is(err, domain.ErrAlreadyDenylisted):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNotDenylisted):
		status = http.StatusNotFound
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &upstreamErr):
		status = http.StatusBadGateway
	case errors.As(err, &persistenceErr):
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
