package service

import (
	"context"
	"io"
	"time"

	"lol-denylist/internal/constants"
	"lol-denylist/internal/denylist"
	"lol-denylist/internal/domain"
	"lol-denylist/internal/riot"

	"github.com/rs/zerolog"
)

// Manager is the denylist orchestrator the presentation layer calls into. It
// is stateless per call and safe for concurrent use; the store serializes
// every mutation internally.
type Manager struct {
	store  *denylist.Store
	riot   *riot.Client
	logger zerolog.Logger
}

func NewManager(store *denylist.Store, riotClient *riot.Client, logger zerolog.Logger) *Manager {
	return &Manager{store: store, riot: riotClient, logger: logger}
}

// Add records a player on the denylist. ErrAlreadyDenylisted is an
// informational outcome, not a failure.
func (m *Manager) Add(puuid, name, tag, reason string) error {
	if puuid == "" {
		return &domain.ValidationError{Field: "stable_id", Reason: "must not be empty"}
	}
	return m.store.Add(domain.DenylistEntry{
		Puuid:   puuid,
		Name:    name,
		Tag:     tag,
		Reason:  reason,
		AddedAt: time.Now(),
	})
}

// Remove deletes a player from the denylist. ErrNotDenylisted is an
// informational outcome, not a failure.
func (m *Manager) Remove(puuid string) error {
	return m.store.Remove(puuid)
}

// IsDenylisted reports whether the stable id has an entry.
func (m *Manager) IsDenylisted(puuid string) bool {
	return m.store.Contains(puuid)
}

// List returns all entries in insertion order.
func (m *Manager) List() []domain.DenylistEntry {
	return m.store.List()
}

// Export writes the denylist as CSV.
func (m *Manager) Export(w io.Writer) error {
	return m.store.Export(w)
}

// Import merges a CSV export into the denylist, skipping existing ids.
func (m *Manager) Import(r io.Reader) (domain.ImportReport, error) {
	return m.store.Import(r)
}

// ScanLiveMatch checks the identity's current game for denylisted players.
// Not being in a game yields an empty result, never an error. Flagged
// players come back in upstream participant order with the live champion and
// display name joined onto the stored entry.
func (m *Manager) ScanLiveMatch(ctx context.Context, identity *domain.PlayerIdentity) ([]domain.FlaggedParticipant, error) {
	if identity == nil || identity.Puuid == "" {
		return nil, &domain.ValidationError{Field: "identity", Reason: "puuid must not be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	live, err := m.riot.ActiveGameByPuuid(ctx, identity.Puuid)
	if err != nil {
		return nil, err
	}
	if live == nil {
		m.logger.Debug().Str("puuid", identity.Puuid).Msg("not currently in a game")
		return []domain.FlaggedParticipant{}, nil
	}

	flagged := []domain.FlaggedParticipant{}
	for _, p := range live.Participants {
		if p.Puuid == "" {
			continue
		}
		entry, ok := m.store.Get(p.Puuid)
		if !ok {
			continue
		}
		flagged = append(flagged, domain.FlaggedParticipant{
			Puuid:    p.Puuid,
			Name:     p.Name,
			Tag:      entry.Tag,
			Champion: p.Champion,
			Reason:   entry.Reason,
			AddedAt:  entry.AddedAt,
		})
	}

	m.logger.Info().
		Str("puuid", identity.Puuid).
		Int64("game_id", live.GameID).
		Int("flagged", len(flagged)).
		Msg("live match scanned")
	return flagged, nil
}
