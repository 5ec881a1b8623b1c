package service

import (
	"context"
	"time"

	"lol-denylist/internal/constants"
	"lol-denylist/internal/domain"

	"github.com/rs/zerolog"
)

// Watcher polls the live-match scan for one configured identity at a fixed
// interval. Each tick is an independent call with no carried state; stopping
// the watcher just stops issuing further ticks, it never aborts an in-flight
// call.
type Watcher struct {
	identities *IdentityService
	manager    *Manager
	name       string
	tag        string
	interval   time.Duration
	logger     zerolog.Logger

	identity *domain.PlayerIdentity
}

func NewWatcher(identities *IdentityService, manager *Manager, name, tag string, logger zerolog.Logger) *Watcher {
	return &Watcher{
		identities: identities,
		manager:    manager,
		name:       name,
		tag:        tag,
		interval:   constants.LiveScanInterval,
		logger:     logger,
	}
}

// Run polls until the context is canceled. The first scan fires immediately.
func (w *Watcher) Run(ctx context.Context) {
	w.logger.Info().
		Str("name", w.name).
		Str("tag", w.tag).
		Dur("interval", w.interval).
		Msg("live-scan watcher started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("live-scan watcher stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	if w.identity == nil {
		identity, err := w.identities.Resolve(ctx, w.name, w.tag)
		if err != nil {
			w.logger.Warn().Err(err).Str("name", w.name).Msg("watcher failed to resolve identity")
			return
		}
		w.identity = identity
	}

	flagged, err := w.manager.ScanLiveMatch(ctx, w.identity)
	if err != nil {
		w.logger.Warn().Err(err).Str("puuid", w.identity.Puuid).Msg("live scan failed")
		return
	}

	for _, f := range flagged {
		w.logger.Warn().
			Str("name", f.Name).
			Str("champion", f.Champion).
			Str("reason", f.Reason).
			Time("added_at", f.AddedAt).
			Msg("denylisted player in current game")
	}
}
