package service

import (
	"context"
	"errors"

	"lol-denylist/internal/constants"
	"lol-denylist/internal/denylist"
	"lol-denylist/internal/domain"
	"lol-denylist/internal/repository"
	"lol-denylist/internal/riot"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MatchService retrieves match history and match details. Details are served
// read-through from the sqlite cache: finished matches never change, so a
// cached detail is always current.
type MatchService struct {
	riot     *riot.Client
	repo     *repository.MatchRepository
	denylist *denylist.Store
	logger   zerolog.Logger
}

func NewMatchService(riotClient *riot.Client, repo *repository.MatchRepository, store *denylist.Store, logger zerolog.Logger) *MatchService {
	return &MatchService{riot: riotClient, repo: repo, denylist: store, logger: logger}
}

// History lists match ids most-recent-first. Zero matches is an empty slice,
// not an error.
func (s *MatchService) History(ctx context.Context, identity *domain.PlayerIdentity, limit, offset int) ([]string, error) {
	if identity == nil || identity.Puuid == "" {
		return nil, &domain.ValidationError{Field: "identity", Reason: "puuid must not be empty"}
	}
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	if limit > constants.MaxHistoryLimit {
		limit = constants.MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	ids, err := s.riot.MatchIDsByPuuid(ctx, identity.Puuid, offset, limit)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}

	s.logger.Debug().Str("puuid", identity.Puuid).Int("count", len(ids)).Msg("match history fetched")
	return ids, nil
}

// Detail returns a match with normalized participants, fetching and caching
// it when it has not been seen before.
func (s *MatchService) Detail(ctx context.Context, matchID string) (*domain.MatchDetail, error) {
	if matchID == "" {
		return nil, &domain.ValidationError{Field: "match_id", Reason: "must not be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	cached, err := s.repo.Get(ctx, matchID)
	if err == nil {
		s.logger.Debug().Str("match_id", matchID).Msg("match served from cache")
		return cached, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	detail, err := s.riot.MatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, detail); err != nil {
		// Caching is best-effort; the fetched detail is still valid.
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to cache match")
	}

	return detail, nil
}

// HistoryDetailed fetches a page of history and its details concurrently,
// returning one summary per match with the number of denylisted players who
// took part. Upstream ordering is preserved.
func (s *MatchService) HistoryDetailed(ctx context.Context, identity *domain.PlayerIdentity, limit, offset int) ([]domain.MatchSummary, error) {
	ids, err := s.History(ctx, identity, limit, offset)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.MatchSummary, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.HistoryDetailConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			detail, err := s.Detail(gCtx, id)
			if err != nil {
				return err
			}

			flagged := 0
			for _, p := range detail.Participants {
				if p.Puuid != "" && s.denylist.Contains(p.Puuid) {
					flagged++
				}
			}
			summaries[i] = domain.MatchSummary{MatchID: id, FlaggedCount: flagged}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
