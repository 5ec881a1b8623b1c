package service

import (
	"context"
	"strings"

	"lol-denylist/internal/constants"
	"lol-denylist/internal/domain"
	"lol-denylist/internal/identitycache"
	"lol-denylist/internal/riot"

	"github.com/rs/zerolog"
)

// IdentityService resolves name+tag pairs to full player identities,
// cache-first. A cache hit skips the two-step account resolution and fetches
// summoner detail directly by puuid.
type IdentityService struct {
	riot   *riot.Client
	cache  *identitycache.Cache
	logger zerolog.Logger
}

func NewIdentityService(riotClient *riot.Client, cache *identitycache.Cache, logger zerolog.Logger) *IdentityService {
	return &IdentityService{riot: riotClient, cache: cache, logger: logger}
}

// Resolve turns a name and tag into a PlayerIdentity. A "#" embedded in the
// name splits it into name and tag, overriding any supplied tag; an empty
// tag falls back to the region default.
func (s *IdentityService) Resolve(ctx context.Context, name, tag string) (*domain.PlayerIdentity, error) {
	name = strings.TrimSpace(name)
	tag = strings.TrimSpace(tag)

	if rest, after, found := strings.Cut(name, "#"); found {
		name = rest
		// Anything past a second "#" is discarded, only the first segment
		// is the tag.
		tag, _, _ = strings.Cut(after, "#")
	}
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if tag == "" {
		tag = riot.DefaultTag(s.riot.Region())
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if puuid, ok := s.cache.Resolve(name, tag); ok {
		s.logger.Debug().Str("name", name).Str("tag", tag).Str("puuid", puuid).Msg("puuid cache hit")

		summoner, err := s.riot.SummonerByPuuid(ctx, puuid)
		if err != nil {
			return nil, err
		}
		return &domain.PlayerIdentity{
			Puuid: puuid,
			Name:  name,
			Tag:   tag,
			Level: summoner.SummonerLevel,
		}, nil
	}

	s.logger.Debug().Str("name", name).Str("tag", tag).Msg("puuid cache miss, resolving account")

	account, err := s.riot.AccountByRiotID(ctx, name, tag)
	if err != nil {
		return nil, err
	}
	summoner, err := s.riot.SummonerByPuuid(ctx, account.Puuid)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Store(name, tag, account.Puuid); err != nil {
		// The entry stays usable in memory and is rebuilt on the next
		// successful lookup, so resolution still succeeds.
		s.logger.Warn().Err(err).Str("name", name).Str("tag", tag).Msg("failed to persist puuid cache")
	}

	identity := &domain.PlayerIdentity{
		Puuid: account.Puuid,
		Name:  name,
		Tag:   tag,
		Level: summoner.SummonerLevel,
	}
	if account.GameName != "" {
		identity.Name = account.GameName
	}
	if account.TagLine != "" {
		identity.Tag = account.TagLine
	}

	s.logger.Info().Str("riot_id", identity.RiotID()).Str("puuid", identity.Puuid).Msg("identity resolved")
	return identity, nil
}
