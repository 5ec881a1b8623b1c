package service

import (
	"context"
	"testing"

	"lol-denylist/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const matchBody = `{
	"metadata": {"matchId": "NA1_100"},
	"info": {
		"queueId": 420,
		"gameMode": "CLASSIC",
		"gameCreation": 1748779200000,
		"gameDuration": 1800,
		"participants": [
			{"puuid": "A", "summonerName": "AllyOne", "riotIdTagline": "NA1", "teamId": 100, "championName": "Ahri"},
			{"puuid": "B", "riotIdGameName": "GrieferTwo", "teamId": 200, "championName": "Lux"}
		]
	}
}`

func testMatchService(t *testing.T) (*MatchService, *fakeRiot) {
	t.Helper()
	client, fake := newFakeRiot(t)
	return NewMatchService(client, testMatchRepo(t), testDenylist(t), zerolog.Nop()), fake
}

func TestHistoryEmptyIsNotAnError(t *testing.T) {
	svc, _ := testMatchService(t)

	ids, err := svc.History(context.Background(), &domain.PlayerIdentity{Puuid: "puuid-me"}, 5, 0)
	require.NoError(t, err)
	require.NotNil(t, ids)
	require.Empty(t, ids)
}

func TestHistoryPassesThroughIDs(t *testing.T) {
	svc, fake := testMatchService(t)
	fake.matchIDs = []string{"NA1_3", "NA1_2", "NA1_1"}

	ids, err := svc.History(context.Background(), &domain.PlayerIdentity{Puuid: "puuid-me"}, 5, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"NA1_3", "NA1_2", "NA1_1"}, ids)
}

func TestDetailNormalizesParticipants(t *testing.T) {
	svc, fake := testMatchService(t)
	fake.matches["NA1_100"] = matchBody

	detail, err := svc.Detail(context.Background(), "NA1_100")
	require.NoError(t, err)
	require.Equal(t, "NA1_100", detail.MatchID)
	require.Equal(t, 420, detail.QueueID)
	require.Len(t, detail.Participants, 2)

	require.Equal(t, "AllyOne", detail.Participants[0].Name)
	require.Equal(t, "NA1", detail.Participants[0].Tag)
	require.Equal(t, domain.TeamBlue, detail.Participants[0].Team)

	require.Equal(t, "GrieferTwo", detail.Participants[1].Name)
	require.Equal(t, domain.TeamRed, detail.Participants[1].Team)
	require.Equal(t, "Lux", detail.Participants[1].Champion)
}

func TestDetailServedFromCacheOnSecondCall(t *testing.T) {
	svc, fake := testMatchService(t)
	fake.matches["NA1_100"] = matchBody

	first, err := svc.Detail(context.Background(), "NA1_100")
	require.NoError(t, err)
	require.Equal(t, 1, fake.matchCalls)

	second, err := svc.Detail(context.Background(), "NA1_100")
	require.NoError(t, err)
	require.Equal(t, 1, fake.matchCalls, "cached detail must not refetch")

	require.Equal(t, first.MatchID, second.MatchID)
	require.Equal(t, first.Participants, second.Participants)
	require.True(t, first.GameCreation.Equal(second.GameCreation))
}

func TestDetailUnknownMatchIsNotFound(t *testing.T) {
	svc, _ := testMatchService(t)

	_, err := svc.Detail(context.Background(), "NA1_MISSING")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryDetailedCountsDenylistedPlayers(t *testing.T) {
	client, fake := newFakeRiot(t)
	store := testDenylist(t)
	svc := NewMatchService(client, testMatchRepo(t), store, zerolog.Nop())

	fake.matchIDs = []string{"NA1_100"}
	fake.matches["NA1_100"] = matchBody

	require.NoError(t, store.Add(domain.DenylistEntry{Puuid: "B", Name: "GrieferTwo"}))

	summaries, err := svc.HistoryDetailed(context.Background(), &domain.PlayerIdentity{Puuid: "puuid-me"}, 5, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "NA1_100", summaries[0].MatchID)
	require.Equal(t, 1, summaries[0].FlaggedCount)
}
