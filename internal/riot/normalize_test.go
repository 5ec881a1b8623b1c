package riot

import (
	"testing"

	"lol-denylist/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestDisplayNameFallbackChain(t *testing.T) {
	cases := []struct {
		name string
		p    participant
		want string
	}{
		{
			name: "primary field wins",
			p:    participant{"summonerName": "Primary", "riotIdGameName": "RiotID"},
			want: "Primary",
		},
		{
			name: "riot id field when primary empty",
			p:    participant{"summonerName": "", "riotIdGameName": "RiotID"},
			want: "RiotID",
		},
		{
			name: "alternate player name field",
			p:    participant{"playerName": "Alt"},
			want: "Alt",
		},
		{
			name: "bare name field",
			p:    participant{"name": "Bare"},
			want: "Bare",
		},
		{
			name: "fallback literal for redacted records",
			p:    participant{},
			want: "Unknown Player",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, normalizeParticipant(tc.p).Name)
		})
	}
}

func TestTeamMapping(t *testing.T) {
	blue := normalizeParticipant(participant{"teamId": float64(100)})
	red := normalizeParticipant(participant{"teamId": float64(200)})

	require.Equal(t, domain.TeamBlue, blue.Team)
	require.Equal(t, domain.TeamRed, red.Team)
}

func TestStableIDCandidates(t *testing.T) {
	byPuuid := normalizeParticipant(participant{"puuid": "p-1", "summonerId": "s-1"})
	require.Equal(t, "p-1", byPuuid.Puuid)

	bySummonerID := normalizeParticipant(participant{"summonerId": "s-1"})
	require.Equal(t, "s-1", bySummonerID.Puuid)

	byID := normalizeParticipant(participant{"id": "i-1"})
	require.Equal(t, "i-1", byID.Puuid)
}

func TestChampionFallsBackToNumericID(t *testing.T) {
	named := normalizeParticipant(participant{"championName": "Ahri"})
	require.Equal(t, "Ahri", named.Champion)

	numeric := normalizeParticipant(participant{"championId": float64(103)})
	require.Equal(t, "103", numeric.Champion)

	missing := normalizeParticipant(participant{})
	require.Equal(t, "Unknown", missing.Champion)
}

func TestNormalizeParticipantsPreservesOrder(t *testing.T) {
	raw := []participant{
		{"puuid": "a", "teamId": float64(100), "championName": "Ahri"},
		{"puuid": "b", "teamId": float64(200), "championName": "Lux"},
	}

	got := normalizeParticipants(raw)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Puuid)
	require.Equal(t, "b", got[1].Puuid)
}
