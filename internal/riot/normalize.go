package riot

import (
	"strconv"

	"lol-denylist/internal/domain"
)

// Candidate field names per concept, tried in order. match-v5, spectator-v5,
// and partially redacted player records all name these differently; new
// upstream spellings go in these tables, not in control flow.
var (
	displayNameFields = []string{"summonerName", "riotIdGameName", "playerName", "name"}
	stableIDFields    = []string{"puuid", "summonerId", "id"}
	tagFields         = []string{"riotIdTagline", "tagLine"}
	championFields    = []string{"championName", "championId"}
)

const unknownPlayerName = "Unknown Player"

func normalizeParticipants(raw []participant) []domain.MatchParticipant {
	out := make([]domain.MatchParticipant, 0, len(raw))
	for _, p := range raw {
		out = append(out, normalizeParticipant(p))
	}
	return out
}

func normalizeParticipant(p participant) domain.MatchParticipant {
	name := firstString(p, displayNameFields)
	if name == "" {
		name = unknownPlayerName
	}

	teamCode, _ := intField(p, "teamId")

	return domain.MatchParticipant{
		Puuid:    firstString(p, stableIDFields),
		Name:     name,
		Tag:      firstString(p, tagFields),
		Champion: championOf(p),
		Team:     teamFromCode(teamCode),
	}
}

// teamFromCode maps the upstream numeric team code to a side. Riot uses 100
// and 200; the lower code is the blue side.
func teamFromCode(code int) domain.Team {
	if code <= 100 {
		return domain.TeamBlue
	}
	return domain.TeamRed
}

func championOf(p participant) string {
	for _, field := range championFields {
		switch v := p[field].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.Itoa(int(v))
		}
	}
	return "Unknown"
}

func firstString(p participant, fields []string) string {
	for _, field := range fields {
		if v, ok := p[field].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func intField(p participant, field string) (int, bool) {
	v, ok := p[field].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}
