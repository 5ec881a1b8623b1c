package domain

import (
	"fmt"
	"strings"
	"time"
)

// Team is one of the two sides of a match. Riot encodes teams as numeric
// codes; the lower code is the blue side.
type Team string

const (
	TeamBlue Team = "Blue"
	TeamRed  Team = "Red"
)

// PlayerIdentity is a player's account as known to Riot. The puuid is
// assigned and owned by the upstream service and never changes; name and tag
// are the human-readable handle and may be reassigned over time.
type PlayerIdentity struct {
	Puuid string `json:"puuid"`
	Name  string `json:"name"`
	Tag   string `json:"tag"`
	Level int    `json:"level,omitempty"`
}

// RiotID returns the "Name#Tag" form of the identity.
func (p PlayerIdentity) RiotID() string {
	return fmt.Sprintf("%s#%s", p.Name, p.Tag)
}

// MatchParticipant is one player slot in a finished or live match, normalized
// from the inconsistent upstream participant shapes.
type MatchParticipant struct {
	Puuid    string `json:"puuid"`
	Name     string `json:"name"`
	Tag      string `json:"tag,omitempty"`
	Champion string `json:"champion"`
	Team     Team   `json:"team"`
}

// MatchDetail is a finished match with its participants in upstream order.
type MatchDetail struct {
	MatchID      string             `json:"match_id"`
	QueueID      int                `json:"queue_id"`
	GameMode     string             `json:"game_mode"`
	GameCreation time.Time          `json:"game_creation"`
	GameDuration time.Duration      `json:"game_duration"`
	Participants []MatchParticipant `json:"participants"`
}

// MatchSummary is one row of a match-history listing, optionally enriched
// with the number of denylisted players seen in that match.
type MatchSummary struct {
	MatchID      string `json:"match_id"`
	FlaggedCount int    `json:"flagged_count"`
}

// LiveMatch is a currently in-progress match as reported by the spectator
// endpoint.
type LiveMatch struct {
	GameID       int64              `json:"game_id"`
	GameMode     string             `json:"game_mode"`
	Participants []MatchParticipant `json:"participants"`
}

// DenylistEntry is one denylisted player. Entries are immutable once added;
// editing is remove and re-add.
type DenylistEntry struct {
	Puuid   string    `json:"stable_id"`
	Name    string    `json:"display_name"`
	Tag     string    `json:"tag"`
	Reason  string    `json:"reason"`
	AddedAt time.Time `json:"added_at"`
}

// DisplayName returns "Name#Tag", or just the name when no tag was recorded.
func (e DenylistEntry) DisplayName() string {
	if e.Tag == "" {
		return e.Name
	}
	return fmt.Sprintf("%s#%s", e.Name, e.Tag)
}

// Matches reports whether the entry refers to the given name and tag,
// compared case-insensitively.
func (e DenylistEntry) Matches(name, tag string) bool {
	return strings.EqualFold(e.Name, name) && strings.EqualFold(e.Tag, tag)
}

// FlaggedParticipant joins a live-match participant with the denylist entry
// that matched it.
type FlaggedParticipant struct {
	Puuid    string    `json:"puuid"`
	Name     string    `json:"name"`
	Tag      string    `json:"tag,omitempty"`
	Champion string    `json:"champion"`
	Reason   string    `json:"reason"`
	AddedAt  time.Time `json:"added_at"`
}

// ImportReport summarizes a denylist import. Existing stable ids are skipped,
// never overwritten.
type ImportReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
