package riot

// Account is the account-v1 response: the riot id and the puuid that owns it.
type Account struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Summoner is the summoner-v4 response addressed by puuid.
type Summoner struct {
	Puuid         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	RevisionDate  int64  `json:"revisionDate"`
	SummonerLevel int    `json:"summonerLevel"`
}

// participant is a single participant object from match-v5 or spectator-v5.
// The two APIs disagree on field names (and partially redacted records drop
// fields entirely), so participants stay generic until normalization.
type participant map[string]any

// matchResponse is the match-v5 detail response, trimmed to the fields the
// core consumes.
type matchResponse struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		QueueID      int           `json:"queueId"`
		GameMode     string        `json:"gameMode"`
		GameCreation int64         `json:"gameCreation"`
		GameDuration int64         `json:"gameDuration"`
		Participants []participant `json:"participants"`
	} `json:"info"`
}

// spectatorResponse is the spectator-v5 active-game response.
type spectatorResponse struct {
	GameID       int64         `json:"gameId"`
	GameMode     string        `json:"gameMode"`
	GameLength   int64         `json:"gameLength"`
	Participants []participant `json:"participants"`
}
