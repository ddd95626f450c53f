package model

// ========== MLB Stats API (GET /schedule/games) ==========

// MLBScheduleResponse root of the schedule response
type MLBScheduleResponse struct {
	TotalGames int          `json:"totalGames"`
	Dates      []MLBDateRow `json:"dates"`
}

// MLBDateRow games grouped under one official date
type MLBDateRow struct {
	Date  string    `json:"date"`
	Games []MLBGame `json:"games"`
}

type MLBGame struct {
	GamePk     int64  `json:"gamePk"`
	GameDate   string `json:"gameDate"` // UTC, e.g. 2024-05-01T23:05:00Z
	GameNumber int    `json:"gameNumber"`
	Teams      struct {
		Home MLBGameTeam `json:"home"`
		Away MLBGameTeam `json:"away"`
	} `json:"teams"`
	Venue struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"venue"`
}

type MLBGameTeam struct {
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

// ========== The Odds API (GET /v4/sports/{sport}/events) ==========

// OddsAPIEvent single event entry; the id is the cross-reference we publish
type OddsAPIEvent struct {
	ID           string `json:"id"`
	SportKey     string `json:"sport_key"`
	SportTitle   string `json:"sport_title"`
	CommenceTime string `json:"commence_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
}
