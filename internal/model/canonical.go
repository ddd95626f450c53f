package model

// CanonicalTeam provider-independent franchise key, e.g. "nyy".
type CanonicalTeam string

// MatchKey identifies a matchup on a calendar day in the target zone.
type MatchKey struct {
	Home CanonicalTeam
	Away CanonicalTeam
	Date string
}

func (k MatchKey) String() string {
	return string(k.Home) + "|" + string(k.Away) + "|" + k.Date
}

// MatchedPair a game and the market it was paired with, if any.
// Key is zero when the game could not take part in matching.
type MatchedPair struct {
	Game   RawGame
	Market *RawMarket
	Key    MatchKey
}

// Matched reports whether the pair carries a market.
func (p MatchedPair) Matched() bool { return p.Market != nil }

// OutputRecord one element of the published schedule artifact. Field names
// are a stable external contract.
type OutputRecord struct {
	GameID       string  `json:"game_id"`
	HomeTeam     string  `json:"home_team"`
	AwayTeam     string  `json:"away_team"`
	Venue        string  `json:"venue"`
	StartTimeEST string  `json:"start_time_est"`
	OddsMarketID *string `json:"odds_market_id"`
}
