package model

// ProviderTag identifies an upstream data provider. Team tokens are only
// meaningful together with the provider that issued them.
type ProviderTag string

const (
	ProviderMLBStats ProviderTag = "mlb-statsapi"
	ProviderOddsAPI  ProviderTag = "the-odds-api"
)

// RawGame one scheduled game as delivered by the schedule provider.
// HomeTeam/AwayTeam are provider-native tokens and double as display names.
type RawGame struct {
	GameID     string
	HomeTeam   string
	AwayTeam   string
	StartTime  string // provider timestamp, unparsed
	SourceZone string // IANA zone or fixed offset; empty when StartTime carries an offset
	Venue      string
	GameNumber int // 1 or 2 within a doubleheader, 0 when unknown
}

// RawMarket one odds-market entry as delivered by the odds provider.
type RawMarket struct {
	MarketID     string
	HomeTeam     string
	AwayTeam     string
	EventDate    string // YYYY-MM-DD in the target zone
	CommenceTime string // provider value, informational
}
