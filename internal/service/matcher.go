package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ScheduleSync/internal/model"
	"ScheduleSync/internal/timeutil"

	"github.com/sirupsen/logrus"
)

// TeamResolver maps a provider's team token to a canonical team
type TeamResolver interface {
	Resolve(provider model.ProviderTag, token string) (model.CanonicalTeam, error)
}

// MatchResult one pair per distinct game, in input order, plus diagnostics
type MatchResult struct {
	Pairs            []model.MatchedPair
	Issues           []model.Issue
	Markets          int // distinct markets received
	Matched          int
	UnmatchedMarkets int // markets left in the pool, dropped
}

// Matcher pairs schedule games with odds markets on (home, away, date).
type Matcher struct {
	resolver     TeamResolver
	normalizer   *timeutil.Normalizer
	gameProvider model.ProviderTag
	oddsProvider model.ProviderTag
	logger       *logrus.Logger
}

// NewMatcher gameProvider/oddsProvider select the resolver namespace for each side.
func NewMatcher(resolver TeamResolver, normalizer *timeutil.Normalizer, gameProvider, oddsProvider model.ProviderTag, logger *logrus.Logger) *Matcher {
	return &Matcher{
		resolver:     resolver,
		normalizer:   normalizer,
		gameProvider: gameProvider,
		oddsProvider: oddsProvider,
		logger:       logger,
	}
}

// Match never drops a game: games that cannot be keyed come back unmatched.
// A market is used by at most one game. Among several candidates the
// smallest market ID wins; when a key's markets are used up (doubleheader)
// later games stay unmatched. Both cases are reported as AmbiguousMatch.
func (m *Matcher) Match(games []model.RawGame, markets []model.RawMarket) *MatchResult {
	res := &MatchResult{Pairs: make([]model.MatchedPair, 0, len(games))}

	// 1. markets -> pool keyed by (home, away, date)
	pool := make(map[model.MatchKey][]model.RawMarket)
	seenMarkets := make(map[string]struct{}, len(markets))
	for _, mk := range markets {
		if _, dup := seenMarkets[mk.MarketID]; dup {
			res.Issues = append(res.Issues, model.Issue{
				Kind:     model.IssueDuplicateRecord,
				Provider: m.oddsProvider,
				RecordID: mk.MarketID,
				Detail:   "repeated market id, first occurrence kept",
			})
			continue
		}
		seenMarkets[mk.MarketID] = struct{}{}
		res.Markets++

		key, issues := m.marketKey(mk)
		if len(issues) > 0 {
			res.Issues = append(res.Issues, issues...)
			continue
		}
		pool[key] = append(pool[key], mk)
	}
	for key := range pool {
		bucket := pool[key]
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].MarketID < bucket[j].MarketID })
	}

	// 2. games in input order, first come first served
	consumedBy := make(map[model.MatchKey]string)
	seenGames := make(map[string]struct{}, len(games))
	for _, g := range games {
		if _, dup := seenGames[g.GameID]; dup {
			res.Issues = append(res.Issues, model.Issue{
				Kind:     model.IssueDuplicateRecord,
				Provider: m.gameProvider,
				RecordID: g.GameID,
				Detail:   "repeated game id, first occurrence kept",
			})
			continue
		}
		seenGames[g.GameID] = struct{}{}

		key, issues := m.gameKey(g)
		if len(issues) > 0 {
			res.Issues = append(res.Issues, issues...)
			res.Pairs = append(res.Pairs, model.MatchedPair{Game: g})
			continue
		}

		pair := model.MatchedPair{Game: g, Key: key}
		candidates := pool[key]
		switch {
		case len(candidates) == 0:
			if firstGame, used := consumedBy[key]; used {
				res.Issues = append(res.Issues, model.Issue{
					Kind:     model.IssueAmbiguousMatch,
					Provider: m.gameProvider,
					RecordID: g.GameID,
					Detail:   fmt.Sprintf("market for %s already paired with game %s, left unmatched", key, firstGame),
				})
				m.logger.WithFields(logrus.Fields{"game_id": g.GameID, "key": key.String(), "paired_game": firstGame}).
					Warn("doubleheader without a second market, game left unmatched")
			}
		case len(candidates) > 1:
			others := make([]string, 0, len(candidates)-1)
			for _, c := range candidates[1:] {
				others = append(others, c.MarketID)
			}
			res.Issues = append(res.Issues, model.Issue{
				Kind:     model.IssueAmbiguousMatch,
				Provider: m.gameProvider,
				RecordID: g.GameID,
				Detail:   fmt.Sprintf("%d markets for %s, chose %s over %s", len(candidates), key, candidates[0].MarketID, strings.Join(others, ",")),
			})
			m.logger.WithFields(logrus.Fields{"game_id": g.GameID, "key": key.String(), "chosen": candidates[0].MarketID}).
				Warn("several markets match one game, smallest market id chosen")
			fallthrough
		default:
			chosen := candidates[0]
			pair.Market = &chosen
			pool[key] = candidates[1:]
			consumedBy[key] = g.GameID
			res.Matched++
		}
		res.Pairs = append(res.Pairs, pair)
	}

	for _, left := range pool {
		res.UnmatchedMarkets += len(left)
	}
	return res
}

// gameKey resolves both teams and the target-zone date of the start time.
// Every failure is reported, not just the first.
func (m *Matcher) gameKey(g model.RawGame) (model.MatchKey, []model.Issue) {
	var issues []model.Issue
	home, hErr := m.resolver.Resolve(m.gameProvider, g.HomeTeam)
	if hErr != nil {
		issues = append(issues, m.unknownTeam(m.gameProvider, g.GameID, hErr))
	}
	away, aErr := m.resolver.Resolve(m.gameProvider, g.AwayTeam)
	if aErr != nil {
		issues = append(issues, m.unknownTeam(m.gameProvider, g.GameID, aErr))
	}
	start, tErr := m.normalizer.Normalize(g.StartTime, g.SourceZone)
	if tErr != nil {
		issues = append(issues, model.Issue{
			Kind:     model.IssueMalformedTimestamp,
			Provider: m.gameProvider,
			RecordID: g.GameID,
			Detail:   tErr.Error(),
		})
	}
	if len(issues) > 0 {
		return model.MatchKey{}, issues
	}
	return model.MatchKey{Home: home, Away: away, Date: m.normalizer.CalendarDate(start)}, nil
}

func (m *Matcher) marketKey(mk model.RawMarket) (model.MatchKey, []model.Issue) {
	var issues []model.Issue
	home, hErr := m.resolver.Resolve(m.oddsProvider, mk.HomeTeam)
	if hErr != nil {
		issues = append(issues, m.unknownTeam(m.oddsProvider, mk.MarketID, hErr))
	}
	away, aErr := m.resolver.Resolve(m.oddsProvider, mk.AwayTeam)
	if aErr != nil {
		issues = append(issues, m.unknownTeam(m.oddsProvider, mk.MarketID, aErr))
	}
	if _, err := time.Parse(timeutil.DateLayout, mk.EventDate); err != nil {
		issues = append(issues, model.Issue{
			Kind:     model.IssueMalformedTimestamp,
			Provider: m.oddsProvider,
			RecordID: mk.MarketID,
			Detail:   fmt.Sprintf("event date %q (commence time %q) is not YYYY-MM-DD", mk.EventDate, mk.CommenceTime),
		})
	}
	if len(issues) > 0 {
		return model.MatchKey{}, issues
	}
	return model.MatchKey{Home: home, Away: away, Date: mk.EventDate}, nil
}

func (m *Matcher) unknownTeam(provider model.ProviderTag, recordID string, err error) model.Issue {
	m.logger.WithError(err).WithField("record_id", recordID).Debug("team not in mapping table")
	return model.Issue{
		Kind:     model.IssueUnknownTeam,
		Provider: provider,
		RecordID: recordID,
		Detail:   err.Error(),
	}
}
