package service

import (
	"sort"
	"time"

	"ScheduleSync/internal/model"
	"ScheduleSync/internal/timeutil"
)

// Assembler turns a matched pair into the published record shape.
type Assembler struct {
	normalizer *timeutil.Normalizer
}

func NewAssembler(normalizer *timeutil.Normalizer) *Assembler {
	return &Assembler{normalizer: normalizer}
}

// Assemble display names and venue come from the schedule provider verbatim;
// the odds provider's naming is only used for matching. The only error is
// *model.MalformedTimestamp.
func (a *Assembler) Assemble(pair model.MatchedPair) (model.OutputRecord, error) {
	rec, _, err := a.assemble(pair)
	return rec, err
}

// assemble also returns the start instant, used for ordering. On error the
// record is still filled in except for its start time.
func (a *Assembler) assemble(pair model.MatchedPair) (model.OutputRecord, time.Time, error) {
	rec := model.OutputRecord{
		GameID:   pair.Game.GameID,
		HomeTeam: pair.Game.HomeTeam,
		AwayTeam: pair.Game.AwayTeam,
		Venue:    pair.Game.Venue,
	}
	if pair.Market != nil {
		id := pair.Market.MarketID
		rec.OddsMarketID = &id
	}
	start, err := a.normalizer.Normalize(pair.Game.StartTime, pair.Game.SourceZone)
	if err != nil {
		return rec, time.Time{}, err
	}
	rec.StartTimeEST = a.normalizer.Format(start)
	return rec, start, nil
}

type timedRecord struct {
	rec   model.OutputRecord
	start time.Time
	timed bool
}

// sortRecords ascending by start instant, then game_id; untimed records go last.
func sortRecords(in []timedRecord) []model.OutputRecord {
	sort.SliceStable(in, func(i, j int) bool {
		a, b := in[i], in[j]
		if a.timed != b.timed {
			return a.timed
		}
		if a.timed && !a.start.Equal(b.start) {
			return a.start.Before(b.start)
		}
		return a.rec.GameID < b.rec.GameID
	})
	out := make([]model.OutputRecord, len(in))
	for i := range in {
		out[i] = in[i].rec
	}
	return out
}
