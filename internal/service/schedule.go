package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ScheduleSync/internal/interfaces"
	"ScheduleSync/internal/model"
	"ScheduleSync/internal/timeutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	PolicyExclude = "exclude"
	PolicyEmit    = "emit"

	runSucceeded = "succeeded"
	runFailed    = "failed"
)

// Options artifact naming and per-record policy
type Options struct {
	ArtifactPrefix           string
	LatestAlias              string // also publish under this fixed name when set
	MalformedTimestampPolicy string // PolicyExclude (default) or PolicyEmit
}

// PublishResult outcome of one successful run
type PublishResult struct {
	RunID        string               `json:"run_id"`
	Date         string               `json:"date"`
	ArtifactName string               `json:"artifact"`
	Ack          model.Ack            `json:"ack"`
	AliasAck     *model.Ack           `json:"alias_ack,omitempty"`
	Report       *model.RunReport     `json:"report"`
	Records      []model.OutputRecord `json:"-"`
}

// ScheduleService builds and publishes the schedule artifact for one date.
// It holds no per-run state, so concurrent runs for different dates are safe.
type ScheduleService struct {
	schedule   interfaces.ScheduleSource
	odds       interfaces.OddsSource
	publisher  interfaces.SchedulePublisher
	runs       interfaces.RunRepository // nil disables the run log
	matcher    *Matcher
	assembler  *Assembler
	normalizer *timeutil.Normalizer
	opts       Options
	logger     *logrus.Logger
	now        func() time.Time
}

// NewScheduleService runs may be nil.
func NewScheduleService(
	schedule interfaces.ScheduleSource,
	odds interfaces.OddsSource,
	resolver TeamResolver,
	publisher interfaces.SchedulePublisher,
	runs interfaces.RunRepository,
	normalizer *timeutil.Normalizer,
	opts Options,
	logger *logrus.Logger,
) *ScheduleService {
	if opts.MalformedTimestampPolicy == "" {
		opts.MalformedTimestampPolicy = PolicyExclude
	}
	return &ScheduleService{
		schedule:   schedule,
		odds:       odds,
		publisher:  publisher,
		runs:       runs,
		matcher:    NewMatcher(resolver, normalizer, schedule.Provider(), odds.Provider(), logger),
		assembler:  NewAssembler(normalizer),
		normalizer: normalizer,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// ArtifactName one artifact per target date, e.g. mlb_schedule/2024-05-01.json
func ArtifactName(prefix, date string) string {
	return prefix + date + ".json"
}

// EncodeArtifact stable bytes for a record list; an empty list encodes as [].
func EncodeArtifact(records []model.OutputRecord) ([]byte, error) {
	if records == nil {
		records = []model.OutputRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunForDate fetches, reconciles and publishes the schedule for date (a
// target-zone calendar day). Fetch and publish failures abort the run and
// nothing partial is published; per-record problems only show up in the report.
func (s *ScheduleService) RunForDate(ctx context.Context, date time.Time) (*PublishResult, error) {
	runID := uuid.NewString()
	dateStr := s.normalizer.CalendarDate(date)
	started := s.now()
	log := s.logger.WithFields(logrus.Fields{"run_id": runID, "date": dateStr})
	log.Info("schedule run started")

	res, report, err := s.run(ctx, runID, date, dateStr, log)
	s.recordRun(ctx, runID, dateStr, started, res, report, err, log)
	if err != nil {
		log.WithError(err).Error("schedule run failed")
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"artifact":  res.ArtifactName,
		"games":     report.Games,
		"matched":   report.Matched,
		"unmatched": report.Unmatched,
		"issues":    len(report.Issues),
	}).Info("schedule run finished")
	return res, nil
}

func (s *ScheduleService) run(ctx context.Context, runID string, date time.Time, dateStr string, log *logrus.Entry) (*PublishResult, *model.RunReport, error) {
	report := model.NewRunReport()

	// 1. both sources concurrently; either failing cancels the other
	var (
		games   []model.RawGame
		markets []model.RawMarket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		games, err = s.schedule.FetchGames(gctx, date)
		return asFetchError(string(s.schedule.Provider()), err)
	})
	g.Go(func() error {
		var err error
		markets, err = s.odds.FetchMarkets(gctx, date)
		return asFetchError(string(s.odds.Provider()), err)
	})
	if err := g.Wait(); err != nil {
		return nil, report, err
	}
	log.WithFields(logrus.Fields{"games": len(games), "markets": len(markets)}).Info("upstream data fetched")

	// 2. match
	matched := s.matcher.Match(games, markets)
	report.Add(matched.Issues...)
	report.Games = len(matched.Pairs)
	report.Markets = matched.Markets
	report.Matched = matched.Matched
	report.Unmatched = len(matched.Pairs) - matched.Matched
	report.UnmatchedMarkets = matched.UnmatchedMarkets

	// 3. assemble; the matcher already reported malformed start times
	timed := make([]timedRecord, 0, len(matched.Pairs))
	for _, pair := range matched.Pairs {
		rec, start, err := s.assembler.assemble(pair)
		if err != nil {
			if s.opts.MalformedTimestampPolicy == PolicyEmit {
				timed = append(timed, timedRecord{rec: rec})
				continue
			}
			report.Excluded++
			log.WithError(err).WithField("game_id", pair.Game.GameID).Warn("record excluded from artifact")
			continue
		}
		timed = append(timed, timedRecord{rec: rec, start: start, timed: true})
	}
	records := sortRecords(timed)

	// 4. encode + publish
	data, err := EncodeArtifact(records)
	if err != nil {
		return nil, report, fmt.Errorf("encode artifact: %w", err)
	}
	name := ArtifactName(s.opts.ArtifactPrefix, dateStr)
	ack, err := s.publisher.Publish(ctx, name, data)
	if err != nil {
		return nil, report, asPublishError(name, err)
	}
	res := &PublishResult{
		RunID:        runID,
		Date:         dateStr,
		ArtifactName: name,
		Ack:          ack,
		Report:       report,
		Records:      records,
	}

	if alias := s.opts.LatestAlias; alias != "" && alias != name {
		aliasAck, err := s.publisher.Publish(ctx, alias, data)
		if err != nil {
			return nil, report, asPublishError(alias, err)
		}
		res.AliasAck = &aliasAck
	}
	return res, report, nil
}

func (s *ScheduleService) recordRun(ctx context.Context, runID, dateStr string, started time.Time, res *PublishResult, report *model.RunReport, runErr error, log *logrus.Entry) {
	if s.runs == nil {
		return
	}
	row := &model.ScheduleRun{
		RunUUID:    runID,
		TargetDate: dateStr,
		Status:     runSucceeded,
		StartedAt:  started,
		FinishedAt: s.now(),
	}
	if report != nil {
		row.Games = report.Games
		row.Matched = report.Matched
		if b, err := json.Marshal(report); err == nil {
			row.Report = b
		}
	}
	if res != nil {
		row.ArtifactName = res.ArtifactName
	}
	if runErr != nil {
		msg := runErr.Error()
		row.Status = runFailed
		row.Error = &msg
	}
	// a failed save never fails the run
	if err := s.runs.SaveRun(context.WithoutCancel(ctx), row); err != nil {
		log.WithError(err).Warn("save run log failed")
	}
}

func asFetchError(source string, err error) error {
	if err == nil {
		return nil
	}
	var fe *model.FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &model.FetchError{Source: source, Err: err}
}

func asPublishError(name string, err error) error {
	var pe *model.PublishError
	if errors.As(err, &pe) {
		return err
	}
	return &model.PublishError{Name: name, Err: err}
}
