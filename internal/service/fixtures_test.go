package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"ScheduleSync/internal/model"
	"ScheduleSync/internal/teams"
	"ScheduleSync/internal/timeutil"

	"github.com/sirupsen/logrus"
)

const (
	schedProv = model.ProviderTag("sched")
	oddsProv  = model.ProviderTag("odds")
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// testResolver NYY/BOS/TB/TOR on the schedule side, nicknames on the odds side
func testResolver() *teams.Resolver {
	return teams.New(map[model.ProviderTag]map[string]model.CanonicalTeam{
		schedProv: {"NYY": "yankees", "BOS": "redsox", "TB": "rays", "TOR": "bluejays"},
		oddsProv:  {"Yankees": "yankees", "Red Sox": "redsox", "Rays": "rays", "Blue Jays": "bluejays"},
	})
}

func newTestMatcher() *Matcher {
	return NewMatcher(testResolver(), timeutil.MustNew(), schedProv, oddsProv, quietLogger())
}

func game(id, home, away, start string) model.RawGame {
	return model.RawGame{GameID: id, HomeTeam: home, AwayTeam: away, StartTime: start, Venue: home + " Park"}
}

func market(id, home, away, date string) model.RawMarket {
	return model.RawMarket{MarketID: id, HomeTeam: home, AwayTeam: away, EventDate: date}
}

type fakeSchedule struct {
	games []model.RawGame
	err   error
	delay time.Duration
}

func (f *fakeSchedule) Provider() model.ProviderTag { return schedProv }

func (f *fakeSchedule) FetchGames(ctx context.Context, _ time.Time) ([]model.RawGame, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.games, f.err
}

type fakeOdds struct {
	markets []model.RawMarket
	err     error
}

func (f *fakeOdds) Provider() model.ProviderTag { return oddsProv }

func (f *fakeOdds) FetchMarkets(context.Context, time.Time) ([]model.RawMarket, error) {
	return f.markets, f.err
}

type memPublisher struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	calls   []string
	failFor string
}

func newMemPublisher() *memPublisher {
	return &memPublisher{blobs: make(map[string][]byte)}
}

func (p *memPublisher) Publish(_ context.Context, name string, data []byte) (model.Ack, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, name)
	if p.failFor != "" && p.failFor == name {
		return model.Ack{}, errors.New("bucket unavailable")
	}
	p.blobs[name] = append([]byte(nil), data...)
	return model.Ack{Backend: "mem", Name: name}, nil
}

type memRuns struct {
	rows []*model.ScheduleRun
	err  error
}

func (r *memRuns) SaveRun(_ context.Context, run *model.ScheduleRun) error {
	r.rows = append(r.rows, run)
	return r.err
}
