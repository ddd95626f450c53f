// Package mlbstats reads the daily schedule from the MLB Stats API.
package mlbstats

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ScheduleSync/internal/adapter"
	"ScheduleSync/internal/config"
	"ScheduleSync/internal/interfaces"
	"ScheduleSync/internal/model"
	"ScheduleSync/internal/timeutil"
	"ScheduleSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

func init() {
	adapter.RegisterSchedule(model.ProviderMLBStats, func(cfg *config.ProviderConfig, n *timeutil.Normalizer, logger *logrus.Logger) interfaces.ScheduleSource {
		return NewAdapter(cfg, n, logger)
	})
}

type Adapter struct {
	cfg        *config.ProviderConfig
	httpClient *http.Client
	normalizer *timeutil.Normalizer
	logger     *logrus.Logger
}

func NewAdapter(cfg *config.ProviderConfig, normalizer *timeutil.Normalizer, logger *logrus.Logger) *Adapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		normalizer: normalizer,
		logger:     logger,
	}
}

func (a *Adapter) Provider() model.ProviderTag { return model.ProviderMLBStats }

// FetchGames every game the API files under date. gameDate is always UTC
// ("...Z"), so SourceZone stays empty.
func (a *Adapter) FetchGames(ctx context.Context, date time.Time) ([]model.RawGame, error) {
	day := a.normalizer.CalendarDate(date)
	reqURL, err := a.scheduleURL(day)
	if err != nil {
		return nil, &model.FetchError{Source: string(a.Provider()), Err: err}
	}

	var resp model.MLBScheduleResponse
	if err := httpclient.GetJSON(ctx, a.httpClient, reqURL, &resp); err != nil {
		return nil, &model.FetchError{Source: string(a.Provider()), Err: err}
	}

	games := make([]model.RawGame, 0, resp.TotalGames)
	for _, row := range resp.Dates {
		for _, g := range row.Games {
			games = append(games, toRawGame(g))
		}
	}
	a.logger.WithFields(logrus.Fields{
		"provider": a.Provider(),
		"date":     day,
		"games":    len(games),
	}).Info("schedule fetched")
	return games, nil
}

func (a *Adapter) scheduleURL(day string) (string, error) {
	u, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	// trailing slash matters to the API
	u.Path = strings.TrimRight(u.Path, "/") + "/schedule/games/"
	sportID := a.cfg.SportID
	if sportID == 0 {
		sportID = 1
	}
	q := url.Values{}
	q.Set("sportId", strconv.Itoa(sportID))
	q.Set("startDate", day)
	q.Set("endDate", day)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func toRawGame(g model.MLBGame) model.RawGame {
	return model.RawGame{
		GameID:     strconv.FormatInt(g.GamePk, 10),
		HomeTeam:   teamToken(g.Teams.Home),
		AwayTeam:   teamToken(g.Teams.Away),
		StartTime:  g.GameDate,
		Venue:      g.Venue.Name,
		GameNumber: g.GameNumber,
	}
}

// teamToken falls back to the numeric id, which the team table also maps
func teamToken(t model.MLBGameTeam) string {
	if t.Team.Name != "" {
		return t.Team.Name
	}
	if t.Team.ID != 0 {
		return strconv.FormatInt(t.Team.ID, 10)
	}
	return ""
}
