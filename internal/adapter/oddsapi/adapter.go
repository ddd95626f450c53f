// Package oddsapi lists upcoming events from The Odds API. Only event
// identity is read; prices are not needed for the schedule.
package oddsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
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

// the API rejects fractional seconds in commenceTime filters
const windowLayout = "2006-01-02T15:04:05Z"

func init() {
	adapter.RegisterOdds(model.ProviderOddsAPI, func(cfg *config.ProviderConfig, n *timeutil.Normalizer, logger *logrus.Logger) interfaces.OddsSource {
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

func (a *Adapter) Provider() model.ProviderTag { return model.ProviderOddsAPI }

// FetchMarkets events commencing within the Eastern calendar day of date.
func (a *Adapter) FetchMarkets(ctx context.Context, date time.Time) ([]model.RawMarket, error) {
	if a.cfg.APIKey == "" {
		return nil, &model.FetchError{Source: string(a.Provider()), Err: fmt.Errorf("api key not configured")}
	}
	start, end := a.normalizer.DayWindow(date)
	reqURL, err := a.eventsURL(start, end)
	if err != nil {
		return nil, &model.FetchError{Source: string(a.Provider()), Err: err}
	}

	var events []model.OddsAPIEvent
	if err := httpclient.GetJSON(ctx, a.httpClient, reqURL, &events); err != nil {
		return nil, &model.FetchError{Source: string(a.Provider()), Err: err}
	}

	markets := make([]model.RawMarket, 0, len(events))
	for _, e := range events {
		markets = append(markets, a.toRawMarket(e))
	}
	a.logger.WithFields(logrus.Fields{
		"provider": a.Provider(),
		"sport":    a.cfg.Sport,
		"date":     a.normalizer.CalendarDate(date),
		"markets":  len(markets),
	}).Info("odds events fetched")
	return markets, nil
}

func (a *Adapter) eventsURL(start, end time.Time) (string, error) {
	u, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	sport := a.cfg.Sport
	if sport == "" {
		sport = "baseball_mlb"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/v4/sports/" + url.PathEscape(sport) + "/events"
	q := url.Values{}
	q.Set("apiKey", a.cfg.APIKey)
	q.Set("commenceTimeFrom", start.UTC().Format(windowLayout))
	q.Set("commenceTimeTo", end.UTC().Format(windowLayout))
	q.Set("dateFormat", "iso")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// toRawMarket an unparseable commence_time leaves EventDate empty; the
// matcher reports it.
func (a *Adapter) toRawMarket(e model.OddsAPIEvent) model.RawMarket {
	m := model.RawMarket{
		MarketID:     e.ID,
		HomeTeam:     e.HomeTeam,
		AwayTeam:     e.AwayTeam,
		CommenceTime: e.CommenceTime,
	}
	if t, err := a.normalizer.Normalize(e.CommenceTime, ""); err == nil {
		m.EventDate = a.normalizer.CalendarDate(t)
	} else {
		a.logger.WithError(err).WithField("event_id", e.ID).Debug("commence_time not parseable")
	}
	return m
}
