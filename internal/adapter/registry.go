package adapter

import (
	"fmt"

	"ScheduleSync/internal/config"
	"ScheduleSync/internal/interfaces"
	"ScheduleSync/internal/model"
	"ScheduleSync/internal/timeutil"

	"github.com/sirupsen/logrus"
)

// Sources the configured schedule and odds providers
type Sources struct {
	Schedule interfaces.ScheduleSource
	Odds     interfaces.OddsSource
}

// NewSources instantiates the providers named by schedule.provider and
// odds.provider. Provider packages must be linked in (blank import) so
// their init has registered a factory.
func NewSources(cfg *config.Config, normalizer *timeutil.Normalizer, logger *logrus.Logger) (*Sources, error) {
	schedProviders, oddsProviders := ListProviders()
	logger.WithFields(logrus.Fields{
		"schedule_providers": schedProviders,
		"odds_providers":     oddsProviders,
	}).Debug("registered provider factories")

	schedTag := model.ProviderTag(cfg.Schedule.Provider)
	sf, ok := getScheduleFactory(schedTag)
	if !ok {
		return nil, fmt.Errorf("no schedule provider registered as %q (have %v)", schedTag, schedProviders)
	}
	oddsTag := model.ProviderTag(cfg.Odds.Provider)
	of, ok := getOddsFactory(oddsTag)
	if !ok {
		return nil, fmt.Errorf("no odds provider registered as %q (have %v)", oddsTag, oddsProviders)
	}

	src := &Sources{
		Schedule: sf(&cfg.Schedule, normalizer, logger),
		Odds:     of(&cfg.Odds, normalizer, logger),
	}
	if src.Schedule == nil || src.Odds == nil {
		return nil, fmt.Errorf("provider factory returned nil (schedule=%s odds=%s)", schedTag, oddsTag)
	}
	if src.Schedule.Provider() != schedTag || src.Odds.Provider() != oddsTag {
		return nil, fmt.Errorf("provider tag mismatch: configured %s/%s, built %s/%s",
			schedTag, oddsTag, src.Schedule.Provider(), src.Odds.Provider())
	}
	logger.WithFields(logrus.Fields{"schedule": schedTag, "odds": oddsTag}).Info("upstream providers ready")
	return src, nil
}
