package adapter

import (
	"fmt"
	"sort"
	"sync"

	"ScheduleSync/internal/config"
	"ScheduleSync/internal/interfaces"
	"ScheduleSync/internal/model"
	"ScheduleSync/internal/timeutil"

	"github.com/sirupsen/logrus"
)

// ScheduleFactory builds a schedule source from its provider config
type ScheduleFactory func(cfg *config.ProviderConfig, normalizer *timeutil.Normalizer, logger *logrus.Logger) interfaces.ScheduleSource

// OddsFactory builds an odds source from its provider config
type OddsFactory func(cfg *config.ProviderConfig, normalizer *timeutil.Normalizer, logger *logrus.Logger) interfaces.OddsSource

var (
	mu                sync.RWMutex
	scheduleFactories = make(map[model.ProviderTag]ScheduleFactory)
	oddsFactories     = make(map[model.ProviderTag]OddsFactory)
)

// RegisterSchedule called from a provider package's init
func RegisterSchedule(provider model.ProviderTag, factory ScheduleFactory) {
	if factory == nil {
		panic(fmt.Sprintf("nil schedule factory for provider %s", provider))
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := scheduleFactories[provider]; exists {
		logrus.Warnf("schedule provider %s registered twice, replacing", provider)
	}
	scheduleFactories[provider] = factory
}

// RegisterOdds called from a provider package's init
func RegisterOdds(provider model.ProviderTag, factory OddsFactory) {
	if factory == nil {
		panic(fmt.Sprintf("nil odds factory for provider %s", provider))
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := oddsFactories[provider]; exists {
		logrus.Warnf("odds provider %s registered twice, replacing", provider)
	}
	oddsFactories[provider] = factory
}

func getScheduleFactory(provider model.ProviderTag) (ScheduleFactory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := scheduleFactories[provider]
	return f, ok
}

func getOddsFactory(provider model.ProviderTag) (OddsFactory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := oddsFactories[provider]
	return f, ok
}

// ListProviders registered schedule and odds providers, sorted
func ListProviders() (schedule, odds []model.ProviderTag) {
	mu.RLock()
	defer mu.RUnlock()
	for p := range scheduleFactories {
		schedule = append(schedule, p)
	}
	for p := range oddsFactories {
		odds = append(odds, p)
	}
	sort.Slice(schedule, func(i, j int) bool { return schedule[i] < schedule[j] })
	sort.Slice(odds, func(i, j int) bool { return odds[i] < odds[j] })
	return schedule, odds
}
