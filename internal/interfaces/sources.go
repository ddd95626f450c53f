package interfaces

import (
	"context"
	"time"

	"ScheduleSync/internal/model"
)

// ScheduleSource yields the schedule provider's games for a target-zone
// calendar date. Transport or decode failures come back as *model.FetchError.
type ScheduleSource interface {
	Provider() model.ProviderTag
	FetchGames(ctx context.Context, date time.Time) ([]model.RawGame, error)
}

// OddsSource yields the odds provider's markets for a target-zone calendar date.
type OddsSource interface {
	Provider() model.ProviderTag
	FetchMarkets(ctx context.Context, date time.Time) ([]model.RawMarket, error)
}

// SchedulePublisher stores a named blob, overwriting any previous blob of the same name.
type SchedulePublisher interface {
	Publish(ctx context.Context, name string, data []byte) (model.Ack, error)
}

// RunRepository persists one audit row per run
type RunRepository interface {
	SaveRun(ctx context.Context, run *model.ScheduleRun) error
}
