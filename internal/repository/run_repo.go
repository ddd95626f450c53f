package repository

import (
	"context"
	"fmt"

	"ScheduleSync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunRepository audit log of schedule runs
type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun inserts one row per run.
func (r *RunRepository) SaveRun(ctx context.Context, run *model.ScheduleRun) error {
	if run.RunUUID == "" {
		run.RunUUID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("save run %s: %w", run.RunUUID, err)
	}
	return nil
}

// ListRuns newest first; an empty date lists every date.
func (r *RunRepository) ListRuns(ctx context.Context, date string, limit int) ([]*model.ScheduleRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	db := r.db.WithContext(ctx).Model(&model.ScheduleRun{})
	if date != "" {
		db = db.Where("target_date = ?", date)
	}
	var runs []*model.ScheduleRun
	if err := db.Order("started_at DESC").Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
