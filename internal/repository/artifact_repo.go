package repository

import (
	"context"
	"errors"
	"time"

	"ScheduleSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound no row for the requested key
var ErrNotFound = errors.New("not found")

// ArtifactRepository stored schedule artifacts, one row per name
type ArtifactRepository interface {
	UpsertArtifact(ctx context.Context, a *model.ScheduleArtifact) error
	GetArtifact(ctx context.Context, name string) (*model.ScheduleArtifact, error)
}

type artifactRepository struct {
	db *gorm.DB
}

func NewArtifactRepository(db *gorm.DB) ArtifactRepository {
	return &artifactRepository{db: db}
}

// UpsertArtifact inserts or overwrites by name; a.ID is populated either way.
func (r *artifactRepository) UpsertArtifact(ctx context.Context, a *model.ScheduleArtifact) error {
	a.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "checksum", "updated_at"}),
	}).Create(a).Error; err != nil {
		return err
	}
	if a.ID == 0 {
		if err := r.db.WithContext(ctx).Model(a).Where("name = ?", a.Name).Select("id").First(a).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *artifactRepository) GetArtifact(ctx context.Context, name string) (*model.ScheduleArtifact, error) {
	var a model.ScheduleArtifact
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
