package publisher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"ScheduleSync/internal/model"
	"ScheduleSync/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// PostgresPublisher stores artifacts in schedule_artifacts keyed by name.
// jsonb normalizes whitespace, so the checksum is taken over the published
// bytes rather than the stored column.
type PostgresPublisher struct {
	repo   repository.ArtifactRepository
	logger *logrus.Logger
}

func NewPostgresPublisher(repo repository.ArtifactRepository, logger *logrus.Logger) *PostgresPublisher {
	return &PostgresPublisher{repo: repo, logger: logger}
}

func (p *PostgresPublisher) Publish(ctx context.Context, name string, data []byte) (model.Ack, error) {
	sum := sha256.Sum256(data)
	row := &model.ScheduleArtifact{
		Name:     name,
		Body:     datatypes.JSON(data),
		Checksum: hex.EncodeToString(sum[:]),
	}
	if err := p.repo.UpsertArtifact(ctx, row); err != nil {
		return model.Ack{}, &model.PublishError{Name: name, Err: err}
	}
	p.logger.WithFields(logrus.Fields{"name": name, "id": row.ID, "checksum": row.Checksum}).Info("artifact stored")
	return model.Ack{
		Backend:  BackendPostgres,
		Name:     name,
		Location: "schedule_artifacts/" + name,
		Version:  row.Checksum,
	}, nil
}
