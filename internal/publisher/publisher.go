// Package publisher stores finished schedule artifacts in the configured backend.
package publisher

import (
	"context"
	"fmt"

	"ScheduleSync/internal/config"
	"ScheduleSync/internal/interfaces"
	"ScheduleSync/internal/repository"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// New builds the publisher named by publish.backend. db is only needed for
// the postgres backend. The returned close func releases backend clients.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *logrus.Logger) (interfaces.SchedulePublisher, func(), error) {
	noop := func() {}
	switch cfg.Publish.Backend {
	case BackendS3:
		opts := []func(*awsconfig.LoadOptions) error{}
		if cfg.Publish.S3Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.Publish.S3Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, noop, fmt.Errorf("load aws config: %w", err)
		}
		return NewS3Publisher(s3.NewFromConfig(awsCfg), cfg.Publish.S3Bucket, logger), noop, nil

	case BackendPostgres:
		if db == nil {
			return nil, noop, fmt.Errorf("postgres backend needs a database connection")
		}
		return NewPostgresPublisher(repository.NewArtifactRepository(db), logger), noop, nil

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		return NewRedisPublisher(client, cfg.Redis.TTL, logger), func() { _ = client.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unknown publish backend %q", cfg.Publish.Backend)
}
