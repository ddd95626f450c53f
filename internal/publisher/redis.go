package publisher

import (
	"context"
	"time"

	"ScheduleSync/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisPublisher SET name data, with an optional expiry
type RedisPublisher struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisPublisher ttl 0 keeps the key until it is overwritten
func NewRedisPublisher(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, ttl: ttl, logger: logger}
}

func (p *RedisPublisher) Publish(ctx context.Context, name string, data []byte) (model.Ack, error) {
	if err := p.client.Set(ctx, name, data, p.ttl).Err(); err != nil {
		return model.Ack{}, &model.PublishError{Name: name, Err: err}
	}
	p.logger.WithFields(logrus.Fields{"key": name, "ttl": p.ttl, "bytes": len(data)}).Info("artifact cached")
	return model.Ack{
		Backend:  BackendRedis,
		Name:     name,
		Location: "redis://" + p.client.Options().Addr + "/" + name,
	}, nil
}
