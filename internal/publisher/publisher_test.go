package publisher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"testing"
	"time"

	"ScheduleSync/internal/config"
	"ScheduleSync/internal/model"
	"ScheduleSync/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var artifact = []byte("[\n  {\n    \"game_id\": \"G1\"\n  }\n]\n")

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func TestS3Publisher(t *testing.T) {
	fake := &fakeS3{}
	ack, err := NewS3Publisher(fake, "timjimmymlbdata", quiet()).Publish(context.Background(), "mlb_schedule/2024-05-01.json", artifact)
	require.NoError(t, err)

	assert.Equal(t, "timjimmymlbdata", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "mlb_schedule/2024-05-01.json", aws.ToString(fake.input.Key))
	assert.Equal(t, "application/json", aws.ToString(fake.input.ContentType))
	assert.Equal(t, artifact, fake.body)
	assert.Equal(t, model.Ack{
		Backend:  BackendS3,
		Name:     "mlb_schedule/2024-05-01.json",
		Location: "s3://timjimmymlbdata/mlb_schedule/2024-05-01.json",
		Version:  `"abc123"`,
	}, ack)
}

func TestS3Publisher_Error(t *testing.T) {
	fake := &fakeS3{err: errors.New("AccessDenied")}
	_, err := NewS3Publisher(fake, "b", quiet()).Publish(context.Background(), "x.json", artifact)
	var pe *model.PublishError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "x.json", pe.Name)
	assert.ErrorContains(t, err, "AccessDenied")
}

type memArtifacts struct {
	rows map[string]*model.ScheduleArtifact
	err  error
}

func (m *memArtifacts) UpsertArtifact(_ context.Context, a *model.ScheduleArtifact) error {
	if m.err != nil {
		return m.err
	}
	if prev, ok := m.rows[a.Name]; ok {
		a.ID = prev.ID
	} else {
		a.ID = uint64(len(m.rows) + 1)
	}
	m.rows[a.Name] = a
	return nil
}

func (m *memArtifacts) GetArtifact(_ context.Context, name string) (*model.ScheduleArtifact, error) {
	a, ok := m.rows[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func TestPostgresPublisher(t *testing.T) {
	repo := &memArtifacts{rows: map[string]*model.ScheduleArtifact{}}
	p := NewPostgresPublisher(repo, quiet())

	ack, err := p.Publish(context.Background(), "2024-05-01.json", artifact)
	require.NoError(t, err)
	sum := sha256.Sum256(artifact)
	assert.Equal(t, hex.EncodeToString(sum[:]), ack.Version)
	assert.Equal(t, BackendPostgres, ack.Backend)

	// republish overwrites the same row
	_, err = p.Publish(context.Background(), "2024-05-01.json", []byte("[]\n"))
	require.NoError(t, err)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "[]\n", string(repo.rows["2024-05-01.json"].Body))
}

func TestPostgresPublisher_Error(t *testing.T) {
	repo := &memArtifacts{rows: map[string]*model.ScheduleArtifact{}, err: errors.New("connection refused")}
	_, err := NewPostgresPublisher(repo, quiet()).Publish(context.Background(), "2024-05-01.json", artifact)
	var pe *model.PublishError
	assert.True(t, errors.As(err, &pe))
}

func TestRedisPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewRedisPublisher(client, 48*time.Hour, quiet())
	ack, err := p.Publish(context.Background(), "mlb_schedule/2024-05-01.json", artifact)
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, ack.Backend)

	got, err := mr.Get("mlb_schedule/2024-05-01.json")
	require.NoError(t, err)
	assert.Equal(t, string(artifact), got)
	assert.Equal(t, 48*time.Hour, mr.TTL("mlb_schedule/2024-05-01.json"))
}

func TestRedisPublisher_NoTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	_, err := NewRedisPublisher(client, 0, quiet()).Publish(context.Background(), "k", artifact)
	require.NoError(t, err)
	assert.Zero(t, mr.TTL("k"))
}

func TestRedisPublisher_Down(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err := NewRedisPublisher(client, 0, quiet()).Publish(context.Background(), "k", artifact)
	var pe *model.PublishError
	assert.True(t, errors.As(err, &pe))
}

func TestNew_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Publish: config.PublishConfig{Backend: BackendRedis},
		Redis:   config.RedisConfig{Addr: mr.Addr()},
	}
	pub, closeFn, err := New(context.Background(), cfg, nil, quiet())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &RedisPublisher{}, pub)
}

func TestNew_PostgresNeedsDB(t *testing.T) {
	cfg := &config.Config{Publish: config.PublishConfig{Backend: BackendPostgres}}
	_, _, err := New(context.Background(), cfg, nil, quiet())
	assert.Error(t, err)
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Publish: config.PublishConfig{Backend: "ftp"}}
	_, _, err := New(context.Background(), cfg, nil, quiet())
	assert.ErrorContains(t, err, "ftp")
}
