package publisher

import (
	"bytes"
	"context"
	"fmt"

	"ScheduleSync/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

const (
	BackendS3       = "s3"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	contentTypeJSON = "application/json"
)

// PutObjectAPI the slice of the S3 client the publisher needs
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher writes each artifact as one object; PutObject replaces any
// existing object under the same key.
type S3Publisher struct {
	client PutObjectAPI
	bucket string
	logger *logrus.Logger
}

func NewS3Publisher(client PutObjectAPI, bucket string, logger *logrus.Logger) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, logger: logger}
}

func (p *S3Publisher) Publish(ctx context.Context, name string, data []byte) (model.Ack, error) {
	out, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentTypeJSON),
	})
	if err != nil {
		return model.Ack{}, &model.PublishError{Name: name, Err: fmt.Errorf("s3 put %s/%s: %w", p.bucket, name, err)}
	}
	ack := model.Ack{
		Backend:  BackendS3,
		Name:     name,
		Location: fmt.Sprintf("s3://%s/%s", p.bucket, name),
		Version:  aws.ToString(out.ETag),
	}
	p.logger.WithFields(logrus.Fields{"location": ack.Location, "etag": ack.Version, "bytes": len(data)}).Info("artifact uploaded")
	return ack, nil
}
