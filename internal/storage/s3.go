package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"lingoclass/internal/config"
)

// Uploader stores an opaque blob and returns a public URL for it. Essay
// answer photos, payment screenshots and profile images all go through it.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type s3Uploader struct {
	svc    *s3.S3
	bucket string
	region string
}

// NewS3Uploader creates an Uploader backed by S3.
func NewS3Uploader(cfg *config.Config) (Uploader, error) {
	if cfg.AWSAccessKey == "" || cfg.AWSSecretKey == "" {
		return nil, fmt.Errorf("AWS credentials not set in environment")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &s3Uploader{
		svc:    s3.New(sess),
		bucket: cfg.S3Bucket,
		region: cfg.AWSRegion,
	}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, body); err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}

	_, err := u.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}
