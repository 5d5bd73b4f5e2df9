package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"lodgekeep/inquiries/internal/config"
)

// BlobStore is key-addressed binary storage for uploaded documents.
// Put returns the generated object key; Delete of an absent key succeeds so
// cleanup paths can be retried safely.
type BlobStore interface {
	Put(ctx context.Context, keyPrefix, filename, contentType string, body io.Reader) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// s3BlobStore implements BlobStore on AWS S3.
type s3BlobStore struct {
	cfg      *config.Config
	s3Client *s3.Client
}

// NewS3BlobStore creates a BlobStore backed by the configured S3 bucket.
func NewS3BlobStore(cfg *config.Config) (BlobStore, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &s3BlobStore{
		cfg:      cfg,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

// NewS3BlobStoreWithClient wires a BlobStore around an existing S3 client.
func NewS3BlobStoreWithClient(cfg *config.Config, client *s3.Client) BlobStore {
	return &s3BlobStore{cfg: cfg, s3Client: client}
}

// Put uploads a document under keyPrefix and returns the generated key.
// Keys look like "valid_ids/<uuid>_<filename>"; the filename is sanitized so
// user input cannot inject path segments.
func (s *s3BlobStore) Put(ctx context.Context, keyPrefix, filename, contentType string, body io.Reader) (string, error) {
	objectKey := fmt.Sprintf("%s/%s_%s", strings.Trim(keyPrefix, "/"), uuid.NewString(), sanitizeFilename(filename))

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", objectKey, err)
	}
	return objectKey, nil
}

// Get returns a reader over the stored object. The caller must close it.
func (s *s3BlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object %s: %w", key, err)
	}
	return out.Body, nil
}

// Delete removes the stored object. S3 DeleteObject succeeds for absent
// keys, which is exactly the idempotency the cleanup paths rely on.
func (s *s3BlobStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// sanitizeFilename strips any path components and characters that don't
// belong in an object key.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
