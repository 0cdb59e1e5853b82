// Package s3 stores product images in an S3 bucket.
package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/KartikVerma96/paregrose/internal/storage"
)

type Config struct {
	Bucket        string
	Region        string
	Endpoint      string // optional, for S3-compatible stores
	PublicBaseURL string // optional, e.g. a CDN in front of the bucket
}

type uploader interface {
	Upload(ctx context.Context, input *awss3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type deleter interface {
	DeleteObject(ctx context.Context, input *awss3.DeleteObjectInput, opts ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// Storage implements storage.Storage on S3 using the multipart upload manager.
type Storage struct {
	uploader uploader
	client   deleter
	bucket   string
	baseURL  string
}

// New loads AWS credentials from the default chain.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newStorage(manager.NewUploader(client), client, cfg), nil
}

func newStorage(up uploader, del deleter, cfg Config) *Storage {
	base := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &Storage{uploader: up, client: del, bucket: cfg.Bucket, baseURL: base}
}

func (s *Storage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	_, err := s.uploader.Upload(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(input.Key),
		Body:          input.Data,
		ContentType:   aws.String(input.ContentType),
		ContentLength: aws.Int64(input.Size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload %s: %w", input.Key, err)
	}
	return &storage.UploadResult{Key: input.Key, URL: s.URL(input.Key)}, nil
}

// Delete is idempotent; S3 reports success for missing keys.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *Storage) URL(key string) string {
	return s.baseURL + "/" + key
}
