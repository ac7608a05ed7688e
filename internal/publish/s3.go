// Package publish mirrors written wallpapers to remote storage.
package publish

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/i474232898/live-wallpaper/internal/imagery"
	"github.com/i474232898/live-wallpaper/internal/wallpaper"
)

// S3Config describes an S3-compatible destination (AWS, MinIO).
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
}

// S3API is the subset of the S3 client the publisher uses.
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads the composite to a fixed object key, overwriting it each run.
type S3Publisher struct {
	client S3API
	bucket string
	key    string
}

var _ wallpaper.Publisher = (*S3Publisher)(nil)

// NewS3Client builds an S3 client. A custom endpoint switches to path-style
// addressing, which MinIO requires.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Publisher creates a new S3Publisher.
func NewS3Publisher(client S3API, bucket, key string) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, key: key}
}

func (p *S3Publisher) Name() string {
	return "s3://" + p.bucket + "/" + p.key
}

// EnsureBucket creates the bucket when it does not exist yet.
func (p *S3Publisher) EnsureBucket(ctx context.Context) error {
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(p.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = p.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(p.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
	}
	log.Printf("publish: created bucket %s", p.bucket)
	return nil
}

// Publish uploads the run's output file.
func (p *S3Publisher) Publish(ctx context.Context, rec wallpaper.RunRecord) error {
	f, err := os.Open(rec.OutputPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", rec.OutputPath, err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(rec.OutputPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(p.key),
		Body:        f,
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"satellite":  rec.Satellite,
			"image-time": imagery.FormatTimestamp(rec.ImageTime),
			"run-id":     rec.ID,
		},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", p.Name(), err)
	}

	log.Printf("publish: uploaded %s", p.Name())
	return nil
}
