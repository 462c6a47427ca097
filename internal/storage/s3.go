package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/reelstream/backend/internal/config"
	"github.com/reelstream/backend/internal/logging"
)

// DefaultUploadURLTTL bounds how long an issued upload locator stays
// valid when configuration does not override it.
const DefaultUploadURLTTL = 30 * time.Minute

// S3Presigner issues time-limited, write-capable upload URLs against an
// S3-compatible object store. Clients upload directly to the bucket; no
// media bytes ever stream through this service.
type S3Presigner struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewS3Presigner configures a presign client targeting the provided
// object store.
func NewS3Presigner(ctx context.Context, cfg config.ObjectStoreConfig) (*S3Presigner, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 presigner: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		loadOpts = append(loadOpts, awsconfig.WithBaseEndpoint(cfg.Endpoint))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	ttl := cfg.UploadURLTTL
	if ttl <= 0 {
		ttl = DefaultUploadURLTTL
	}

	return &S3Presigner{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		ttl:     ttl,
	}, nil
}

// PresignUpload returns a URL that accepts exactly one direct PUT of the
// named object with the given content type, valid for the configured
// window.
func (p *S3Presigner) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", fmt.Errorf("s3 presigner: empty key")
	}

	span := logging.StartSpan(ctx, "s3.presign_upload")
	defer span.End()

	result, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = p.ttl
	})
	if err != nil {
		return "", fmt.Errorf("presign upload %s: %w", key, err)
	}

	return result.URL, nil
}
