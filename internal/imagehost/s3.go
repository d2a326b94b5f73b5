package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sportsync/internal/config"
	"sportsync/internal/models"
	"sportsync/internal/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ObjectStore is the subset of the S3 client the host needs.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Host is an ImageHost backed by an S3-compatible bucket (AWS S3, R2, MinIO).
type S3Host struct {
	store     ObjectStore
	bucket    string
	publicURL string
	maxBytes  int64
	client    *http.Client
}

// NewS3Host builds the bucket client from configuration.
func NewS3Host(ctx context.Context, cfg *config.Config) (*S3Host, error) {
	if !cfg.ImageHostConfigured() {
		return nil, ErrNotConfigured
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.ImageRegion),
	}
	if cfg.ImageAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.ImageAccessKeyID,
			cfg.ImageSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.ImageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.ImageEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3HostWithStore(client, cfg.ImageBucket, cfg.ImagePublicURL, int64(cfg.ImageMaxUploadSizeMB)*1024*1024), nil
}

// NewS3HostWithStore wires a host around an existing object store.
func NewS3HostWithStore(store ObjectStore, bucket, publicURL string, maxBytes int64) *S3Host {
	return &S3Host{
		store:     store,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (h *S3Host) Upload(ctx context.Context, source, folder string) (string, error) {
	span, ctx := observability.NewSpan(ctx, "imagehost.Upload")
	defer span.End()

	raw, err := readSource(ctx, h.client, source, h.maxBytes)
	if err != nil {
		return "", err
	}
	encoded, err := process(raw)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.webp", folder, uuid.NewString())
	_, err = h.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(encoded),
		ContentType: aws.String("image/webp"),
	})
	observability.ImageHostOperations.WithLabelValues("upload", observability.ResultLabel(err)).Inc()
	if err != nil {
		span.SetError(err)
		return "", models.NewInternalError(fmt.Errorf("failed to upload image: %w", err))
	}

	return h.publicURL + "/" + key, nil
}

func (h *S3Host) Destroy(ctx context.Context, url string) error {
	key, err := KeyFromURL(h.publicURL, url)
	if err != nil {
		return err
	}
	_, err = h.store.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
	observability.ImageHostOperations.WithLabelValues("destroy", observability.ResultLabel(err)).Inc()
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", key, err)
	}
	return nil
}
