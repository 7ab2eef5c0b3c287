package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3Bucket.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures an S3Bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for S3-compatible stores; implies path-style URLs
	PublicURL string // optional base URL objects are served from (CDN)
	AccessKey string
	SecretKey string
}

// S3Bucket stores objects in an S3 (or S3-compatible) bucket.
type S3Bucket struct {
	client    S3API
	bucket    string
	publicURL string
}

// NewS3Bucket loads AWS configuration (static keys when given, otherwise the
// default credential chain) and returns a bucket client.
func NewS3Bucket(ctx context.Context, cfg S3Config) (*S3Bucket, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: S3 bucket name is required")
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3BucketWithClient(client, cfg), nil
}

// NewS3BucketWithClient wraps an existing client.
func NewS3BucketWithClient(client S3API, cfg S3Config) *S3Bucket {
	return &S3Bucket{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBase(cfg),
	}
}

func publicBase(cfg S3Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimSuffix(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Upload puts body under objectPath.
func (b *S3Bucket) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) error {
	p, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(p),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", p, err)
	}
	return nil
}

// PublicURL returns the object URL under the configured public base.
func (b *S3Bucket) PublicURL(objectPath string) string {
	segments := strings.Split(strings.TrimPrefix(objectPath, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return b.publicURL + "/" + strings.Join(segments, "/")
}

// Delete removes objectPath from the bucket.
func (b *S3Bucket) Delete(ctx context.Context, objectPath string) error {
	p, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}
	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(p),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", p, err)
	}
	return nil
}

// Backend returns "s3".
func (b *S3Bucket) Backend() string { return "s3" }
