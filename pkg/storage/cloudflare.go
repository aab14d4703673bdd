package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config configures the bucket client. Endpoint overrides the R2
// endpoint, e.g. for MinIO or AWS S3.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
	Endpoint        string
	Region          string
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// CloudflareStorage stores photos in an R2 (S3 compatible) bucket. Locators
// are absolute public URLs: <public_url>/photos/<key>.
type CloudflareStorage struct {
	client    objectAPI
	bucket    string
	publicURL string
}

func NewCloudflareStorage(ctx context.Context, cfg R2Config) (*CloudflareStorage, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.Endpoint != ""
	})

	return newCloudflareStorage(client, cfg.Bucket, cfg.PublicURL), nil
}

func newCloudflareStorage(client objectAPI, bucket, publicURL string) *CloudflareStorage {
	return &CloudflareStorage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

func (s *CloudflareStorage) Store(ctx context.Context, data []byte, key string, contentType string) (string, error) {
	objectKey := "photos/" + key
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return s.publicURL + "/" + objectKey, nil
}

func (s *CloudflareStorage) Remove(ctx context.Context, locator string) error {
	objectKey, err := s.objectKey(locator)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}
	return nil
}

// objectKey recovers the bucket key from a public URL, ignoring query
// strings and any path the public URL itself carries.
func (s *CloudflareStorage) objectKey(locator string) (string, error) {
	base, err := url.Parse(s.publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid public url: %w", err)
	}
	u, err := url.Parse(locator)
	if err != nil || !u.IsAbs() || u.Host != base.Host {
		return "", unknownLocator(locator)
	}
	key, ok := strings.CutPrefix(u.Path, strings.TrimSuffix(base.Path, "/")+"/")
	if !ok || key == "" {
		return "", unknownLocator(locator)
	}
	return key, nil
}
