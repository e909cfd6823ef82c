package receipts

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gymkeeper/internal/netx"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

const presignTTL = 15 * time.Minute

type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string // MinIO or another S3-compatible endpoint; empty means AWS
	AccessKey    string
	SecretKey    string
}

// S3Sink uploads receipts through presigned PUT URLs.
type S3Sink struct {
	cfg  S3Config
	http *http.Client
	now  func() time.Time

	mu     sync.Mutex
	client *s3.PresignClient
}

func NewS3Sink(cfg S3Config, httpClient *http.Client) *S3Sink {
	return &S3Sink{cfg: cfg, http: httpClient, now: time.Now}
}

// presignClient builds the client on first use and caches it. A failed build
// is not cached, so the next Save tries again.
func (s *S3Sink) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(s.cfg.Region)}
	if s.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.cfg.AccessKey, s.cfg.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	s.client = newS3PresignClient(client)
	return s.client, nil
}

// objectKey spreads receipts by day: receipts/2024/1/15/<uuid>-<name>.
func (s *S3Sink) objectKey(name string) string {
	d := s.now()
	return fmt.Sprintf("receipts/%d/%d/%d/%s-%s", d.Year(), d.Month(), d.Day(), uuid.New(), name)
}

func (s *S3Sink) Save(ctx context.Context, name string, data []byte) (string, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 config error: %w", err)
	}

	bucket := s.cfg.Bucket
	key := s.objectKey(name)

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign error: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, s.http, req.URL, "text/plain; charset=utf-8", data); err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}
