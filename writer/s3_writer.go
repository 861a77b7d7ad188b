package writer

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "hyperflow/config"
	"hyperflow/logger"
)

// S3Publisher uploads the artifact document to the bucket the static viewer
// is served from. Publishing is best-effort: the local artifact has already
// been replaced atomically by the time Publish runs.
type S3Publisher struct {
	config   *appconfig.Config
	s3Client *s3.Client
	bucket   string
	key      string
	log      *logger.Log
}

// NewS3Publisher creates a publisher when S3 storage is enabled. When it is
// disabled the returned publisher is nil and publishing is a no-op.
func NewS3Publisher(cfg *appconfig.Config) (*S3Publisher, error) {
	if !cfg.Storage.S3.Enabled {
		return nil, nil
	}

	log := logger.GetLogger()
	ctx := context.Background()

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Storage.S3.Region)}
	if cfg.Storage.S3.AccessKeyID != "" && cfg.Storage.S3.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Storage.S3.AccessKeyID,
				cfg.Storage.S3.SecretAccessKey,
				"",
			),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.WithComponent("s3_publisher").WithError(err).Warn("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	key := cfg.Storage.S3.Key
	if key == "" {
		key = path.Base(cfg.Writer.OutputPath)
	}

	publisher := &S3Publisher{
		config:   cfg,
		s3Client: s3.NewFromConfig(awsConfig),
		bucket:   cfg.Storage.S3.Bucket,
		key:      key,
		log:      log,
	}

	log.WithComponent("s3_publisher").WithFields(logger.Fields{
		"bucket": publisher.bucket,
		"key":    publisher.key,
		"region": cfg.Storage.S3.Region,
	}).Info("s3 publisher initialized")

	return publisher, nil
}

// Publish uploads the encoded artifact. Errors are returned for the caller
// to log as warnings; they never fail the run.
func (p *S3Publisher) Publish(ctx context.Context, data []byte) error {
	if p == nil {
		return nil
	}

	_, err := p.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(p.key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return fmt.Errorf("upload artifact to s3://%s/%s: %w", p.bucket, p.key, err)
	}

	p.log.WithComponent("s3_publisher").WithFields(logger.Fields{
		"bucket": p.bucket,
		"key":    p.key,
		"bytes":  len(data),
	}).Info("artifact published")

	return nil
}
