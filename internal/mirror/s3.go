// Package mirror fires optional, best-effort side effects after a
// snapshot has been written to disk: uploading the dump to S3 and
// publishing a completion event to NATS. Neither can fail a save;
// errors are logged and swallowed.
package mirror

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
)

// S3Config configures the optional post-snapshot upload. Bucket is the
// only required field; an empty Bucket means S3 mirroring is disabled.
type S3Config struct {
	Endpoint     string
	Bucket       string
	Key          string
	AccessKey    string
	SecretKey    string
	Region       string
	UsePathStyle bool
}

// S3Mirror uploads the dump file to an S3-compatible bucket after every
// successful snapshot.
type S3Mirror struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Mirror builds an S3Mirror, or returns (nil, nil) if cfg.Bucket
// is empty, the off-by-default state.
func NewS3Mirror(cfg S3Config) (*S3Mirror, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("S3 mirror: load AWS config: %w", err)
	}

	opts := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}

	key := cfg.Key
	if key == "" {
		key = "respd.dump"
	}

	return &S3Mirror{
		client: s3.NewFromConfig(awsCfg, opts),
		bucket: cfg.Bucket,
		key:    key,
	}, nil
}

// Upload reads localPath and puts its contents to the configured
// bucket/key. Callers are expected to log, not propagate, failures.
func (m *S3Mirror) Upload(ctx context.Context, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("S3 mirror: read %q: %w", localPath, err)
	}

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(m.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("S3 mirror: put object %q: %w", m.key, err)
	}
	return nil
}

// UploadAsync runs Upload in its own goroutine and logs any failure,
// matching the fire-and-log-on-error contract every snapshot side
// effect follows.
func (m *S3Mirror) UploadAsync(localPath string) {
	if m == nil {
		return
	}
	go func() {
		if err := m.Upload(context.Background(), localPath); err != nil {
			cclog.Warnf("respd: %s", err.Error())
		}
	}()
}
