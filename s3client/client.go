package s3client

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"text2phenotype.com/postagger/logger"
)

type EnvironmentConfig struct {
	BucketName  string `envconfig:"TAGGER_S3_BUCKET" required:"true"`
	Region      string `envconfig:"TAGGER_AWS_REGION" required:"true"`
	Env         string `envconfig:"TAGGER_ENV" default:"prod"`
	AwsEndpoint string `envconfig:"TAGGER_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"TAGGER_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"TAGGER_AWS_ACCESS_KEY" default:""`
}

type Client struct {
	bucketName string
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
	log        zerolog.Logger
}

var sdkLogger = logger.NewLogger("S3-SDK")

func New() (*Client, error) {
	clientLogger := logger.NewLogger("S3Client")
	var env EnvironmentConfig
	if err := envconfig.Process("", &env); err != nil {
		clientLogger.Err(err).Caller().Msg("Failed to get proper variables from environment")
		return nil, err
	}

	sess, err := session.NewSession(awsConfig(env))
	if err != nil {
		clientLogger.Err(err).Msg("Could not initialize S3 session")
		return nil, err
	}
	clientLogger.Info().Str("bucket", env.BucketName).Msg("S3 session initialized")
	return &Client{
		bucketName: env.BucketName,
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
		log:        clientLogger,
	}, nil
}

// awsConfig uses static credentials when they are set in the environment and
// the default provider chain otherwise. A custom endpoint is honored in dev only.
func awsConfig(env EnvironmentConfig) *aws.Config {
	cfg := aws.NewConfig().
		WithRegion(env.Region).
		WithMaxRetries(4).
		WithLogger(s3Logger{sdkLogger}).
		WithLogLevel(aws.LogDebug)
	if env.AccessKeyID != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(env.AccessKeyID, env.AccessKey, ""))
	}
	if env.Env == "dev" && env.AwsEndpoint != "" {
		cfg = cfg.WithEndpoint(env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return cfg
}

func (client *Client) Upload(ctx context.Context, data string, key string) error {
	client.log.Debug().Str("key", key).Msg("Uploading the file")
	_, err := client.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(client.bucketName),
		Key:         aws.String(key),
		Body:        strings.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (client *Client) Download(ctx context.Context, key string) ([]byte, error) {
	buf := aws.NewWriteAtBuffer([]byte{})
	size, err := client.downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(client.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		client.log.Err(err).Str("key", key).Msg("Failed to download file")
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	client.log.Debug().Str("key", key).Msgf("Downloaded %v bytes", size)
	return buf.Bytes(), nil
}

type s3Logger struct {
	log zerolog.Logger
}

func (l s3Logger) Log(v ...interface{}) {
	l.log.Debug().Msg(fmt.Sprint(v...))
}
