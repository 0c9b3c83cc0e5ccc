package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/watchme/emotion-hume/config"
)

// LoadAWSConfig resolves credentials for S3 and SQS. Static keys win over a shared profile;
// with neither, the SDK default chain applies.
func LoadAWSConfig(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	switch {
	case cfg.HasStaticCredentials():
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	case cfg.Profile != "":
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// NewS3Client builds the S3 client used for presigning. EndpointURL and ForcePathStyle
// support S3-compatible stores such as localstack or MinIO.
func NewS3Client(awsCfg aws.Config, cfg config.AWSConfig) *s3.Client {
	return s3.NewFromConfig(awsCfg, s3ClientOptions(cfg))
}

func s3ClientOptions(cfg config.AWSConfig) func(*s3.Options) {
	return func(o *s3.Options) {
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
	}
}
