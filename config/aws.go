package config

import (
	"strings"
	"time"
)

// maxPresignExpiry is the SigV4 ceiling for presigned URLs.
const maxPresignExpiry = 7 * 24 * time.Hour

// AWSConfig configures S3 presigning and the feature-completed SQS queue.
type AWSConfig struct {
	Region          string `env:"AWS_REGION"            envDefault:"ap-southeast-2"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	SessionToken    string `env:"AWS_SESSION_TOKEN"`
	Profile         string `env:"AWS_PROFILE"`
	// EndpointURL overrides the service endpoint (localstack, MinIO).
	EndpointURL string `env:"AWS_ENDPOINT_URL"`

	Bucket         string        `env:"S3_BUCKET_NAME"      envDefault:"watchme-vault"`
	PresignExpiry  time.Duration `env:"S3_PRESIGN_EXPIRY"   envDefault:"1h"`
	ForcePathStyle bool          `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`

	FeatureCompletedQueueURL string `env:"FEATURE_COMPLETED_QUEUE_URL"`
}

// Sanitize applies guardrails to AWS configuration values.
func (c *AWSConfig) Sanitize() {
	c.Region = strings.TrimSpace(c.Region)
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.SecretAccessKey = strings.TrimSpace(c.SecretAccessKey)
	c.Profile = strings.TrimSpace(c.Profile)
	c.EndpointURL = strings.TrimSpace(c.EndpointURL)
	c.Bucket = strings.TrimSpace(c.Bucket)
	c.FeatureCompletedQueueURL = strings.TrimSpace(c.FeatureCompletedQueueURL)
	if c.PresignExpiry <= 0 {
		c.PresignExpiry = time.Hour
	}
	if c.PresignExpiry > maxPresignExpiry {
		c.PresignExpiry = maxPresignExpiry
	}
}

// HasStaticCredentials reports whether both halves of an access key pair are set.
func (c *AWSConfig) HasStaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Enabled reports whether AWS clients should be built: a region plus either static keys or a profile.
func (c *AWSConfig) Enabled() bool {
	return c.Region != "" && (c.HasStaticCredentials() || c.Profile != "")
}

// QueueEnabled reports whether completion messages have somewhere to go.
func (c *AWSConfig) QueueEnabled() bool {
	return c.Enabled() && c.FeatureCompletedQueueURL != ""
}
