// Package s3presign issues presigned S3 download URLs for recordings.
package s3presign

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/watchme/emotion-hume/internal/adapters/awserr"
	apperrors "github.com/watchme/emotion-hume/internal/errors"
)

// MaxExpiry is the longest lifetime SigV4 allows for a presigned URL.
const MaxExpiry = 7 * 24 * time.Hour

// Presigner implements core.URLSigner on top of the S3 presign client.
type Presigner struct {
	client *s3.PresignClient
}

// New wraps an S3 client.
func New(client *s3.Client) *Presigner {
	return &Presigner{client: s3.NewPresignClient(client)}
}

// PresignGetURL returns a GET URL for bucket/key that stays valid for expiry.
func (p *Presigner) PresignGetURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if strings.TrimSpace(bucket) == "" {
		return "", apperrors.ValidationField("bucket", "bucket is required")
	}
	if strings.TrimSpace(key) == "" {
		return "", apperrors.ValidationField("file_path", "object key is required")
	}
	if expiry <= 0 || expiry > MaxExpiry {
		return "", apperrors.ValidationField("expiry", "presign expiry must be between 1s and 7 days")
	}

	req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", awserr.Classify("presign audio url", err)
	}
	return req.URL, nil
}
