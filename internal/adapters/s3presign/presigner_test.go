package s3presign

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/watchme/emotion-hume/internal/errors"
)

func newOfflinePresigner() *Presigner {
	client := s3.New(s3.Options{
		Region:       "ap-southeast-2",
		Credentials:  credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		UsePathStyle: true,
	})
	return New(client)
}

func TestPresignGetURL(t *testing.T) {
	p := newOfflinePresigner()

	raw, err := p.PresignGetURL(context.Background(), "watchme-vault", "files/dev-1/2025-07-01/09-30/audio.wav", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.True(t, strings.HasSuffix(u.Path, "/watchme-vault/files/dev-1/2025-07-01/09-30/audio.wav"), u.Path)

	q := u.Query()
	assert.Equal(t, "3600", q.Get("X-Amz-Expires"))
	assert.Equal(t, "AWS4-HMAC-SHA256", q.Get("X-Amz-Algorithm"))
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
	assert.Contains(t, q.Get("X-Amz-Credential"), "AKIDEXAMPLE")
}

func TestPresignGetURL_Validation(t *testing.T) {
	p := newOfflinePresigner()

	tests := []struct {
		name      string
		bucket    string
		key       string
		expiry    time.Duration
		wantField string
	}{
		{name: "missing bucket", bucket: "", key: "a.wav", expiry: time.Hour, wantField: "bucket"},
		{name: "missing key", bucket: "b", key: " ", expiry: time.Hour, wantField: "file_path"},
		{name: "zero expiry", bucket: "b", key: "a.wav", expiry: 0, wantField: "expiry"},
		{name: "expiry too long", bucket: "b", key: "a.wav", expiry: 8 * 24 * time.Hour, wantField: "expiry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.PresignGetURL(context.Background(), tt.bucket, tt.key, tt.expiry)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.wantField, apperrors.GetField(err))
		})
	}
}
