package sqsnotify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchme/emotion-hume/internal/domain/model"
	apperrors "github.com/watchme/emotion-hume/internal/errors"
)

type fakeSQS struct {
	sendFunc func(ctx context.Context, in *sqs.SendMessageInput) (*sqs.SendMessageOutput, error)
	calls    []*sqs.SendMessageInput
}

func (f *fakeSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.calls = append(f.calls, in)
	if f.sendFunc != nil {
		return f.sendFunc(ctx, in)
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNew_RequiresQueueURL(t *testing.T) {
	_, err := New(&fakeSQS{}, Options{})
	require.ErrorIs(t, err, ErrQueueURLRequired)
}

func TestPublish_SendsJSONBody(t *testing.T) {
	fake := &fakeSQS{}
	p, err := New(fake, Options{QueueURL: "https://sqs.ap-southeast-2.amazonaws.com/123/feature-completed"})
	require.NoError(t, err)

	msg := model.FeatureCompletedMessage{
		DeviceID:    "dev-1",
		RecordedAt:  "2025-07-01T09:30:00Z",
		FeatureType: model.FeatureTypeEmotion,
		Status:      string(model.StatusCompleted),
		Provider:    model.ProviderHume,
		Segments:    12,
		Timestamp:   "2025-07-01T09:31:02Z",
	}
	require.NoError(t, p.Publish(context.Background(), msg))

	require.Len(t, fake.calls, 1)
	in := fake.calls[0]
	assert.Equal(t, "https://sqs.ap-southeast-2.amazonaws.com/123/feature-completed", aws.ToString(in.QueueUrl))
	assert.JSONEq(t, `{
		"device_id": "dev-1",
		"recorded_at": "2025-07-01T09:30:00Z",
		"feature_type": "emotion",
		"status": "completed",
		"provider": "hume",
		"segments": 12,
		"timestamp": "2025-07-01T09:31:02Z"
	}`, aws.ToString(in.MessageBody))
	assert.Equal(t, "emotion", aws.ToString(in.MessageAttributes["feature_type"].StringValue))
	assert.Equal(t, "completed", aws.ToString(in.MessageAttributes["status"].StringValue))
}

func TestPublish_IncludesErrorOnFailure(t *testing.T) {
	fake := &fakeSQS{}
	p, err := New(fake, Options{QueueURL: "q"})
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), model.FeatureCompletedMessage{
		DeviceID: "dev-1", RecordedAt: "t", FeatureType: "emotion", Status: "failed",
		Provider: "hume", Error: "job job-1: hume job failed",
	}))
	assert.Contains(t, aws.ToString(fake.calls[0].MessageBody), `"error":"job job-1: hume job failed"`)
}

func TestPublish_ClassifiesSendErrors(t *testing.T) {
	fake := &fakeSQS{sendFunc: func(context.Context, *sqs.SendMessageInput) (*sqs.SendMessageOutput, error) {
		return nil, &smithy.GenericAPIError{Code: "AWS.SimpleQueueService.NonExistentQueue", Message: "no queue"}
	}}
	p, err := New(fake, Options{QueueURL: "q"})
	require.NoError(t, err)

	err = p.Publish(context.Background(), model.FeatureCompletedMessage{DeviceID: "d", Status: "completed"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	var apiErr smithy.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Len(t, fake.calls, 1, "publish must not retry")
}
