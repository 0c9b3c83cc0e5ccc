// Package sqsnotify announces completed emotion analyses on an SQS queue.
package sqsnotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/watchme/emotion-hume/internal/adapters/awserr"
	"github.com/watchme/emotion-hume/internal/domain/model"
)

// ErrQueueURLRequired is returned when no queue URL is configured.
var ErrQueueURLRequired = errors.New("feature completed queue url is required")

type sendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Options configures a Publisher.
type Options struct {
	QueueURL string
	Logger   *slog.Logger
}

// Publisher implements core.CompletionPublisher. Each message is sent once with no retry.
type Publisher struct {
	api      sendMessageAPI
	queueURL string
	logger   *slog.Logger
}

// NewFromConfig builds a Publisher whose SQS client never retries.
// A non-empty endpoint overrides the service endpoint (localstack).
func NewFromConfig(awsCfg aws.Config, endpoint string, opts Options) (*Publisher, error) {
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		o.Retryer = aws.NopRetryer{}
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return New(client, opts)
}

// New builds a Publisher on an existing SendMessage client.
func New(api sendMessageAPI, opts Options) (*Publisher, error) {
	if opts.QueueURL == "" {
		return nil, ErrQueueURLRequired
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		api:      api,
		queueURL: opts.QueueURL,
		logger:   logger.With("component", "sqs_publisher"),
	}, nil
}

// Publish sends msg as a JSON body with feature_type and status message attributes.
func (p *Publisher) Publish(ctx context.Context, msg model.FeatureCompletedMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal feature completed message: %w", err)
	}

	out, err := p.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: messageAttributes(msg),
	})
	if err != nil {
		return awserr.Classify("send feature completed message", err)
	}

	p.logger.InfoContext(ctx, "feature completed notification sent",
		"device_id", msg.DeviceID,
		"recorded_at", msg.RecordedAt,
		"status", msg.Status,
		"message_id", messageID(out),
	)
	return nil
}

// messageAttributes skips empty values, which SQS rejects.
func messageAttributes(msg model.FeatureCompletedMessage) map[string]types.MessageAttributeValue {
	attrs := map[string]types.MessageAttributeValue{}
	for name, v := range map[string]string{"feature_type": msg.FeatureType, "status": msg.Status} {
		if v != "" {
			attrs[name] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
		}
	}
	return attrs
}

func messageID(out *sqs.SendMessageOutput) string {
	if out == nil {
		return ""
	}
	return aws.ToString(out.MessageId)
}
