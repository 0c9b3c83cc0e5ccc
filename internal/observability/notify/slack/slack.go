// Package slack posts analysis failure alerts to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/watchme/emotion-hume/internal/observability/notify"
)

const maxErrorBody = 2 << 10

// Config captures the subset of Slack webhook behaviour we need.
type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client delivers analysis failure alerts to a Slack webhook.
type Client struct {
	webhookURL string
	channel    string
	username   string
	retryLimit int
	client     *http.Client
}

var _ notify.Sink = (*Client)(nil)

// NewClient builds a Slack webhook client.
func NewClient(cfg Config) (*Client, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, errors.New("slack webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		username = "emotion-hume"
	}

	return &Client{
		webhookURL: webhookURL,
		channel:    strings.TrimSpace(cfg.Channel),
		username:   username,
		retryLimit: max(cfg.RetryLimit, 0),
		client:     hc,
	}, nil
}

// SendAnalysisFailure posts a formatted alert, retrying with linear backoff.
func (c *Client) SendAnalysisFailure(ctx context.Context, payload notify.AnalysisFailurePayload) error {
	body, err := json.Marshal(c.formatMessage(payload))
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		if lastErr = c.post(ctx, body); lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * 200 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

type slackMessage struct {
	Text     string `json:"text"`
	Username string `json:"username"`
	Channel  string `json:"channel,omitempty"`
}

func (c *Client) formatMessage(p notify.AnalysisFailurePayload) slackMessage {
	var text strings.Builder
	text.WriteString("*Emotion analysis failed*")
	if p.DeviceID != "" {
		fmt.Fprintf(&text, " `%s`", escape(p.DeviceID))
	}
	if p.RecordedAt != "" {
		fmt.Fprintf(&text, " @ %s", escape(p.RecordedAt))
	}
	text.WriteByte('\n')

	severity := p.Severity
	if severity == "" {
		severity = notify.SeverityCritical
	}
	field(&text, "Severity", severity)
	field(&text, "Stage", p.Stage)
	field(&text, "File", escape(p.FilePath))
	field(&text, "Hume job", p.JobID)
	field(&text, "Error class", p.ErrorClass)
	field(&text, "Error", escape(p.Error))

	if len(p.Metadata) > 0 {
		text.WriteString("• Metadata:\n")
		for _, k := range slices.Sorted(maps.Keys(p.Metadata)) {
			fmt.Fprintf(&text, "    • %s: %s\n", k, escape(p.Metadata[k]))
		}
	}

	ts := p.OccurredAt
	if ts.IsZero() {
		ts = time.Now()
	}
	text.WriteString("• Timestamp: ")
	text.WriteString(ts.UTC().Format(time.RFC3339))

	return slackMessage{Text: text.String(), Username: c.username, Channel: c.channel}
}

func field(text *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	text.WriteString("• ")
	text.WriteString(label)
	text.WriteString(": ")
	text.WriteString(value)
	text.WriteByte('\n')
}

var slackEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(value string) string {
	return slackEscaper.Replace(value)
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("slack webhook %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("drain slack response body: %w", err)
	}
	return nil
}
