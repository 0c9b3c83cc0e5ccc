package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that also accepts a bare number of seconds ("3", "1.5").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*d = 0
		return nil
	}
	if parsed, err := time.ParseDuration(s); err == nil {
		*d = Duration(parsed)
		return nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// HumeConfig configures the Hume batch API client.
type HumeConfig struct {
	APIKey string `env:"API_KEY"`
	// SecretKey is accepted for parity with Hume credentials; the batch API only needs APIKey.
	SecretKey string `env:"SECRET_KEY"`
	BaseURL   string `env:"BASE_URL"   envDefault:"https://api.hume.ai/v0/batch"`

	PollInterval        Duration `env:"POLL_INTERVAL"        envDefault:"3s"`
	MaxPollAttempts     int      `env:"MAX_POLL_ATTEMPTS"    envDefault:"40"`
	ConfidenceThreshold float64  `env:"CONFIDENCE_THRESHOLD" envDefault:"0.5"`
	Language            string   `env:"LANGUAGE"             envDefault:"ja"`

	StatusRetryAttempts int           `env:"STATUS_RETRY_ATTEMPTS" envDefault:"3"`
	StatusRetryMin      time.Duration `env:"STATUS_RETRY_MIN"      envDefault:"2s"`
	StatusRetryMax      time.Duration `env:"STATUS_RETRY_MAX"      envDefault:"10s"`
}

// Sanitize applies guardrails to Hume configuration values.
func (c *HumeConfig) Sanitize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = "https://api.hume.ai/v0/batch"
	}
	if c.PollInterval < 0 {
		c.PollInterval = Duration(3 * time.Second)
	}
	if c.MaxPollAttempts < 1 {
		c.MaxPollAttempts = 40
	}
	c.ConfidenceThreshold = min(max(c.ConfidenceThreshold, 0), 1)
	if c.Language = strings.TrimSpace(c.Language); c.Language == "" {
		c.Language = "ja"
	}
	if c.StatusRetryAttempts < 1 {
		c.StatusRetryAttempts = 1
	}
	if c.StatusRetryMin < 0 {
		c.StatusRetryMin = 0
	}
	if c.StatusRetryMax < c.StatusRetryMin {
		c.StatusRetryMax = c.StatusRetryMin
	}
}

// Enabled reports whether an API key is configured.
func (c *HumeConfig) Enabled() bool {
	return c.APIKey != ""
}
