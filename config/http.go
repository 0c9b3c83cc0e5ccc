package config

import (
	"strconv"
	"strings"
	"time"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to. When empty, ":"+Port is used.
	Addr string `env:"HTTP_ADDR"`

	// Port is the legacy listen port, used only when HTTP_ADDR is unset.
	Port int `env:"API_PORT" envDefault:"8018"`

	// ShutdownTimeout bounds graceful shutdown, including in-flight analyses.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Port <= 0 || h.Port > 65535 {
		h.Port = 8018
	}
	if h.Addr = strings.TrimSpace(h.Addr); h.Addr == "" {
		h.Addr = ":" + strconv.Itoa(h.Port)
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}
