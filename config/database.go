package config

import (
	"strings"
	"time"
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	// Enabled turns persistence on; when false the service runs without spot_features writes.
	Enabled  bool   `env:"ENABLED"                 envDefault:"true"`
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"emotion_hume"`
	Password string `env:"PASSWORD"                envDefault:"emotion_hume"`
	Name     string `env:"NAME"                    envDefault:"emotion_hume"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for the per-recording analysis guard.
type RedisConfig struct {
	Enabled            bool     `env:"ENABLED"              envDefault:"false"`
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`

	// LockTTL bounds how long a recording stays claimed. Zero derives it from the poll budget.
	LockTTL    time.Duration `env:"LOCK_TTL"    envDefault:"0"`
	LockPrefix string        `env:"LOCK_PREFIX" envDefault:"emotion-hume:lock"`
}

// Sanitize applies guardrails to Redis configuration values.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.LockTTL < 0 {
		c.LockTTL = 0
	}
	if c.LockPrefix = strings.TrimSpace(c.LockPrefix); c.LockPrefix == "" {
		c.LockPrefix = "emotion-hume:lock"
	}
	if c.UseCluster && len(nonEmpty(c.ClusterNodes)) == 0 {
		c.UseCluster = false
	}
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
