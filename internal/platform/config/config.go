// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config loads the server settings from the environment with
caarlos0/env.

Only DATABASE_URL, REDIS_URL and the two JWT key paths are required.
Everything else has a default suited to local development; object storage
stays off until S3_BUCKET is set.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Comunidad API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL      string `env:"DATABASE_URL,required,notEmpty"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	DatabaseMinConns int32  `env:"DATABASE_MIN_CONNS" envDefault:"2"`

	// MigrationPath overrides the embedded SQL migrations with a directory.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// RoleCacheTTL bounds how long a user's resolved roles stay in Redis.
	// Assignments and role edits invalidate the entry eagerly.
	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL" envDefault:"5m"`

	// Cryptographic keys for session signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required,notEmpty"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`

	// CookieSecure marks session cookies as HTTPS-only. Forced on in production.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`

	// Object Storage (S3-compatible) for shared files
	S3Bucket       string        `env:"S3_BUCKET"`
	S3Region       string        `env:"S3_REGION"         envDefault:"auto"`
	S3Endpoint     string        `env:"S3_ENDPOINT"`
	S3AccessKey    string        `env:"S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"S3_SECRET_KEY"`
	S3UsePathStyle bool          `env:"S3_USE_PATH_STYLE" envDefault:"false"`
	S3PresignTTL   time.Duration `env:"S3_PRESIGN_TTL"    envDefault:"15m"`

	// CORSAllowedOrigins lists the browser origins trusted outside development.
	// "https://*.comunidad.org" trusts every subdomain.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://comunidad.org,https://*.comunidad.org"`

	// Observability
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// # Configuration Loading

// maxPresignTTL is the longest lifetime S3 accepts for a SigV4 presigned URL.
const maxPresignTTL = 7 * 24 * time.Hour

// Load parses the environment into a [Config] and checks the values the
// tags cannot express. Production always forces secure cookies.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if cfg.IsProduction() {
		cfg.CookieSecure = true
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []error

	if c.RoleCacheTTL <= 0 {
		problems = append(problems, errors.New("ROLE_CACHE_TTL must be positive"))
	}
	if c.StorageEnabled() && (c.S3PresignTTL < time.Minute || c.S3PresignTTL > maxPresignTTL) {
		problems = append(problems, fmt.Errorf("S3_PRESIGN_TTL must be between 1m and %s", maxPresignTTL))
	}
	if c.StorageEnabled() && (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		problems = append(problems, errors.New("S3_ACCESS_KEY and S3_SECRET_KEY must be set together"))
	}
	if c.IsProduction() && len(c.CORSAllowedOrigins) == 0 {
		problems = append(problems, errors.New("CORS_ALLOWED_ORIGINS is required in production"))
	}

	return errors.Join(problems...)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// StorageEnabled reports whether an object storage bucket is configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}

// AllowAnyOrigin reports whether CORS echoes every origin.
func (c *Config) AllowAnyOrigin() bool {
	return c.IsDevelopment()
}

// TrustedOrigins returns the CORS allow list.
func (c *Config) TrustedOrigins() []string {
	return c.CORSAllowedOrigins
}
