// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the server.
type Config struct {
	Addr     string `env:"HEARTH_ADDR" envDefault:":8080"`
	DBPath   string `env:"HEARTH_DB_PATH" envDefault:"hearth.db"`
	LogLevel string `env:"HEARTH_LOG_LEVEL" envDefault:"info"`
	LogFmt   string `env:"HEARTH_LOG_FORMAT" envDefault:"text"`

	// Timezone pins the notification schedule so reminder windows follow
	// household wall-clock time.
	Timezone string `env:"HEARTH_TIMEZONE" envDefault:"Local"`

	JWTSecret string        `env:"HEARTH_JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"HEARTH_TOKEN_TTL" envDefault:"720h"`

	VAPIDPublicKey  string `env:"HEARTH_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"HEARTH_VAPID_PRIVATE_KEY"`
	PushSubscriber  string `env:"HEARTH_PUSH_SUBSCRIBER"`

	S3Endpoint      string `env:"HEARTH_S3_ENDPOINT"`
	S3Bucket        string `env:"HEARTH_S3_BUCKET"`
	S3Region        string `env:"HEARTH_S3_REGION" envDefault:"auto"`
	S3AccessKey     string `env:"HEARTH_S3_ACCESS_KEY"`
	S3SecretKey     string `env:"HEARTH_S3_SECRET_KEY"`
	S3PublicBaseURL string `env:"HEARTH_S3_PUBLIC_BASE_URL"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
