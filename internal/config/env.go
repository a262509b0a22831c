package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the environment variables that take precedence over
// the YAML file. Unset variables leave the file value alone.
type envOverrides struct {
	Port             int           `env:"CMS_PORT"`
	Env              string        `env:"CMS_ENV"`
	DatabaseDriver   string        `env:"CMS_DB_DRIVER"`
	DSN              string        `env:"CMS_DSN"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	RedisURL         string        `env:"CMS_REDIS_URL"`
	JWTSecret        string        `env:"JWT_SECRET"`
	FrontendURL      string        `env:"FRONTEND_URL"`
	AllowedOrigins   []string      `env:"CMS_ALLOWED_ORIGINS" envSeparator:","`
	Timezone         string        `env:"TZ"`
	AutoMigrate      *bool         `env:"CMS_AUTO_MIGRATE"`
	TokenTTL         time.Duration `env:"CMS_TOKEN_TTL"`
	AllowAdminSignup *bool         `env:"CMS_ALLOW_ADMIN_SIGNUP"`
	LogDir           string        `env:"CMS_LOG_DIR"`
	S3               s3Overrides   `envPrefix:"CMS_S3_"`
}

type s3Overrides struct {
	Endpoint        string `env:"ENDPOINT"`
	Region          string `env:"REGION"`
	Bucket          string `env:"BUCKET"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	CustomDomain    string `env:"CUSTOM_DOMAIN"`
	PathStyle       *bool  `env:"PATH_STYLE"`
	Prefix          string `env:"PREFIX"`
}

func applyEnvOverrides(cfg *AppConfig) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return err
	}

	if o.Port != 0 {
		cfg.Port = o.Port
	}
	if v := strings.TrimSpace(o.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(o.DatabaseDriver); v != "" {
		cfg.Database.Driver = v
	}
	if v := strings.TrimSpace(o.DatabaseURL); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(o.DSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(o.RedisURL); v != "" {
		cfg.Redis.URL = v
	}
	if v := strings.TrimSpace(o.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	switch {
	case len(o.AllowedOrigins) > 0:
		cfg.AllowedOrigins = o.AllowedOrigins
	case strings.TrimSpace(o.FrontendURL) != "":
		cfg.AllowedOrigins = []string{o.FrontendURL}
	}
	if v := strings.TrimSpace(o.Timezone); v != "" {
		cfg.Timezone = v
	}
	if o.AutoMigrate != nil {
		cfg.AutoMigrate = *o.AutoMigrate
	}
	if o.TokenTTL != 0 {
		cfg.Auth.TokenTTL = o.TokenTTL
	}
	if o.AllowAdminSignup != nil {
		cfg.Auth.AllowAdminSignup = *o.AllowAdminSignup
	}
	if v := strings.TrimSpace(o.LogDir); v != "" {
		cfg.Paths.Logs = v
	}

	s3 := o.S3
	if s3.Endpoint != "" {
		cfg.Media.Endpoint = s3.Endpoint
	}
	if s3.Region != "" {
		cfg.Media.Region = s3.Region
	}
	if s3.Bucket != "" {
		cfg.Media.Bucket = s3.Bucket
	}
	if s3.AccessKeyID != "" {
		cfg.Media.AccessKeyID = s3.AccessKeyID
	}
	if s3.SecretAccessKey != "" {
		cfg.Media.SecretAccessKey = s3.SecretAccessKey
	}
	if s3.CustomDomain != "" {
		cfg.Media.CustomDomain = s3.CustomDomain
	}
	if s3.PathStyle != nil {
		cfg.Media.PathStyle = *s3.PathStyle
	}
	if s3.Prefix != "" {
		cfg.Media.Prefix = s3.Prefix
	}
	return nil
}
