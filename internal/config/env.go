package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig lists the GROCER_* environment variables. Unset variables leave
// the current value untouched.
type EnvConfig struct {
	DatabaseDriver               string         `env:"GROCER_DATABASE_DRIVER"`
	DatabaseDSN                  string         `env:"GROCER_DATABASE_DSN"`
	LedgerBackend                string         `env:"GROCER_LEDGER_BACKEND"`
	S3RootUser                   string         `env:"GROCER_S3_ROOT_USER"`
	S3RootPassword               string         `env:"GROCER_S3_ROOT_PASSWORD"`
	S3Bucket                     string         `env:"GROCER_S3_BUCKET"`
	S3Region                     string         `env:"GROCER_S3_REGION"`
	S3BaseEndpoint               string         `env:"GROCER_S3_BASE_ENDPOINT"`
	SecretKey                    string         `env:"GROCER_SECRET_KEY"`
	SessionTokenValidityDuration *time.Duration `env:"GROCER_SESSION_TOKEN_VALIDITY"`
	RecoveryMode                 string         `env:"GROCER_RECOVERY_MODE"`
	RecoveryCodeValidityDuration *time.Duration `env:"GROCER_RECOVERY_CODE_VALIDITY"`
	PasswordHashCost             *int           `env:"GROCER_PASSWORD_HASH_COST"`
	MinPasswordLength            *int           `env:"GROCER_MIN_PASSWORD_LENGTH"`
	LogLevel                     string         `env:"GROCER_LOG_LEVEL"`
}

// parseEnv overlays GROCER_* environment variables onto config.
func parseEnv(config *Config) error {
	c := &EnvConfig{}
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LedgerBackend, c.LedgerBackend)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RecoveryMode, c.RecoveryMode)
	setString(&config.LogLevel, c.LogLevel)

	if c.SessionTokenValidityDuration != nil {
		config.SessionTokenValidityDuration = *c.SessionTokenValidityDuration
	}
	if c.RecoveryCodeValidityDuration != nil {
		config.RecoveryCodeValidityDuration = *c.RecoveryCodeValidityDuration
	}
	if c.PasswordHashCost != nil {
		config.PasswordHashCost = *c.PasswordHashCost
	}
	if c.MinPasswordLength != nil {
		config.MinPasswordLength = *c.MinPasswordLength
	}

	return nil
}
