// Package config handles configuration for grocer, including defaults, a
// JSON overlay, GROCER_* environment variables and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/dmitrijs2005/grocer/internal/models"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	LedgerBackendSQL = "sql"
	LedgerBackendS3  = "s3"

	RecoveryModeAnswer = "answer"
	RecoveryModeCode   = "code"
)

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDriver / DatabaseDSN: credential and ledger database (sqlite file or pgx DSN).
//   - LedgerBackend: "sql" keeps ledgers in the database, "s3" keeps one JSON document per user.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - SecretKey: HMAC secret for session tokens (HS256). Do not use the default in prod.
//   - SessionTokenValidityDuration: lifetime of a session token.
//   - RecoveryMode: "answer" accepts any non-empty recovery answer, "code" requires
//     a one-time code delivered out of band.
//   - RecoveryCodeValidityDuration: lifetime of a recovery code.
//   - PasswordHashCost: bcrypt cost.
//   - MinPasswordLength: shortest accepted password.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DatabaseDriver               string        `validate:"oneof=sqlite postgres"`
	DatabaseDSN                  string        `validate:"required"`
	LedgerBackend                string        `validate:"oneof=sql s3"`
	S3RootUser                   string        `validate:"required_if=LedgerBackend s3"`
	S3RootPassword               string        `validate:"required_if=LedgerBackend s3"`
	S3Bucket                     string        `validate:"required_if=LedgerBackend s3"`
	S3Region                     string        `validate:"required_if=LedgerBackend s3"`
	S3BaseEndpoint               string        `validate:"omitempty,url"`
	SecretKey                    string        `validate:"required"`
	SessionTokenValidityDuration time.Duration `validate:"gt=0"`
	RecoveryMode                 string        `validate:"oneof=answer code"`
	RecoveryCodeValidityDuration time.Duration `validate:"gt=0"`
	PasswordHashCost             int           `validate:"gte=4,lte=31"`
	MinPasswordLength            int           `validate:"gte=1,lte=72"`
	LogLevel                     string        `validate:"oneof=debug info warn error"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and the S3 credentials must be overridden in production.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "data/grocer.db"
	c.LedgerBackend = LedgerBackendSQL
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "grocer"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.SecretKey = "secretKey"
	c.SessionTokenValidityDuration = 24 * time.Hour
	c.RecoveryMode = RecoveryModeAnswer
	c.RecoveryCodeValidityDuration = 15 * time.Minute
	c.PasswordHashCost = 10
	c.MinPasswordLength = 6
	c.LogLevel = "info"
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if err := models.Validator().Struct(c); err != nil {
		return fmt.Errorf("%w: config: %v", common.ErrValidation, err)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file (-c / -config), the environment and finally
// command-line flags. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
