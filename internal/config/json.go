package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/grocer/internal/flagx"
	"github.com/dmitrijs2005/grocer/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted. Absent
// fields leave the current value untouched.
type JsonConfig struct {
	DatabaseDriver               string          `json:"database_driver"`
	DatabaseDSN                  string          `json:"database_dsn"`
	LedgerBackend                string          `json:"ledger_backend"`
	S3RootUser                   string          `json:"s3_root_user"`
	S3RootPassword               string          `json:"s3_root_password"`
	S3Bucket                     string          `json:"s3_bucket"`
	S3Region                     string          `json:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint"`
	SecretKey                    string          `json:"secret_key"`
	SessionTokenValidityDuration *timex.Duration `json:"session_token_validity_duration"`
	RecoveryMode                 string          `json:"recovery_mode"`
	RecoveryCodeValidityDuration *timex.Duration `json:"recovery_code_validity_duration"`
	PasswordHashCost             *int            `json:"password_hash_cost"`
	MinPasswordLength            *int            `json:"min_password_length"`
	LogLevel                     string          `json:"log_level"`
}

// parseJson overlays values from the file named by -c / -config onto config.
// No flag means no file.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
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
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.RecoveryCodeValidityDuration != nil {
		config.RecoveryCodeValidityDuration = c.RecoveryCodeValidityDuration.Duration
	}
	if c.PasswordHashCost != nil {
		config.PasswordHashCost = *c.PasswordHashCost
	}
	if c.MinPasswordLength != nil {
		config.MinPasswordLength = *c.MinPasswordLength
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
