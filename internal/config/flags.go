package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/grocer/internal/flagx"
)

var knownFlags = []string{"-k", "-d", "-l", "-u", "-p", "-b", "-g", "-e", "-s", "-t", "-m", "-x", "-n", "-w", "-v"}

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-k string   database driver (sqlite | postgres)
//	-d string   database DSN
//	-l string   ledger backend (sql | s3)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-s string   session token secret
//	-t int      session token validity, minutes
//	-m string   recovery mode (answer | code)
//	-x int      recovery code validity, minutes
//	-n int      bcrypt cost
//	-w int      minimum password length
//	-v string   log level
//
// Unknown flags are dropped by flagx.FilterArgs first, so -c / -config can
// share the command line.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("grocer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LedgerBackend, "l", config.LedgerBackend, "ledger backend")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	sessionTokenValidity := fs.Int("t", int(config.SessionTokenValidityDuration.Minutes()), "session token validity (in minutes)")
	fs.StringVar(&config.RecoveryMode, "m", config.RecoveryMode, "recovery mode")
	recoveryCodeValidity := fs.Int("x", int(config.RecoveryCodeValidityDuration.Minutes()), "recovery code validity (in minutes)")
	fs.IntVar(&config.PasswordHashCost, "n", config.PasswordHashCost, "bcrypt cost")
	fs.IntVar(&config.MinPasswordLength, "w", config.MinPasswordLength, "minimum password length")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Minute flags only apply when given, so finer JSON values survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.SessionTokenValidityDuration = time.Duration(*sessionTokenValidity) * time.Minute
		case "x":
			config.RecoveryCodeValidityDuration = time.Duration(*recoveryCodeValidity) * time.Minute
		}
	})
	return nil
}
