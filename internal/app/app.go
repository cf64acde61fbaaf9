// Package app wires configuration, storage and the session manager into a
// runnable grocer instance.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/grocer/internal/accounts"
	"github.com/dmitrijs2005/grocer/internal/cli"
	"github.com/dmitrijs2005/grocer/internal/config"
	"github.com/dmitrijs2005/grocer/internal/filex"
	"github.com/dmitrijs2005/grocer/internal/ledgers"
	"github.com/dmitrijs2005/grocer/internal/logging"
	"github.com/dmitrijs2005/grocer/internal/repomanager"
	"github.com/dmitrijs2005/grocer/internal/session"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	manager *session.Manager
}

// seams for tests
var (
	newRepositoryManager = repomanager.New
	newS3Client          = ledgers.NewS3Client
)

// NewApp opens the database, applies migrations and builds the session
// manager. Logs go to logOutput as JSON; recovery codes, when enabled, are
// written to notices.
func NewApp(ctx context.Context, cfg *config.Config, logOutput, notices io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(logOutput, cfg.LogLevel)

	rm, err := newRepositoryManager(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, rm, cfg)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	store, err := newLedgerStore(ctx, cfg, db, rm, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := accounts.NewService(rm.Accounts(db), cfg, logger)

	var notifier session.RecoveryNotifier
	if cfg.RecoveryMode == config.RecoveryModeCode {
		notifier = session.WriterNotifier{W: notices}
	}

	m, err := session.NewManager(as, store, cfg, notifier, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info(ctx, "app initialized",
		"driver", cfg.DatabaseDriver,
		"ledger_backend", cfg.LedgerBackend,
		"recovery_mode", cfg.RecoveryMode)

	return &App{config: cfg, logger: logger, db: db, manager: m}, nil
}

func openDB(ctx context.Context, rm repomanager.RepositoryManager, cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseDriver == config.DriverSQLite {
		if _, err := filex.EnsureParentDir(cfg.DatabaseDSN); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(rm.DriverName(), cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseDriver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newLedgerStore(ctx context.Context, cfg *config.Config, db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) (ledgers.Store, error) {
	switch cfg.LedgerBackend {
	case config.LedgerBackendSQL:
		return ledgers.NewSQLStore(db, rm.Ledgers, logger), nil
	case config.LedgerBackendS3:
		api, err := newS3Client(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		return ledgers.NewS3Store(api, cfg.S3Bucket, logger), nil
	}
	return nil, fmt.Errorf("unsupported ledger backend %q", cfg.LedgerBackend)
}

func (app *App) Manager() *session.Manager {
	return app.manager
}

func (app *App) Close() error {
	return app.db.Close()
}

// Run starts the interactive shell on in/out and blocks until the user quits,
// input ends or the process is signalled.
func (app *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	shell := cli.NewApp(app.manager, in, out)
	err := shell.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	app.logger.Info(ctx, "app stopped")
	return err
}
