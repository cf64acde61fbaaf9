package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/grocer/internal/accounts"
	"github.com/dmitrijs2005/grocer/internal/config"
	"github.com/dmitrijs2005/grocer/internal/dbx"
	"github.com/dmitrijs2005/grocer/internal/ledgers"
	"github.com/dmitrijs2005/grocer/internal/logging"
	"github.com/dmitrijs2005/grocer/internal/models"
	"github.com/dmitrijs2005/grocer/internal/testutil/sqlitetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, time.May, 20, 9, 30, 0, 0, time.UTC)

type env struct {
	m        *Manager
	accounts *accounts.Service
	store    *flakyStore
	notifier *capturingNotifier
}

func testConfig(mode string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PasswordHashCost = bcrypt.MinCost
	cfg.RecoveryMode = mode
	return cfg
}

func newEnv(t *testing.T, mode string) *env {
	t.Helper()

	db := sqlitetest.Open(t)
	cfg := testConfig(mode)
	svc := accounts.NewService(accounts.NewSQLiteRepository(db), cfg, logging.Discard())
	store := &flakyStore{Store: ledgers.NewSQLStore(db, func(tx dbx.DBTX) ledgers.Repository {
		return ledgers.NewSQLiteRepository(tx)
	}, logging.Discard())}
	notifier := &capturingNotifier{}

	m, err := NewManager(svc, store, cfg, notifier, logging.Discard())
	require.NoError(t, err)
	m.now = func() time.Time { return fixedNow }

	return &env{m: m, accounts: svc, store: store, notifier: notifier}
}

// signedUp creates an account through a session and returns a fresh one.
func (e *env) signedUp(t *testing.T, username, email, password string) *Session {
	t.Helper()
	s := e.m.NewSession()
	_, err := s.Signup(context.Background(), SignupInput{
		Username: username, Email: email, Password: password, ConfirmPassword: password,
	})
	require.NoError(t, err)
	return s
}

func (e *env) loggedIn(t *testing.T, username, password string) *Session {
	t.Helper()
	s := e.m.NewSession()
	require.NoError(t, s.Login(context.Background(), username, password))
	return s
}

// flakyStore fails Save and Load while err is set.
type flakyStore struct {
	ledgers.Store
	mu  sync.Mutex
	err error
}

func (f *flakyStore) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *flakyStore) current() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *flakyStore) Load(ctx context.Context, username string) (*models.Ledger, error) {
	if err := f.current(); err != nil {
		return nil, err
	}
	return f.Store.Load(ctx, username)
}

func (f *flakyStore) Save(ctx context.Context, username string, l *models.Ledger) error {
	if err := f.current(); err != nil {
		return err
	}
	return f.Store.Save(ctx, username, l)
}

type sentCode struct {
	username  string
	code      string
	expiresAt time.Time
}

type capturingNotifier struct {
	sent []sentCode
	err  error
}

func (n *capturingNotifier) SendRecoveryCode(_ context.Context, a *models.Account, code string, expiresAt time.Time) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentCode{username: a.Username, code: code, expiresAt: expiresAt})
	return nil
}

func (n *capturingNotifier) last() sentCode {
	return n.sent[len(n.sent)-1]
}

var errDisk = errors.New("disk on fire")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
