// Package session drives signup, login, password recovery and the ledger
// commands of one caller. A Session is an explicit context object: it holds
// the flow state, the authenticated account and that account's ledger.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/grocer/internal/advisor"
	"github.com/dmitrijs2005/grocer/internal/auth"
	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/dmitrijs2005/grocer/internal/config"
	"github.com/dmitrijs2005/grocer/internal/ledgers"
	"github.com/dmitrijs2005/grocer/internal/logging"
	"github.com/dmitrijs2005/grocer/internal/models"
)

// Credentials is the credential store as seen by the session layer.
type Credentials interface {
	CreateAccount(ctx context.Context, username, email, password string) (*models.Account, error)
	Authenticate(ctx context.Context, username, password string) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	ResetPassword(ctx context.Context, username, newPassword string) error
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	CheckPassword(password string) error
}

// Manager holds the collaborators shared by all sessions. It is safe for
// concurrent use; the sessions it creates are not.
type Manager struct {
	accounts          Credentials
	ledgers           ledgers.Store
	advisor           *advisor.Advisor
	notifier          RecoveryNotifier
	secretKey         []byte
	tokenTTL          time.Duration
	recoveryMode      string
	codeTTL           time.Duration
	minPasswordLength int
	now               func() time.Time
	logger            logging.Logger
}

// NewManager wires a Manager. notifier may be nil unless cfg.RecoveryMode is
// config.RecoveryModeCode.
func NewManager(accounts Credentials, store ledgers.Store, cfg *config.Config, notifier RecoveryNotifier, logger logging.Logger) (*Manager, error) {
	if cfg.RecoveryMode == config.RecoveryModeCode && notifier == nil {
		return nil, errors.New("recovery code mode needs a notifier")
	}

	m := &Manager{
		accounts:          accounts,
		ledgers:           store,
		notifier:          notifier,
		secretKey:         []byte(cfg.SecretKey),
		tokenTTL:          cfg.SessionTokenValidityDuration,
		recoveryMode:      cfg.RecoveryMode,
		codeTTL:           cfg.RecoveryCodeValidityDuration,
		minPasswordLength: cfg.MinPasswordLength,
		now:               time.Now,
		logger:            logger,
	}
	m.advisor = advisor.New(m.clock)
	return m, nil
}

func (m *Manager) clock() time.Time {
	return m.now()
}

// RecoveryMode is config.RecoveryModeAnswer or config.RecoveryModeCode.
func (m *Manager) RecoveryMode() string {
	return m.recoveryMode
}

// MinPasswordLength reports the shortest password the credential store
// accepts, for prompts.
func (m *Manager) MinPasswordLength() int {
	return m.minPasswordLength
}

// NewSession starts an anonymous session.
func (m *Manager) NewSession() *Session {
	return &Session{m: m, state: Anonymous, logger: m.logger}
}

// Resume restores an authenticated session from a token issued by Login.
func (m *Manager) Resume(ctx context.Context, token string) (*Session, error) {
	username, err := auth.UsernameFromToken(token, m.secretKey)
	if err != nil {
		return nil, err
	}

	account, err := m.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, common.ErrInvalidToken
	}

	l, err := m.loadLedger(ctx, username)
	if err != nil {
		return nil, err
	}

	s := m.NewSession()
	s.authenticate(ctx, account, l, token)
	return s, nil
}

func (m *Manager) loadLedger(ctx context.Context, username string) (*models.Ledger, error) {
	l, err := m.ledgers.Load(ctx, username)
	if err != nil {
		return nil, storageError(err)
	}
	return l, nil
}

func (m *Manager) issueToken(username string) (string, error) {
	token, err := auth.GenerateToken(username, m.secretKey, m.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// storageError marks a store failure as common.ErrStorageUnavailable unless
// it already carries a more specific sentinel.
func storageError(err error) error {
	if errors.Is(err, common.ErrVersionConflict) || errors.Is(err, common.ErrStorageUnavailable) {
		return err
	}
	return errors.Join(common.ErrStorageUnavailable, err)
}
