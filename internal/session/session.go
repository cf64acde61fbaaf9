package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/dmitrijs2005/grocer/internal/config"
	"github.com/dmitrijs2005/grocer/internal/cryptox"
	"github.com/dmitrijs2005/grocer/internal/logging"
	"github.com/dmitrijs2005/grocer/internal/models"
)

// Session is one caller's view of the system. It is not safe for concurrent
// use.
type Session struct {
	m      *Manager
	state  State
	logger logging.Logger

	account  *models.Account
	ledger   *models.Ledger
	token    string
	recovery *recoveryAttempt
	// dirty is set while the ledger holds changes the store has not seen.
	dirty bool
}

func (s *Session) State() State {
	return s.state
}

// Account returns the authenticated account, or nil.
func (s *Session) Account() *models.Account {
	return s.account
}

// Token returns the session token issued at login, or "".
func (s *Session) Token() string {
	return s.token
}

func (s *Session) expect(states ...State) error {
	for _, st := range states {
		if s.state == st {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidState, s.state)
}

func (s *Session) transition(ctx context.Context, to State) {
	s.logger.Debug(ctx, "session state changed", "from", s.state.String(), "to", to.String())
	s.state = to
}

func (s *Session) reset(ctx context.Context) {
	s.account = nil
	s.ledger = nil
	s.dirty = false
	s.token = ""
	s.recovery = nil
	s.logger = s.m.logger
	s.transition(ctx, Anonymous)
}

func (s *Session) authenticate(ctx context.Context, account *models.Account, l *models.Ledger, token string) {
	s.account = account
	s.ledger = l
	s.dirty = false
	s.token = token
	s.recovery = nil
	s.logger = s.m.logger.With("username", account.Username)
	s.transition(ctx, Authenticated)
}

// ChooseSignup moves an anonymous session to the signup form.
func (s *Session) ChooseSignup(ctx context.Context) error {
	if err := s.expect(Anonymous); err != nil {
		return err
	}
	s.transition(ctx, AwaitingSignup)
	return nil
}

// Signup creates the account and returns to Anonymous; the new user still
// has to log in. On failure the session stays where it was.
func (s *Session) Signup(ctx context.Context, in SignupInput) (*models.Account, error) {
	if err := s.expect(Anonymous, AwaitingSignup); err != nil {
		return nil, err
	}
	if s.state == Anonymous {
		s.transition(ctx, AwaitingSignup)
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	account, err := s.m.accounts.CreateAccount(ctx, in.Username, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	s.transition(ctx, Anonymous)
	return account, nil
}

// Login authenticates and loads the user's ledger. Invalid credentials and
// storage failures leave the session Anonymous.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if err := s.expect(Anonymous); err != nil {
		return err
	}

	account, err := s.m.accounts.Authenticate(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return err
	}

	l, err := s.m.loadLedger(ctx, account.Username)
	if err != nil {
		s.logger.Error(ctx, "ledger load failed", "username", account.Username, "error", err)
		return err
	}

	token, err := s.m.issueToken(account.Username)
	if err != nil {
		return err
	}

	s.authenticate(ctx, account, l, token)
	s.logger.Info(ctx, "logged in")
	return nil
}

// ChooseForgotPassword starts password recovery.
func (s *Session) ChooseForgotPassword(ctx context.Context) error {
	if err := s.expect(Anonymous); err != nil {
		return err
	}
	s.transition(ctx, AwaitingRecoveryIdentity)
	return nil
}

// RequestRecovery checks that username and email belong to the same account,
// compared exactly. In code mode a one-time code is sent to the owner.
func (s *Session) RequestRecovery(ctx context.Context, username, email string) error {
	if err := s.expect(Anonymous, AwaitingRecoveryIdentity); err != nil {
		return err
	}
	if s.state == Anonymous {
		s.transition(ctx, AwaitingRecoveryIdentity)
	}

	if username == "" {
		return fmt.Errorf("%w: username", common.ErrMissingField)
	}
	if email == "" {
		return fmt.Errorf("%w: email", common.ErrMissingField)
	}

	account, err := s.m.accounts.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if account == nil || account.Email != email {
		s.logger.Info(ctx, "recovery identity rejected", "username", username)
		return common.ErrIdentityNotFound
	}

	attempt := &recoveryAttempt{username: account.Username}
	if s.m.recoveryMode == config.RecoveryModeCode {
		code, digest, err := cryptox.NewRecoveryCode()
		if err != nil {
			return fmt.Errorf("recovery code: %w", err)
		}
		attempt.codeDigest = digest
		attempt.expiresAt = s.m.now().Add(s.m.codeTTL)
		if err := s.m.notifier.SendRecoveryCode(ctx, account, code, attempt.expiresAt); err != nil {
			s.logger.Error(ctx, "recovery code delivery failed", "username", username, "error", err)
			return fmt.Errorf("send recovery code: %w", err)
		}
	}

	s.recovery = attempt
	s.transition(ctx, AwaitingRecoveryVerification)
	return nil
}

// VerifyRecoveryAnswer checks the security step. In answer mode any
// non-empty answer passes; in code mode the answer must be the unexpired
// code sent by RequestRecovery.
func (s *Session) VerifyRecoveryAnswer(ctx context.Context, answer string) error {
	if err := s.expect(AwaitingRecoveryVerification); err != nil {
		return err
	}
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("%w: answer", common.ErrMissingField)
	}

	if s.m.recoveryMode == config.RecoveryModeCode {
		if !s.m.now().Before(s.recovery.expiresAt) {
			return common.ErrRecoveryCodeExpired
		}
		if !cryptox.CheckRecoveryCode(s.recovery.codeDigest, answer) {
			s.logger.Info(ctx, "recovery code rejected", "username", s.recovery.username)
			return common.ErrInvalidRecoveryCode
		}
	}

	s.recovery.verified = true
	return nil
}

// ResetPassword sets a new password once the recovery answer was accepted
// and returns to Anonymous.
func (s *Session) ResetPassword(ctx context.Context, newPassword, confirmPassword string) error {
	if err := s.expect(AwaitingRecoveryVerification); err != nil {
		return err
	}
	if !s.recovery.verified {
		return common.ErrNotRecoverable
	}

	if err := s.checkNewPassword(newPassword, confirmPassword); err != nil {
		return err
	}
	if err := s.m.accounts.ResetPassword(ctx, s.recovery.username, newPassword); err != nil {
		return err
	}

	s.logger.Info(ctx, "password recovered", "username", s.recovery.username)
	s.recovery = nil
	s.transition(ctx, Anonymous)
	return nil
}

// SubmitNewPassword is VerifyRecoveryAnswer and ResetPassword in one step.
// Nothing changes unless every check passes.
func (s *Session) SubmitNewPassword(ctx context.Context, answer, newPassword, confirmPassword string) error {
	if err := s.expect(AwaitingRecoveryVerification); err != nil {
		return err
	}
	if err := s.checkNewPassword(newPassword, confirmPassword); err != nil {
		return err
	}

	wasVerified := s.recovery.verified
	if err := s.VerifyRecoveryAnswer(ctx, answer); err != nil {
		return err
	}
	if err := s.ResetPassword(ctx, newPassword, confirmPassword); err != nil {
		if s.recovery != nil {
			s.recovery.verified = wasVerified
		}
		return err
	}
	return nil
}

func (s *Session) checkNewPassword(newPassword, confirmPassword string) error {
	if err := models.Validate(passwordChange{Password: newPassword, ConfirmPassword: confirmPassword}); err != nil {
		return err
	}
	return s.m.accounts.CheckPassword(newPassword)
}

// Cancel abandons the current flow and returns to Anonymous. Nothing is
// written; an authenticated session has no unsaved changes to lose.
func (s *Session) Cancel(ctx context.Context) {
	if s.state == Anonymous {
		return
	}
	s.reset(ctx)
}

// Logout flushes unsaved ledger changes and clears the session. If the flush
// fails the session stays Authenticated and the error is returned. A ledger
// that matches the store is not written, so other sessions of the same user
// keep a current version.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.expect(Authenticated); err != nil {
		return err
	}

	if s.dirty {
		if err := s.flush(ctx); err != nil {
			return err
		}
	}

	s.logger.Info(ctx, "logged out")
	s.reset(ctx)
	return nil
}

func (s *Session) flush(ctx context.Context) error {
	staged := s.ledger.Clone()
	if err := s.m.ledgers.Save(ctx, s.account.Username, staged); err != nil {
		if !errors.Is(err, common.ErrVersionConflict) {
			s.logger.Error(ctx, "ledger flush failed", "error", err)
			return storageError(err)
		}
		s.logger.Warn(ctx, "ledger changed by another session", "version", s.ledger.Version)
		return nil
	}
	s.ledger = staged
	s.dirty = false
	return nil
}

// ChangePassword replaces the password of the logged-in user.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	if err := s.expect(Authenticated); err != nil {
		return err
	}
	if err := s.checkNewPassword(newPassword, confirmPassword); err != nil {
		return err
	}
	return s.m.accounts.ChangePassword(ctx, s.account.Username, oldPassword, newPassword)
}
