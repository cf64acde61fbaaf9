// Package accounts is the credential store: it creates accounts, checks
// passwords against their bcrypt hashes and resets them.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/dmitrijs2005/grocer/internal/config"
	"github.com/dmitrijs2005/grocer/internal/cryptox"
	"github.com/dmitrijs2005/grocer/internal/logging"
	"github.com/dmitrijs2005/grocer/internal/models"
)

// verifyPassword is an indirection used to facilitate testing.
var verifyPassword = cryptox.VerifyPassword

type Service struct {
	repo              Repository
	hashCost          int
	minPasswordLength int
	now               func() time.Time
	logger            logging.Logger

	// absentHash is compared against when the username is unknown so both
	// failures cost one bcrypt comparison.
	absentOnce sync.Once
	absentHash []byte
}

func NewService(repo Repository, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:              repo,
		hashCost:          cfg.PasswordHashCost,
		minPasswordLength: cfg.MinPasswordLength,
		now:               time.Now,
		logger:            logger,
	}
}

// MinPasswordLength is the shortest password CreateAccount and the reset
// operations accept.
func (s *Service) MinPasswordLength() int {
	return s.minPasswordLength
}

// CheckPassword applies the length rules without touching storage.
func (s *Service) CheckPassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password", common.ErrMissingField)
	}
	if len(password) < s.minPasswordLength {
		return common.ErrPasswordTooShort
	}
	if len(password) > cryptox.MaxPasswordBytes {
		return common.ErrPasswordTooLong
	}
	return nil
}

func (s *Service) CreateAccount(ctx context.Context, username, email, password string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, fmt.Errorf("%w: username", common.ErrMissingField)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email", common.ErrMissingField)
	}
	if err := s.CheckPassword(password); err != nil {
		return nil, err
	}

	existing, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.ErrDuplicateUsername
	}

	hash, err := cryptox.HashPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, err
		}
		s.logger.Error(ctx, "create account failed", "username", username, "error", err)
		return nil, errors.Join(common.ErrStorageUnavailable, err)
	}

	s.logger.Info(ctx, "account created", "username", username)
	return account, nil
}

// Authenticate returns the account when password matches. Unknown usernames
// and wrong passwords both yield common.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		verifyPassword(s.absentAccountHash(), []byte(password))
		s.logger.Info(ctx, "authentication failed", "username", username)
		return nil, common.ErrInvalidCredentials
	}
	if !verifyPassword(account.PasswordHash, []byte(password)) {
		s.logger.Info(ctx, "authentication failed", "username", username)
		return nil, common.ErrInvalidCredentials
	}
	return account, nil
}

func (s *Service) absentAccountHash() []byte {
	s.absentOnce.Do(func() {
		hash, err := cryptox.HashPassword([]byte("absent-account"), s.hashCost)
		if err != nil {
			s.logger.Error(context.Background(), "placeholder hash failed", "error", err)
			return
		}
		s.absentHash = hash
	})
	return s.absentHash
}

// FindByUsername returns (nil, nil) when no account has that username.
func (s *Service) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		s.logger.Error(ctx, "account lookup failed", "username", username, "error", err)
		return nil, errors.Join(common.ErrStorageUnavailable, err)
	}
	return account, nil
}

// ResetPassword replaces the password hash and stamps PasswordResetAt.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	if err := s.CheckPassword(newPassword); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return err
	}

	resetAt := s.now().UTC()
	if err := s.repo.UpdatePassword(ctx, username, hash, &resetAt); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUnknownUser
		}
		s.logger.Error(ctx, "password reset failed", "username", username, "error", err)
		return errors.Join(common.ErrStorageUnavailable, err)
	}

	s.logger.Info(ctx, "password reset", "username", username)
	return nil
}

// ChangePassword replaces the password of an account whose current password
// is known. PasswordResetAt is left as is.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	account, err := s.Authenticate(ctx, username, oldPassword)
	if err != nil {
		return err
	}
	if err := s.CheckPassword(newPassword); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, username, hash, account.PasswordResetAt); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUnknownUser
		}
		s.logger.Error(ctx, "password change failed", "username", username, "error", err)
		return errors.Join(common.ErrStorageUnavailable, err)
	}

	s.logger.Info(ctx, "password changed", "username", username)
	return nil
}
