package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/grocer/internal/models"
)

// RecoveryNotifier delivers one-time recovery codes to the account owner.
// It is only used when recovery runs in code mode.
type RecoveryNotifier interface {
	SendRecoveryCode(ctx context.Context, account *models.Account, code string, expiresAt time.Time) error
}

// WriterNotifier prints recovery codes to W. It stands in for an email
// sender on a single-user machine.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) SendRecoveryCode(_ context.Context, account *models.Account, code string, expiresAt time.Time) error {
	_, err := fmt.Fprintf(n.W, "recovery code for %s <%s>: %s (valid until %s)\n",
		account.Username, account.Email, code, expiresAt.Format(time.Kitchen))
	return err
}

// recoveryAttempt is the state carried between the recovery steps.
type recoveryAttempt struct {
	username   string
	verified   bool
	codeDigest []byte
	expiresAt  time.Time
}
