package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/grocer/internal/config"
	"github.com/dmitrijs2005/grocer/internal/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) readPassword(prompt string) (string, error) {
	pw, err := getPassword(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// Signup prompts for the new account's fields. The user has to log in
// afterwards.
func (a *App) Signup(ctx context.Context) error {
	if err := a.session.ChooseSignup(ctx); err != nil {
		return err
	}

	in, err := a.readSignup()
	if err != nil {
		a.session.Cancel(ctx)
		return err
	}

	if _, err := a.session.Signup(ctx, in); err != nil {
		a.session.Cancel(ctx)
		return err
	}

	a.println("Account created, you can log in now.")
	return nil
}

func (a *App) readSignup() (session.SignupInput, error) {
	var in session.SignupInput
	var err error

	if in.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return in, err
	}
	if in.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return in, err
	}
	prompt := fmt.Sprintf("Enter password (at least %d characters)", a.sessions.MinPasswordLength())
	if in.Password, err = a.readPassword(prompt); err != nil {
		return in, err
	}
	if in.ConfirmPassword, err = a.readPassword("Confirm password"); err != nil {
		return in, err
	}
	return in, nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword("Enter password")
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		return err
	}

	a.printf("Welcome, %s!\n", a.session.Account().Username)
	return nil
}

// Recover runs the whole forgotten-password flow. Any failure abandons it.
func (a *App) Recover(ctx context.Context) error {
	if err := a.session.ChooseForgotPassword(ctx); err != nil {
		return err
	}

	if err := a.recover(ctx); err != nil {
		a.session.Cancel(ctx)
		return err
	}

	a.println("Password updated, you can log in now.")
	return nil
}

func (a *App) recover(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter the email of the account", a.out)
	if err != nil {
		return err
	}
	if err := a.session.RequestRecovery(ctx, username, email); err != nil {
		return err
	}

	prompt := "Security question: what was the name of your first pet?"
	if a.sessions.RecoveryMode() == config.RecoveryModeCode {
		prompt = "Enter the recovery code that was sent to you"
	}
	answer, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}

	newPassword, err := a.readPassword("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := a.readPassword("Confirm new password")
	if err != nil {
		return err
	}

	return a.session.SubmitNewPassword(ctx, answer, newPassword, confirm)
}

// Logout flushes the ledger and ends the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out.")
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	current, err := a.readPassword("Enter current password")
	if err != nil {
		return err
	}
	newPassword, err := a.readPassword("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := a.readPassword("Confirm new password")
	if err != nil {
		return err
	}

	if err := a.session.ChangePassword(ctx, current, newPassword, confirm); err != nil {
		return err
	}
	a.println("Password changed.")
	return nil
}
