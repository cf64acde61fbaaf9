package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/grocer/internal/session"
)

// App is one interactive shell bound to one session.
type App struct {
	sessions *session.Manager
	session  *session.Session
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(m *session.Manager, in io.Reader, out io.Writer) *App {
	return &App{
		sessions: m,
		session:  m.NewSession(),
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run blocks until the user exits, input ends or ctx is done. A logged-in
// user is logged out on the way out so the ledger is flushed.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "grocer (type 'help' for commands)")

	runREPL(ctx, a, a.status, a.reader, a.out)

	if a.isLoggedIn() {
		if err := a.session.Logout(context.WithoutCancel(ctx)); err != nil {
			return fmt.Errorf("logout on exit: %w", err)
		}
	}
	return ctx.Err()
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.Authenticated
}

func (a *App) status() string {
	if acc := a.session.Account(); acc != nil {
		return "(" + acc.Username + ")"
	}
	return ""
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
