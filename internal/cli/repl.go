package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Recover(ctx context.Context) error
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	AddItem(ctx context.Context) error
	RemoveItem(ctx context.Context, args []string) error
	SetBudget(ctx context.Context) error
	List(ctx context.Context) error
	Budgets(ctx context.Context, args []string) error
	Report(ctx context.Context, args []string) error
	Advice(ctx context.Context) error
	Reload(ctx context.Context) error
	Categories(ctx context.Context) error
}

var errNotLoggedIn = errors.New("log in first")

var (
	anonymousHelp = "Available commands: signup, login, forgot, categories, exit"
	loggedInHelp  = "Available commands: add, remove [n], (l)ist, budget, budgets [month], report [month], advice, reload, categories, passwd, logout, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// Command errors are printed and the loop goes on. It returns on EOF, on
// "exit"/"quit" or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for ctx.Err() == nil {
		fmt.Fprintf(w, "grocer %s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(w, "Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args, w); err != nil {
			fmt.Fprintln(w, "error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string, w io.Writer) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			fmt.Fprintln(w, loggedInHelp)
		} else {
			fmt.Fprintln(w, anonymousHelp)
		}
		return nil
	case "categories":
		return a.Categories(ctx)
	case "signup", "register":
		return a.Signup(ctx)
	case "login":
		return a.Login(ctx)
	case "forgot":
		return a.Recover(ctx)
	}

	if !a.isLoggedIn() {
		switch cmd {
		case "logout", "passwd", "add", "remove", "rm", "l", "list", "budget", "budgets", "report", "advice", "reload":
			return errNotLoggedIn
		}
		fmt.Fprintln(w, "Unknown command:", cmd)
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "passwd":
		return a.ChangePassword(ctx)
	case "add":
		return a.AddItem(ctx)
	case "remove", "rm":
		return a.RemoveItem(ctx, args)
	case "l", "list":
		return a.List(ctx)
	case "budget":
		return a.SetBudget(ctx)
	case "budgets":
		return a.Budgets(ctx, args)
	case "report":
		return a.Report(ctx, args)
	case "advice":
		return a.Advice(ctx)
	case "reload":
		return a.Reload(ctx)
	}

	fmt.Fprintln(w, "Unknown command:", cmd)
	return nil
}
