package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	args     [][]string
	err      error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Signup(context.Context) error {
	return f.record("signup", nil)
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Recover(context.Context) error { return f.record("forgot", nil) }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) ChangePassword(context.Context) error { return f.record("passwd", nil) }
func (f *fakeExec) AddItem(context.Context) error        { return f.record("add", nil) }
func (f *fakeExec) RemoveItem(_ context.Context, args []string) error {
	return f.record("remove", args)
}
func (f *fakeExec) SetBudget(context.Context) error { return f.record("budget", nil) }
func (f *fakeExec) List(context.Context) error      { return f.record("list", nil) }
func (f *fakeExec) Budgets(_ context.Context, args []string) error {
	return f.record("budgets", args)
}
func (f *fakeExec) Report(_ context.Context, args []string) error {
	return f.record("report", args)
}
func (f *fakeExec) Advice(context.Context) error     { return f.record("advice", nil) }
func (f *fakeExec) Reload(context.Context) error     { return f.record("reload", nil) }
func (f *fakeExec) Categories(context.Context) error { return f.record("categories", nil) }

func run(t *testing.T, exec execIface, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	runREPL(context.Background(), exec, func() string { return "(test)" }, reader, &out)
	return out.String()
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	exec := &fakeExec{}

	out := run(t, exec,
		"help",
		"login",
		"help",
		"add",
		"list",
		"rm 2",
		"budgets 2024-05",
		"report",
		"advice",
		"foobar",
		"logout",
		"exit",
	)

	assert.Equal(t, []string{"login", "add", "list", "remove", "budgets", "report", "advice", "logout"}, exec.calls)
	assert.Equal(t, []string{"2"}, exec.args[3])
	assert.Equal(t, []string{"2024-05"}, exec.args[4])
	assert.Contains(t, out, anonymousHelp)
	assert.Contains(t, out, loggedInHelp)
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_LedgerCommandsNeedLogin(t *testing.T) {
	exec := &fakeExec{}

	out := run(t, exec, "add", "report", "quit")

	assert.Empty(t, exec.calls)
	assert.Equal(t, 2, strings.Count(out, "error: "+errNotLoggedIn.Error()))
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}

	out := run(t, exec, "add", "list")

	assert.Equal(t, []string{"add", "list"}, exec.calls)
	assert.Equal(t, 2, strings.Count(out, "error: boom"))
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("login\n")), &out)

	require.Empty(t, exec.calls)
}
