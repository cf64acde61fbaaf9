package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/grocer/internal/accounts"
	"github.com/dmitrijs2005/grocer/internal/config"
	"github.com/dmitrijs2005/grocer/internal/dbx"
	"github.com/dmitrijs2005/grocer/internal/ledgers"
	"github.com/dmitrijs2005/grocer/internal/logging"
	"github.com/dmitrijs2005/grocer/internal/session"
	"github.com/dmitrijs2005/grocer/internal/testutil/sqlitetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type harness struct {
	m     *session.Manager
	store ledgers.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	origTerm := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = origTerm })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PasswordHashCost = bcrypt.MinCost

	db := sqlitetest.Open(t)
	svc := accounts.NewService(accounts.NewSQLiteRepository(db), cfg, logging.Discard())
	store := ledgers.NewSQLStore(db, func(tx dbx.DBTX) ledgers.Repository {
		return ledgers.NewSQLiteRepository(tx)
	}, logging.Discard())

	m, err := session.NewManager(svc, store, cfg, nil, logging.Discard())
	require.NoError(t, err)
	return &harness{m: m, store: store}
}

func (h *harness) run(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(h.m, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, app.Run(context.Background()))
	return out.String()
}

func TestApp_SignupLoginAddReport(t *testing.T) {
	h := newHarness(t)

	out := h.run(t,
		"signup", "alice", "alice@example.com", "pw123456", "pw123456",
		"login", "alice", "pw123456",
		"add", "Whole milk", "", "2.50", "2", "", "Farm Co", "",
		"add", "Chips", "Snacks", "1.99", "", "bags", "", "",
		"budget", "Dairy & Eggs", "20", "2024-05",
		"list",
		"budgets 2024-05",
		"report",
		"exit",
	)

	assert.Contains(t, out, "Account created")
	assert.Contains(t, out, "Welcome, alice!")
	assert.Contains(t, out, "Category [Dairy & Eggs]")
	assert.Contains(t, out, "Added Whole milk: 2 x 2.50 = 5.00")
	assert.Contains(t, out, "error: unknown unit")
	assert.Contains(t, out, "Budget set.")
	assert.Contains(t, out, "1. Whole milk [Dairy & Eggs] 2 pieces x 2.50 = 5.00")
	assert.Contains(t, out, "brand Farm Co")
	assert.Contains(t, out, "Dairy & Eggs: budgeted 20.00, spent 5.00, remaining 15.00")
	assert.Contains(t, out, "Total spent: 5.00")

	l, err := h.store.Load(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, l.Purchases, 1)
	require.Len(t, l.Budgets, 1)
}

func TestApp_RemoveAndAdvice(t *testing.T) {
	h := newHarness(t)
	h.run(t, "signup", "bob", "bob@example.com", "pw123456", "pw123456")

	out := h.run(t,
		"login", "bob", "pw123456",
		"add", "Bread", "", "3", "1", "", "", "",
		"add", "Apples", "", "2", "3", "kg", "", "",
		"remove 1",
		"remove 5",
		"list",
		"advice",
		"logout",
	)

	assert.Contains(t, out, "Removed Bread")
	assert.Contains(t, out, "error: item index out of range")
	assert.Contains(t, out, "1. Apples [Fruits & Vegetables] 3 kg")
	assert.Contains(t, out, "Largest category: Fruits & Vegetables (100.0%)")
	assert.Contains(t, out, "Tip: ")
	assert.Contains(t, out, "Logged out.")
}

func TestApp_RecoveryFlow(t *testing.T) {
	h := newHarness(t)
	h.run(t, "signup", "carol", "carol@example.com", "pw123456", "pw123456")

	out := h.run(t,
		"forgot", "carol", "wrong@example.com",
		"forgot", "carol", "carol@example.com", "Rex", "newpass1", "newpass1",
		"login", "carol", "pw123456",
		"login", "carol", "newpass1",
	)

	assert.Contains(t, out, "error: username and email combination not found")
	assert.Contains(t, out, "Password updated")
	assert.Contains(t, out, "error: invalid username or password")
	assert.Contains(t, out, "Welcome, carol!")
}

func TestApp_ExitFlushesLedger(t *testing.T) {
	h := newHarness(t)
	h.run(t, "signup", "dave", "dave@example.com", "pw123456", "pw123456")

	h.run(t,
		"login", "dave", "pw123456",
		"add", "Cat food", "", "4.20", "2", "boxes", "", "",
	)

	l, err := h.store.Load(context.Background(), "dave")
	require.NoError(t, err)
	require.Len(t, l.Purchases, 1)
	assert.Equal(t, int64(2), l.Version)
}

func TestApp_SignupFailureReturnsToAnonymous(t *testing.T) {
	h := newHarness(t)

	out := h.run(t,
		"signup", "erin", "erin@example.com", "pw123456", "different",
		"help",
	)

	assert.Contains(t, out, "error: passwords do not match")
	assert.Contains(t, out, anonymousHelp)
}
