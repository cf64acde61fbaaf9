// Package cli is the interactive grocer shell.
//
// It reads one command per line, prompts for the fields a command needs and
// prints plain results. All state lives in a session.Session; the shell only
// collects input and renders output.
//
// Anonymous commands: signup, login, forgot, categories, help, exit.
// Logged-in commands: add, remove, list, budget, budgets, report, advice,
// reload, passwd, logout, categories, help, exit.
//
// Leaving the shell while logged in flushes the ledger like logout does.
package cli
