// Package sqlite embeds the goose migrations for the sqlite schema.
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS
