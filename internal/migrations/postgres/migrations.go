// Package postgres embeds the goose migrations for the postgres schema.
package postgres

import "embed"

//go:embed *.sql
var Migrations embed.FS
