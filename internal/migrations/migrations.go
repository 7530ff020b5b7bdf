// Package migrations holds the PostgreSQL schema as numbered up/down SQL files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
