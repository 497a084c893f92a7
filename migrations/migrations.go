// Package migrations embeds the PostgreSQL schema migrations so that the migrate
// command and the test helpers apply the same files.
package migrations

import "embed"

// FS holds every *.sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS
