// Package migrations embeds the SQL schema migrations for the viewer store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
