// Package migrations embeds the SQL schema applied by catalogctl migrate
// and, optionally, on API startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
