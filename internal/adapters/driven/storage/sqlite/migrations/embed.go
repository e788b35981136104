// Package migrations embeds the schema migrations for the corpus
// database. The store applies them in lexical order on open.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
