// Package migrations embeds the versioned schema of the contacts table, one directory per SQL
// dialect.
package migrations

import "embed"

//go:embed mysql/*.sql postgres/*.sql
var FS embed.FS
