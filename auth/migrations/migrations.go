// Package migrations embeds the goose schema migrations for the SQL account stores.
package migrations

import "embed"

// FS holds one directory of migrations per dialect: postgres and sqlite.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
