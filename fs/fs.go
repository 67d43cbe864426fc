package appfs

import "embed"

// FS embeds the database migrations.
//
//go:embed migrations/*.sql
var FS embed.FS
