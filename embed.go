package ucbot

import "embed"

// MigrationsFS holds the SQL migrations applied on startup.
//
//go:embed migrations
var MigrationsFS embed.FS
