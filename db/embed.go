// Package db embeds the SQL migrations for builds tagged embed_migrations.
package db

import "embed"

// Migrations holds db/migrations/*.sql
//
//go:embed migrations/*.sql
var Migrations embed.FS
