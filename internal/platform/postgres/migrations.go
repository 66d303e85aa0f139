package postgres

import "embed"

// Migrations holds the embedded goose migration files. The server applies
// them on startup so the binary never depends on files on disk.
//
//go:embed migrations/*.sql
var Migrations embed.FS
