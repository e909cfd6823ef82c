// Package migrations embeds the goose migrations of the local record store,
// one directory per SQL dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// Dir returns the migration directory for a store driver name.
func Dir(driver string) string {
	if driver == "postgres" || driver == "pgx" {
		return "postgres"
	}
	return "sqlite"
}
