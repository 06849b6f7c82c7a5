// Package migrations embeds the journal schema into the binary.
//
// Importing this package (for its side effect) registers the SQL files
// with the database package so Migrate can run without files on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/pulsehome-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.Migrations = migrationsFS
}
