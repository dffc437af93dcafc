package postgres

import (
	"embed"

	pkgpostgres "github.com/cashflowgame/finance-service/pkg/postgres"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrations is the embedded schema for the finance store.
func Migrations() pkgpostgres.MigrationSource {
	return pkgpostgres.MigrationSource{FS: migrationFS, Dir: "migrations"}
}
