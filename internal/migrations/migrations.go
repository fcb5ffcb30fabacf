package migrations

import "embed"

// FS содержит SQL-миграции в формате golang-migrate: NNNNNN_name.{up,down}.sql.
//
//go:embed *.sql
var FS embed.FS
