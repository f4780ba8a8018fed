package migrations

import "embed"

// The schemas ship inside the binary so a fresh database needs no migration
// files on disk.

//go:embed postgres/*.sql
var PostgresFS embed.FS

//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
