// Package dialect provides database dialect abstraction for the artisan
// toolkit.
//
// This package defines the interfaces and types used for database-specific
// operations, allowing artisan to support multiple database backends
// including MySQL, SQLite and PostgreSQL.
//
// # Dialect Constants
//
// Each dialect is identified by a constant string:
//
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//	dialect.Postgres = "postgres"
//
// # Driver Interface
//
// The package defines the Driver interface for database operations:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The Tx interface extends ExecQuerier with Commit and Rollback, and the
// ExecQuerier interface is implemented by both Driver and Tx.
//
// # Usage
//
// Opening a database connection:
//
//	import (
//	    "github.com/artisandb/artisan/dialect"
//	    "github.com/artisandb/artisan/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db?mode=memory")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// Wrapping a driver with per-statement logging:
//
//	drv = dialect.Debug(drv).(*dialect.DebugDriver)
//
// # Sub-packages
//
//   - dialect/sql: query builder, grammars and driver implementation
//   - dialect/sql/schema: blueprints, DDL grammars and migrations
package dialect
