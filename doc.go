// Package artisan is a fluent SQL toolkit: a chainable query builder,
// dialect-specific grammars, schema blueprints and a migrator.
//
// The root package holds the error taxonomy and the Cache contract shared
// by the sub-packages. The interesting parts live below:
//
//   - dialect: dialect constants and the Driver/Tx execution contracts
//   - dialect/sql: the query Builder and the per-dialect grammars
//   - dialect/sql/schema: Blueprint, DDL grammars, Schema facade, Migrate
//
// A minimal round trip:
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	rows, err := drv.Table("users").
//	    Where("age", ">", 18).
//	    OrderBy("id", sql.Desc).
//	    Limit(10).
//	    Get(ctx)
//
// Error kinds follow a strict taxonomy: UsageError for programmer mistakes
// (invalid operator, unknown column type tag), UnsupportedError when a
// dialect cannot express an operation, and raw driver errors propagated
// unchanged for execution failures.
package artisan
