// Package sql provides the fluent query builder and database dialect
// abstraction.
//
// The package pairs a mutable Builder with a per-dialect Grammar: clause
// methods accumulate the query shape and its bindings, terminal operations
// compile the shape into SQL and execute it against a dialect.Driver.
//
// # Building Queries
//
// A Builder is obtained from a Driver and driven fluently:
//
//	drv, _ := sql.Open(dialect.MySQL, dsn)
//	users, err := drv.Table("users").
//	    Where("age", ">", 18).
//	    Where("active", true).
//	    OrderByDesc("id").
//	    Limit(10).
//	    Get(ctx)
//
// Compilation alone, without a connection, uses DialectBuilder:
//
//	b := sql.DialectBuilder(dialect.Postgres)
//	query, args := b.Table("users").WhereIn("id", []int{1, 2, 3}).Query()
//
// # Dialect Support
//
// Grammars exist for MySQL, SQLite and PostgreSQL. They differ only where
// the databases do: identifier quoting, placeholder style, default-values
// inserts, date-part extraction, and ORDER BY / LIMIT on writes.
//
// # Predicates
//
// Where and its variants accept several input shapes:
//
//	b.Where("age", ">", 18)                   // column, operator, value
//	b.Where("active", true)                   // operator defaults to =
//	b.Where(sql.Record{"a": 1, "b": 2})       // map, each pair with =
//	b.Where(func(q *sql.Builder) {            // nested parenthesized group
//	    q.Where("a", 1).OrWhere("b", 2)
//	})
//	b.WhereIn("id", []int{1, 2, 3})           // IN list
//	b.WhereIn("id", func(q *sql.Builder) {    // IN subquery
//	    q.Table("orders").Select("user_id")
//	})
//	b.WhereNull("deleted_at")                 // IS NULL
//	b.WhereBetween("age", []any{18, 65})      // BETWEEN ? AND ?
//	b.WhereColumn("updated_at", ">", "created_at")
//	b.WhereRaw("price > IF(state = ?, ?, ?)", "TX", 200, 100)
//
// Raw expressions created with sql.Raw are injected verbatim and never
// parameterized or quoted; every plain value becomes a placeholder.
//
// # Writes
//
//	id, err := drv.Table("users").InsertGetID(ctx, sql.Record{"name": "ada"})
//	n, err := drv.Table("users").Where("id", id).Update(ctx, sql.Record{"name": "lin"})
//	n, err := drv.Table("users").Where("active", false).Delete(ctx)
//
// # Models and Relations
//
// Binding a Model hydrates rows into domain instances and enables Find,
// eager loading with explicit relation names, and offset pagination:
//
//	posts, err := drv.Table("").Model(&Post{}).
//	    With("author", "comments.author").
//	    Where("published", true).
//	    GetModels(ctx)
//
//	page, err := drv.Table("users").OrderBy("id").Paginate(ctx, 25, 2)
//
// # Transactions and Driver Decorators
//
// Transaction runs a function with retries on a dedicated Tx. StatsDriver
// and CachedDriver wrap any dialect.Driver with statement statistics and a
// read-through result cache.
package sql
