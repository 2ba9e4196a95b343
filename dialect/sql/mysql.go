package sql

import (
	"strings"

	"github.com/artisandb/artisan/dialect"
)

// MySQL is the MySQL/MariaDB query grammar. Identifiers are quoted with
// backticks and UPDATE/DELETE keep trailing ORDER BY/LIMIT clauses.
type MySQL struct{}

// Dialect returns the dialect name.
func (MySQL) Dialect() string { return dialect.MySQL }

// Wrap quotes a column identifier with backticks.
func (MySQL) Wrap(column any) string { return wrap(column, '`') }

// WrapTable quotes a table identifier with backticks.
func (MySQL) WrapTable(table any) string { return wrapTable(table, '`') }

// Operators returns the MySQL-specific operator additions.
func (MySQL) Operators() []string {
	return []string{"<=>", "like binary", "not like binary", "rlike", "not rlike", "regexp", "not regexp", "sounds like"}
}

// CompileSelect compiles the full SELECT statement.
func (g MySQL) CompileSelect(b *Builder) string { return compileSelect(g, b) }

// CompileExists compiles a SELECT EXISTS wrapper.
func (g MySQL) CompileExists(b *Builder) string { return compileExists(g, b) }

// CompileInsert compiles an INSERT. MySQL has no DEFAULT VALUES form; a
// zero-column insert uses the empty column/value list instead.
func (g MySQL) CompileInsert(b *Builder, columns []string, rows [][]any) string {
	return compileInsert(g, b, columns, rows, "() VALUES ()")
}

// CompileUpdate compiles an UPDATE, keeping ORDER BY/LIMIT.
func (g MySQL) CompileUpdate(b *Builder, columns []string, values []any) string {
	return compileUpdate(g, b, columns, values)
}

// CompileDelete compiles a DELETE, keeping ORDER BY/LIMIT.
func (g MySQL) CompileDelete(b *Builder) string {
	return compileDelete(g, b)
}

// SupportsOrderedWrites reports that UPDATE and DELETE keep trailing
// ORDER BY/LIMIT clauses.
func (MySQL) SupportsOrderedWrites() bool { return true }

// CompileWhereDate compiles date-part predicates with the MySQL date
// functions.
func (g MySQL) CompileWhereDate(w whereNode) string {
	var fn string
	switch w.kind {
	case whereDate:
		fn = "DATE"
	case whereTime:
		fn = "TIME"
	case whereDay:
		fn = "DAY"
	case whereMonth:
		fn = "MONTH"
	case whereYear:
		fn = "YEAR"
	}
	return fn + "(" + g.Wrap(w.column) + ") " + strings.ToUpper(w.op) + " " + parameter(w.value)
}

var _ Grammar = MySQL{}
