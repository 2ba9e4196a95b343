package sql

import (
	"strings"

	"github.com/artisandb/artisan/dialect"
)

// SQLite is the SQLite query grammar. Identifiers are quoted with double
// quotes. SQLite cannot carry ORDER BY/LIMIT on UPDATE/DELETE, so those
// components are never compiled for modifying statements.
type SQLite struct{}

// Dialect returns the dialect name.
func (SQLite) Dialect() string { return dialect.SQLite }

// Wrap quotes a column identifier with double quotes.
func (SQLite) Wrap(column any) string { return wrap(column, '"') }

// WrapTable quotes a table identifier with double quotes.
func (SQLite) WrapTable(table any) string { return wrapTable(table, '"') }

// Operators returns the SQLite-specific operator additions.
func (SQLite) Operators() []string {
	return []string{"ilike", "glob", "match", "regexp", "not regexp"}
}

// CompileSelect compiles the full SELECT statement.
func (g SQLite) CompileSelect(b *Builder) string { return compileSelect(g, b) }

// CompileExists compiles a SELECT EXISTS wrapper.
func (g SQLite) CompileExists(b *Builder) string { return compileExists(g, b) }

// CompileInsert compiles an INSERT with the DEFAULT VALUES zero-column form.
func (g SQLite) CompileInsert(b *Builder, columns []string, rows [][]any) string {
	return compileInsert(g, b, columns, rows, "DEFAULT VALUES")
}

// CompileUpdate compiles an UPDATE without ORDER BY/LIMIT.
func (g SQLite) CompileUpdate(b *Builder, columns []string, values []any) string {
	return compileUpdate(g, b, columns, values)
}

// CompileDelete compiles a DELETE without ORDER BY/LIMIT.
func (g SQLite) CompileDelete(b *Builder) string {
	return compileDelete(g, b)
}

// SupportsOrderedWrites reports that UPDATE and DELETE cannot carry
// ORDER BY/LIMIT clauses.
func (SQLite) SupportsOrderedWrites() bool { return false }

// CompileWhereDate compiles date-part predicates via strftime. The bound
// value is cast to text so comparisons against strftime output behave.
func (g SQLite) CompileWhereDate(w whereNode) string {
	var format string
	switch w.kind {
	case whereDate:
		format = "%Y-%m-%d"
	case whereTime:
		format = "%H:%M:%S"
	case whereDay:
		format = "%d"
	case whereMonth:
		format = "%m"
	case whereYear:
		format = "%Y"
	}
	return "strftime('" + format + "', " + g.Wrap(w.column) + ") " +
		strings.ToUpper(w.op) + " CAST(" + parameter(w.value) + " AS TEXT)"
}

var _ Grammar = SQLite{}
