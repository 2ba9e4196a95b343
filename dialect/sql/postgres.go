package sql

import (
	"strings"

	"github.com/artisandb/artisan/dialect"
)

// Postgres is the PostgreSQL query grammar. Identifiers are quoted with
// double quotes and placeholders are numbered ($1..$n); the shared
// compilation emits ? marks which are rewritten in a final pass.
type Postgres struct{}

// Dialect returns the dialect name.
func (Postgres) Dialect() string { return dialect.Postgres }

// Wrap quotes a column identifier with double quotes.
func (Postgres) Wrap(column any) string { return wrap(column, '"') }

// WrapTable quotes a table identifier with double quotes.
func (Postgres) WrapTable(table any) string { return wrapTable(table, '"') }

// Operators returns the PostgreSQL-specific operator additions.
func (Postgres) Operators() []string {
	return []string{"ilike", "not ilike", "similar to", "not similar to", "~", "~*", "!~", "!~*", "@>", "<@"}
}

// CompileSelect compiles the full SELECT statement with numbered
// placeholders.
func (g Postgres) CompileSelect(b *Builder) string {
	return numberPlaceholders(compileSelect(g, b))
}

// CompileExists compiles a SELECT EXISTS wrapper.
func (g Postgres) CompileExists(b *Builder) string {
	return numberPlaceholders(compileExists(g, b))
}

// CompileInsert compiles an INSERT with the DEFAULT VALUES zero-column form.
func (g Postgres) CompileInsert(b *Builder, columns []string, rows [][]any) string {
	return numberPlaceholders(compileInsert(g, b, columns, rows, "DEFAULT VALUES"))
}

// CompileUpdate compiles an UPDATE without ORDER BY/LIMIT.
func (g Postgres) CompileUpdate(b *Builder, columns []string, values []any) string {
	return numberPlaceholders(compileUpdate(g, b, columns, values))
}

// CompileDelete compiles a DELETE without ORDER BY/LIMIT.
func (g Postgres) CompileDelete(b *Builder) string {
	return numberPlaceholders(compileDelete(g, b))
}

// SupportsOrderedWrites reports that UPDATE and DELETE cannot carry
// ORDER BY/LIMIT clauses.
func (Postgres) SupportsOrderedWrites() bool { return false }

// CompileWhereDate compiles date-part predicates using casts for whole
// date/time comparisons and EXTRACT for the numeric parts.
func (g Postgres) CompileWhereDate(w whereNode) string {
	op := strings.ToUpper(w.op)
	switch w.kind {
	case whereDate:
		return g.Wrap(w.column) + "::date " + op + " " + parameter(w.value)
	case whereTime:
		return g.Wrap(w.column) + "::time " + op + " " + parameter(w.value)
	case whereDay:
		return "EXTRACT(DAY FROM " + g.Wrap(w.column) + ") " + op + " " + parameter(w.value)
	case whereMonth:
		return "EXTRACT(MONTH FROM " + g.Wrap(w.column) + ") " + op + " " + parameter(w.value)
	case whereYear:
		return "EXTRACT(YEAR FROM " + g.Wrap(w.column) + ") " + op + " " + parameter(w.value)
	}
	return ""
}

var _ Grammar = Postgres{}
