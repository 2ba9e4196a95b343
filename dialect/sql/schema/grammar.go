package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/artisandb/artisan"
	"github.com/artisandb/artisan/dialect"
	dsql "github.com/artisandb/artisan/dialect/sql"
)

// Grammar compiles blueprint state into dialect DDL. One implementation
// exists per dialect; shared rendering logic lives in the free functions
// below, called explicitly by the variants.
type Grammar interface {
	// Dialect returns the dialect name the grammar compiles for.
	Dialect() string
	// Wrap quotes one identifier with the dialect's quote character.
	Wrap(name string) string
	// ColumnType maps a logical type tag plus shape parameters to the
	// dialect's native type. Unknown tags are a usage fault.
	ColumnType(c *ColumnDefinition) (string, error)
	// ColumnModifiers renders the modifier suffix (nullability, default,
	// auto-increment) for one column.
	ColumnModifiers(c *ColumnDefinition) (string, error)

	CompileCreate(b *Blueprint) (string, error)
	CompileAlter(b *Blueprint) ([]string, error)
	CompileDrop(b *Blueprint) string
	CompileDropIfExists(b *Blueprint) string
	CompileIndex(b *Blueprint, name string, columns []string) string
	CompileUnique(b *Blueprint, name string, columns []string) string
	CompileDropIndex(b *Blueprint, name string) string
	CompilePrimary(b *Blueprint, columns []string) (string, error)
	CompileForeign(b *Blueprint, fk *ForeignKeyDefinition) (string, error)
	CompileDropColumn(b *Blueprint, columns []string) ([]string, error)
	CompileRenameColumn(b *Blueprint, from, to string) (string, error)
	CompileRenameTable(b *Blueprint, to string) string

	// CompileTableExists returns a query selecting an "aggregate" count of
	// tables matching the name.
	CompileTableExists(table string) (string, []any)
	// CompileColumnExists returns a query selecting an "aggregate" count of
	// columns matching the table and name.
	CompileColumnExists(table, column string) (string, []any)
}

// NewGrammar returns the schema grammar for the named dialect.
func NewGrammar(name string) (Grammar, bool) {
	switch name {
	case dialect.MySQL:
		return MySQL{}, true
	case dialect.SQLite, "sqlite3":
		return SQLite{}, true
	case dialect.Postgres, "postgresql":
		return Postgres{}, true
	}
	return nil, false
}

// validIdentifierRe validates table and column identifiers before they are
// interpolated into DDL text.
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func validateIdentifier(s string) error {
	if s == "" || len(s) > 128 || !validIdentifierRe.MatchString(s) {
		return artisan.NewUsageError("invalid identifier %q", s)
	}
	return nil
}

// quoteWith quotes an identifier with the given character, doubling any
// embedded occurrence.
func quoteWith(quote, name string) string {
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

// columnize wraps and comma-joins a list of column names.
func columnize(g Grammar, columns []string) string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = g.Wrap(c)
	}
	return strings.Join(out, ", ")
}

// columnSQL renders one full column clause: wrapped name, native type and
// modifier suffix.
func columnSQL(g Grammar, c *ColumnDefinition) (string, error) {
	typ, err := g.ColumnType(c)
	if err != nil {
		return "", err
	}
	mods, err := g.ColumnModifiers(c)
	if err != nil {
		return "", err
	}
	return g.Wrap(c.name) + " " + typ + mods, nil
}

// compileCreate renders the CREATE TABLE statement shared by all dialects.
func compileCreate(g Grammar, b *Blueprint) (string, error) {
	cols := make([]string, len(b.columns))
	for i, c := range b.columns {
		sql, err := columnSQL(g, c)
		if err != nil {
			return "", err
		}
		cols[i] = sql
	}
	return "CREATE TABLE " + g.Wrap(b.table) + " (" + strings.Join(cols, ", ") + ")", nil
}

// compileAlter renders one ALTER TABLE statement per added or changed
// column. Changing uses the dialect verb passed by the caller; an empty
// verb means the dialect cannot modify columns in place.
func compileAlter(g Grammar, b *Blueprint, changeVerb string) ([]string, error) {
	var stmts []string
	for _, c := range b.columns {
		sql, err := columnSQL(g, c)
		if err != nil {
			return nil, err
		}
		verb := "ADD COLUMN"
		if c.change {
			if changeVerb == "" {
				return nil, artisan.NewUnsupportedError(g.Dialect(), "modifying existing columns")
			}
			verb = changeVerb
		}
		stmts = append(stmts, "ALTER TABLE "+g.Wrap(b.table)+" "+verb+" "+sql)
	}
	return stmts, nil
}

func compileDrop(g Grammar, b *Blueprint) string {
	return "DROP TABLE " + g.Wrap(b.table)
}

func compileDropIfExists(g Grammar, b *Blueprint) string {
	return "DROP TABLE IF EXISTS " + g.Wrap(b.table)
}

func compileIndex(g Grammar, b *Blueprint, name string, columns []string, unique bool) string {
	kw := "CREATE INDEX "
	if unique {
		kw = "CREATE UNIQUE INDEX "
	}
	return kw + g.Wrap(name) + " ON " + g.Wrap(b.table) + " (" + columnize(g, columns) + ")"
}

func compileForeign(g Grammar, b *Blueprint, fk *ForeignKeyDefinition) (string, error) {
	if fk.references == "" || fk.on == "" {
		return "", artisan.NewUsageError("foreign key on %q requires References and On", fk.column)
	}
	var sb strings.Builder
	sb.WriteString("ALTER TABLE ")
	sb.WriteString(g.Wrap(b.table))
	sb.WriteString(" ADD CONSTRAINT ")
	sb.WriteString(g.Wrap(fk.constraintName(b.table)))
	sb.WriteString(" FOREIGN KEY (")
	sb.WriteString(g.Wrap(fk.column))
	sb.WriteString(") REFERENCES ")
	sb.WriteString(g.Wrap(fk.on))
	sb.WriteString(" (")
	sb.WriteString(g.Wrap(fk.references))
	sb.WriteString(")")
	if fk.onDelete != "" {
		sb.WriteString(" ON DELETE " + strings.ToUpper(fk.onDelete))
	}
	if fk.onUpdate != "" {
		sb.WriteString(" ON UPDATE " + strings.ToUpper(fk.onUpdate))
	}
	return sb.String(), nil
}

func compileDropColumn(g Grammar, b *Blueprint, columns []string) []string {
	stmts := make([]string, len(columns))
	for i, c := range columns {
		stmts[i] = "ALTER TABLE " + g.Wrap(b.table) + " DROP COLUMN " + g.Wrap(c)
	}
	return stmts
}

func compileRenameColumn(g Grammar, b *Blueprint, from, to string) string {
	return "ALTER TABLE " + g.Wrap(b.table) + " RENAME COLUMN " + g.Wrap(from) + " TO " + g.Wrap(to)
}

// defaultValue renders a column default. Raw expressions pass through
// verbatim, strings are single-quoted with doubling, booleans use the
// dialect's literal.
func defaultValue(v any, boolTrue, boolFalse string) string {
	switch d := v.(type) {
	case dsql.Expr:
		return d.String()
	case string:
		return "'" + strings.ReplaceAll(d, "'", "''") + "'"
	case bool:
		if d {
			return boolTrue
		}
		return boolFalse
	case nil:
		return "NULL"
	default:
		return fmt.Sprint(d)
	}
}
