package schema

import (
	"strings"

	"github.com/artisandb/artisan"
	"github.com/artisandb/artisan/dialect"
)

// SQLite compiles blueprints into SQLite DDL. Operations the dialect
// cannot express without a table rebuild (dropping columns, adding
// constraints after creation) raise artisan.UnsupportedError instead of
// emitting non-executable SQL.
type SQLite struct{}

func (SQLite) Dialect() string { return dialect.SQLite }

func (SQLite) Wrap(name string) string { return quoteWith(`"`, name) }

func (SQLite) ColumnType(c *ColumnDefinition) (string, error) {
	switch c.typ {
	case "string", "char", "text", "uuid", "enum", "json":
		return "TEXT", nil
	case "integer", "bigInteger", "smallInteger", "tinyInteger", "boolean":
		return "INTEGER", nil
	case "decimal":
		return "NUMERIC", nil
	case "float", "double":
		return "REAL", nil
	case "date":
		return "DATE", nil
	case "dateTime", "timestamp":
		return "DATETIME", nil
	case "time":
		return "TIME", nil
	case "binary":
		return "BLOB", nil
	}
	return "", artisan.NewUsageError("unknown column type %q", c.typ)
}

func (SQLite) ColumnModifiers(c *ColumnDefinition) (string, error) {
	var sb strings.Builder
	// INTEGER PRIMARY KEY AUTOINCREMENT is the only rowid alias form.
	if c.autoIncrement {
		sb.WriteString(" PRIMARY KEY AUTOINCREMENT")
	} else if c.primary {
		sb.WriteString(" PRIMARY KEY")
	}
	if !c.nullable && !c.autoIncrement {
		sb.WriteString(" NOT NULL")
	}
	if c.hasDefault {
		sb.WriteString(" DEFAULT " + defaultValue(c.defaultValue, "1", "0"))
	}
	if c.unique {
		sb.WriteString(" UNIQUE")
	}
	return sb.String(), nil
}

func (g SQLite) CompileCreate(b *Blueprint) (string, error) { return compileCreate(g, b) }

func (g SQLite) CompileAlter(b *Blueprint) ([]string, error) {
	return compileAlter(g, b, "")
}

func (g SQLite) CompileDrop(b *Blueprint) string         { return compileDrop(g, b) }
func (g SQLite) CompileDropIfExists(b *Blueprint) string { return compileDropIfExists(g, b) }

func (g SQLite) CompileIndex(b *Blueprint, name string, columns []string) string {
	return compileIndex(g, b, name, columns, false)
}

func (g SQLite) CompileUnique(b *Blueprint, name string, columns []string) string {
	return compileIndex(g, b, name, columns, true)
}

func (g SQLite) CompileDropIndex(b *Blueprint, name string) string {
	return "DROP INDEX " + g.Wrap(name)
}

func (g SQLite) CompilePrimary(_ *Blueprint, _ []string) (string, error) {
	return "", artisan.NewUnsupportedError(dialect.SQLite, "adding a primary key after table creation")
}

func (g SQLite) CompileForeign(_ *Blueprint, _ *ForeignKeyDefinition) (string, error) {
	return "", artisan.NewUnsupportedError(dialect.SQLite, "adding a foreign key after table creation")
}

func (g SQLite) CompileDropColumn(_ *Blueprint, _ []string) ([]string, error) {
	return nil, artisan.NewUnsupportedError(dialect.SQLite, "dropping columns")
}

func (g SQLite) CompileRenameColumn(b *Blueprint, from, to string) (string, error) {
	return compileRenameColumn(g, b, from, to), nil
}

func (g SQLite) CompileRenameTable(b *Blueprint, to string) string {
	return "ALTER TABLE " + g.Wrap(b.table) + " RENAME TO " + g.Wrap(to)
}

func (SQLite) CompileTableExists(table string) (string, []any) {
	return "SELECT COUNT(*) AS aggregate FROM sqlite_master WHERE type = 'table' AND name = ?", []any{table}
}

func (SQLite) CompileColumnExists(table, column string) (string, []any) {
	return "SELECT COUNT(*) AS aggregate FROM pragma_table_info(?) WHERE name = ?", []any{table, column}
}

var _ Grammar = SQLite{}
