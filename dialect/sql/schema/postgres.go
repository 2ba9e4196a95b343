package schema

import (
	"strconv"
	"strings"

	"github.com/artisandb/artisan"
	"github.com/artisandb/artisan/dialect"
)

// Postgres compiles blueprints into PostgreSQL DDL.
type Postgres struct{}

func (Postgres) Dialect() string { return dialect.Postgres }

func (Postgres) Wrap(name string) string { return quoteWith(`"`, name) }

func (Postgres) ColumnType(c *ColumnDefinition) (string, error) {
	switch c.typ {
	case "string":
		return "VARCHAR(" + strconv.Itoa(c.length) + ")", nil
	case "char":
		return "CHAR(" + strconv.Itoa(c.length) + ")", nil
	case "text":
		return "TEXT", nil
	case "integer":
		if c.autoIncrement {
			return "SERIAL", nil
		}
		return "INTEGER", nil
	case "bigInteger":
		if c.autoIncrement {
			return "BIGSERIAL", nil
		}
		return "BIGINT", nil
	case "smallInteger", "tinyInteger":
		return "SMALLINT", nil
	case "boolean":
		return "BOOLEAN", nil
	case "decimal":
		return "DECIMAL(" + strconv.Itoa(c.total) + ", " + strconv.Itoa(c.places) + ")", nil
	case "float":
		return "REAL", nil
	case "double":
		return "DOUBLE PRECISION", nil
	case "date":
		return "DATE", nil
	case "dateTime", "timestamp":
		return "TIMESTAMP", nil
	case "time":
		return "TIME", nil
	case "uuid":
		return "UUID", nil
	case "json":
		return "JSONB", nil
	case "binary":
		return "BYTEA", nil
	case "enum":
		// Plain text column with a CHECK constraint instead of a named
		// enum type, so the blueprint stays self-contained.
		quoted := make([]string, len(c.allowed))
		for i, v := range c.allowed {
			quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		}
		return "VARCHAR(255) CHECK (" + quoteWith(`"`, c.name) + " IN (" + strings.Join(quoted, ", ") + "))", nil
	}
	return "", artisan.NewUsageError("unknown column type %q", c.typ)
}

func (g Postgres) ColumnModifiers(c *ColumnDefinition) (string, error) {
	var sb strings.Builder
	if !c.nullable {
		sb.WriteString(" NOT NULL")
	}
	if c.hasDefault {
		sb.WriteString(" DEFAULT " + defaultValue(c.defaultValue, "TRUE", "FALSE"))
	}
	if c.primary {
		sb.WriteString(" PRIMARY KEY")
	}
	if c.unique {
		sb.WriteString(" UNIQUE")
	}
	return sb.String(), nil
}

func (g Postgres) CompileCreate(b *Blueprint) (string, error) { return compileCreate(g, b) }

func (g Postgres) CompileAlter(b *Blueprint) ([]string, error) {
	var stmts []string
	for _, c := range b.columns {
		if c.change {
			typ, err := g.ColumnType(c)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, "ALTER TABLE "+g.Wrap(b.table)+" ALTER COLUMN "+g.Wrap(c.name)+" TYPE "+typ)
			continue
		}
		sql, err := columnSQL(g, c)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, "ALTER TABLE "+g.Wrap(b.table)+" ADD COLUMN "+sql)
	}
	return stmts, nil
}

func (g Postgres) CompileDrop(b *Blueprint) string         { return compileDrop(g, b) }
func (g Postgres) CompileDropIfExists(b *Blueprint) string { return compileDropIfExists(g, b) }

func (g Postgres) CompileIndex(b *Blueprint, name string, columns []string) string {
	return compileIndex(g, b, name, columns, false)
}

func (g Postgres) CompileUnique(b *Blueprint, name string, columns []string) string {
	return compileIndex(g, b, name, columns, true)
}

func (g Postgres) CompileDropIndex(_ *Blueprint, name string) string {
	return "DROP INDEX " + g.Wrap(name)
}

func (g Postgres) CompilePrimary(b *Blueprint, columns []string) (string, error) {
	return "ALTER TABLE " + g.Wrap(b.table) + " ADD PRIMARY KEY (" + columnize(g, columns) + ")", nil
}

func (g Postgres) CompileForeign(b *Blueprint, fk *ForeignKeyDefinition) (string, error) {
	return compileForeign(g, b, fk)
}

func (g Postgres) CompileDropColumn(b *Blueprint, columns []string) ([]string, error) {
	return compileDropColumn(g, b, columns), nil
}

func (g Postgres) CompileRenameColumn(b *Blueprint, from, to string) (string, error) {
	return compileRenameColumn(g, b, from, to), nil
}

func (g Postgres) CompileRenameTable(b *Blueprint, to string) string {
	return "ALTER TABLE " + g.Wrap(b.table) + " RENAME TO " + g.Wrap(to)
}

func (Postgres) CompileTableExists(table string) (string, []any) {
	return "SELECT COUNT(*) AS aggregate FROM information_schema.tables WHERE table_schema = CURRENT_SCHEMA() AND table_name = $1", []any{table}
}

func (Postgres) CompileColumnExists(table, column string) (string, []any) {
	return "SELECT COUNT(*) AS aggregate FROM information_schema.columns WHERE table_schema = CURRENT_SCHEMA() AND table_name = $1 AND column_name = $2", []any{table, column}
}

var _ Grammar = Postgres{}
