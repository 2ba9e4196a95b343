package schema

import (
	"strconv"
	"strings"

	"github.com/artisandb/artisan"
	"github.com/artisandb/artisan/dialect"
)

// MySQL compiles blueprints into MySQL DDL.
type MySQL struct{}

func (MySQL) Dialect() string { return dialect.MySQL }

func (MySQL) Wrap(name string) string { return quoteWith("`", name) }

func (g MySQL) ColumnType(c *ColumnDefinition) (string, error) {
	switch c.typ {
	case "string":
		return "VARCHAR(" + strconv.Itoa(c.length) + ")", nil
	case "char":
		return "CHAR(" + strconv.Itoa(c.length) + ")", nil
	case "text":
		return "TEXT", nil
	case "integer":
		return "INT", nil
	case "bigInteger":
		return "BIGINT", nil
	case "smallInteger":
		return "SMALLINT", nil
	case "tinyInteger":
		return "TINYINT", nil
	case "boolean":
		return "TINYINT(1)", nil
	case "decimal":
		return "DECIMAL(" + strconv.Itoa(c.total) + ", " + strconv.Itoa(c.places) + ")", nil
	case "float":
		return "FLOAT", nil
	case "double":
		return "DOUBLE", nil
	case "date":
		return "DATE", nil
	case "dateTime":
		return "DATETIME", nil
	case "time":
		return "TIME", nil
	case "timestamp":
		return "TIMESTAMP", nil
	case "uuid":
		return "CHAR(36)", nil
	case "json":
		return "JSON", nil
	case "binary":
		return "BLOB", nil
	case "enum":
		quoted := make([]string, len(c.allowed))
		for i, v := range c.allowed {
			quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		}
		return "ENUM(" + strings.Join(quoted, ", ") + ")", nil
	}
	return "", artisan.NewUsageError("unknown column type %q", c.typ)
}

func (g MySQL) ColumnModifiers(c *ColumnDefinition) (string, error) {
	var sb strings.Builder
	if c.unsigned {
		sb.WriteString(" UNSIGNED")
	}
	if !c.nullable {
		sb.WriteString(" NOT NULL")
	}
	if c.hasDefault {
		sb.WriteString(" DEFAULT " + defaultValue(c.defaultValue, "1", "0"))
	}
	if c.autoIncrement {
		sb.WriteString(" AUTO_INCREMENT")
	}
	if c.primary {
		sb.WriteString(" PRIMARY KEY")
	}
	if c.unique {
		sb.WriteString(" UNIQUE")
	}
	if c.comment != "" {
		sb.WriteString(" COMMENT '" + strings.ReplaceAll(c.comment, "'", "''") + "'")
	}
	if c.first {
		sb.WriteString(" FIRST")
	} else if c.after != "" {
		sb.WriteString(" AFTER " + g.Wrap(c.after))
	}
	return sb.String(), nil
}

func (g MySQL) CompileCreate(b *Blueprint) (string, error) { return compileCreate(g, b) }

func (g MySQL) CompileAlter(b *Blueprint) ([]string, error) {
	return compileAlter(g, b, "MODIFY COLUMN")
}

func (g MySQL) CompileDrop(b *Blueprint) string         { return compileDrop(g, b) }
func (g MySQL) CompileDropIfExists(b *Blueprint) string { return compileDropIfExists(g, b) }

func (g MySQL) CompileIndex(b *Blueprint, name string, columns []string) string {
	return compileIndex(g, b, name, columns, false)
}

func (g MySQL) CompileUnique(b *Blueprint, name string, columns []string) string {
	return compileIndex(g, b, name, columns, true)
}

func (g MySQL) CompileDropIndex(b *Blueprint, name string) string {
	return "DROP INDEX " + g.Wrap(name) + " ON " + g.Wrap(b.table)
}

func (g MySQL) CompilePrimary(b *Blueprint, columns []string) (string, error) {
	return "ALTER TABLE " + g.Wrap(b.table) + " ADD PRIMARY KEY (" + columnize(g, columns) + ")", nil
}

func (g MySQL) CompileForeign(b *Blueprint, fk *ForeignKeyDefinition) (string, error) {
	return compileForeign(g, b, fk)
}

func (g MySQL) CompileDropColumn(b *Blueprint, columns []string) ([]string, error) {
	return compileDropColumn(g, b, columns), nil
}

func (g MySQL) CompileRenameColumn(b *Blueprint, from, to string) (string, error) {
	return compileRenameColumn(g, b, from, to), nil
}

func (g MySQL) CompileRenameTable(b *Blueprint, to string) string {
	return "RENAME TABLE " + g.Wrap(b.table) + " TO " + g.Wrap(to)
}

func (MySQL) CompileTableExists(table string) (string, []any) {
	return "SELECT COUNT(*) AS aggregate FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", []any{table}
}

func (MySQL) CompileColumnExists(table, column string) (string, []any) {
	return "SELECT COUNT(*) AS aggregate FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?", []any{table, column}
}

var _ Grammar = MySQL{}
