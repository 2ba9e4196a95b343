// Package schema provides table blueprints, per-dialect DDL grammars, a
// schema facade and a batch migrator.
package schema

import (
	"github.com/artisandb/artisan"
)

// Blueprint accumulates one table's schema-change description: an ordered
// set of column definitions and an ordered set of commands (indexes,
// foreign keys, drops, renames). Build compiles the description into DDL
// statements through a dialect grammar.
type Blueprint struct {
	table    string
	columns  []*ColumnDefinition
	commands []*command
}

// NewBlueprint returns a blueprint for the named table.
func NewBlueprint(table string) *Blueprint {
	return &Blueprint{table: table}
}

// Table returns the table name the blueprint targets.
func (b *Blueprint) Table() string { return b.table }

// Columns returns the registered column definitions in order.
func (b *Blueprint) Columns() []*ColumnDefinition { return b.columns }

type command struct {
	name    string
	index   string
	columns []string
	from    string
	to      string
	fk      *ForeignKeyDefinition
}

func (b *Blueprint) addColumn(typ, name string) *ColumnDefinition {
	c := &ColumnDefinition{typ: typ, name: name}
	b.columns = append(b.columns, c)
	return c
}

// Increments adds an auto-incrementing unsigned integer primary key.
func (b *Blueprint) Increments(name string) *ColumnDefinition {
	return b.addColumn("integer", name).AutoIncrement().Unsigned().Primary()
}

// BigIncrements adds an auto-incrementing unsigned big integer primary key.
func (b *Blueprint) BigIncrements(name string) *ColumnDefinition {
	return b.addColumn("bigInteger", name).AutoIncrement().Unsigned().Primary()
}

// ID is shorthand for BigIncrements("id").
func (b *Blueprint) ID() *ColumnDefinition { return b.BigIncrements("id") }

// String adds a variable-length string column. The optional length defaults
// to 255.
func (b *Blueprint) String(name string, length ...int) *ColumnDefinition {
	c := b.addColumn("string", name)
	c.length = 255
	if len(length) > 0 {
		c.length = length[0]
	}
	return c
}

// Char adds a fixed-length string column.
func (b *Blueprint) Char(name string, length ...int) *ColumnDefinition {
	c := b.addColumn("char", name)
	c.length = 255
	if len(length) > 0 {
		c.length = length[0]
	}
	return c
}

// Text adds an unbounded text column.
func (b *Blueprint) Text(name string) *ColumnDefinition {
	return b.addColumn("text", name)
}

// Integer adds an integer column.
func (b *Blueprint) Integer(name string) *ColumnDefinition {
	return b.addColumn("integer", name)
}

// BigInteger adds a big integer column.
func (b *Blueprint) BigInteger(name string) *ColumnDefinition {
	return b.addColumn("bigInteger", name)
}

// UnsignedBigInteger adds an unsigned big integer column.
func (b *Blueprint) UnsignedBigInteger(name string) *ColumnDefinition {
	return b.addColumn("bigInteger", name).Unsigned()
}

// SmallInteger adds a small integer column.
func (b *Blueprint) SmallInteger(name string) *ColumnDefinition {
	return b.addColumn("smallInteger", name)
}

// TinyInteger adds a tiny integer column.
func (b *Blueprint) TinyInteger(name string) *ColumnDefinition {
	return b.addColumn("tinyInteger", name)
}

// Boolean adds a boolean column.
func (b *Blueprint) Boolean(name string) *ColumnDefinition {
	return b.addColumn("boolean", name)
}

// Decimal adds an exact-precision decimal column.
func (b *Blueprint) Decimal(name string, total, places int) *ColumnDefinition {
	c := b.addColumn("decimal", name)
	c.total, c.places = total, places
	return c
}

// Float adds a single-precision floating point column.
func (b *Blueprint) Float(name string) *ColumnDefinition {
	return b.addColumn("float", name)
}

// Double adds a double-precision floating point column.
func (b *Blueprint) Double(name string) *ColumnDefinition {
	return b.addColumn("double", name)
}

// Date adds a date column.
func (b *Blueprint) Date(name string) *ColumnDefinition {
	return b.addColumn("date", name)
}

// DateTime adds a date-and-time column.
func (b *Blueprint) DateTime(name string) *ColumnDefinition {
	return b.addColumn("dateTime", name)
}

// Time adds a time-of-day column.
func (b *Blueprint) Time(name string) *ColumnDefinition {
	return b.addColumn("time", name)
}

// Timestamp adds a timestamp column.
func (b *Blueprint) Timestamp(name string) *ColumnDefinition {
	return b.addColumn("timestamp", name)
}

// Timestamps adds nullable created_at and updated_at timestamp columns.
func (b *Blueprint) Timestamps() {
	b.Timestamp("created_at").Nullable()
	b.Timestamp("updated_at").Nullable()
}

// SoftDeletes adds a nullable deleted_at timestamp column.
func (b *Blueprint) SoftDeletes() *ColumnDefinition {
	return b.Timestamp("deleted_at").Nullable()
}

// UUID adds a uuid column.
func (b *Blueprint) UUID(name string) *ColumnDefinition {
	return b.addColumn("uuid", name)
}

// JSON adds a json column.
func (b *Blueprint) JSON(name string) *ColumnDefinition {
	return b.addColumn("json", name)
}

// Binary adds a binary blob column.
func (b *Blueprint) Binary(name string) *ColumnDefinition {
	return b.addColumn("binary", name)
}

// Enum adds an enumerated string column restricted to the allowed values.
func (b *Blueprint) Enum(name string, allowed []string) *ColumnDefinition {
	c := b.addColumn("enum", name)
	c.allowed = allowed
	return c
}

// Index registers a plain index over the columns. An empty name derives
// one from the table and columns.
func (b *Blueprint) Index(name string, columns ...string) *Blueprint {
	b.commands = append(b.commands, &command{name: "index", index: name, columns: columns})
	return b
}

// Unique registers a unique index over the columns.
func (b *Blueprint) Unique(name string, columns ...string) *Blueprint {
	b.commands = append(b.commands, &command{name: "unique", index: name, columns: columns})
	return b
}

// PrimaryKey registers a primary-key constraint over the columns.
func (b *Blueprint) PrimaryKey(columns ...string) *Blueprint {
	b.commands = append(b.commands, &command{name: "primary", columns: columns})
	return b
}

// Foreign registers a foreign-key command on the column and returns its
// definition for fluent chaining:
//
//	b.Foreign("user_id").References("id").On("users").OnDelete("CASCADE")
func (b *Blueprint) Foreign(column string) *ForeignKeyDefinition {
	fk := &ForeignKeyDefinition{column: column}
	b.commands = append(b.commands, &command{name: "foreign", fk: fk})
	return fk
}

// DropColumn registers a column drop.
func (b *Blueprint) DropColumn(columns ...string) *Blueprint {
	b.commands = append(b.commands, &command{name: "dropColumn", columns: columns})
	return b
}

// RenameColumn registers a column rename.
func (b *Blueprint) RenameColumn(from, to string) *Blueprint {
	b.commands = append(b.commands, &command{name: "renameColumn", from: from, to: to})
	return b
}

// RenameTable registers a table rename.
func (b *Blueprint) RenameTable(to string) *Blueprint {
	b.commands = append(b.commands, &command{name: "renameTable", to: to})
	return b
}

// DropIndex registers an index drop.
func (b *Blueprint) DropIndex(name string) *Blueprint {
	b.commands = append(b.commands, &command{name: "dropIndex", index: name})
	return b
}

// Blueprint methods accepted by Build.
const (
	MethodCreate       = "create"
	MethodAlter        = "alter"
	MethodDrop         = "drop"
	MethodDropIfExists = "dropIfExists"
)

// Build compiles the blueprint into an ordered sequence of DDL statements:
// the primary create/alter/drop statement first, then one statement per
// registered command. Commands the grammar does not recognize are skipped.
func (b *Blueprint) Build(g Grammar, method string) ([]string, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	var stmts []string
	switch method {
	case MethodCreate:
		stmt, err := g.CompileCreate(b)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	case MethodAlter:
		alter, err := g.CompileAlter(b)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, alter...)
	case MethodDrop:
		return []string{g.CompileDrop(b)}, nil
	case MethodDropIfExists:
		return []string{g.CompileDropIfExists(b)}, nil
	default:
		return nil, artisan.NewUsageError("unknown blueprint method %q", method)
	}
	for _, cmd := range b.commands {
		stmt, err := b.buildCommand(g, cmd)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt...)
	}
	return stmts, nil
}

func (b *Blueprint) buildCommand(g Grammar, cmd *command) ([]string, error) {
	switch cmd.name {
	case "index":
		return []string{g.CompileIndex(b, b.indexName(cmd, "index"), cmd.columns)}, nil
	case "unique":
		return []string{g.CompileUnique(b, b.indexName(cmd, "unique"), cmd.columns)}, nil
	case "primary":
		stmt, err := g.CompilePrimary(b, cmd.columns)
		if err != nil {
			return nil, err
		}
		return []string{stmt}, nil
	case "foreign":
		stmt, err := g.CompileForeign(b, cmd.fk)
		if err != nil {
			return nil, err
		}
		return []string{stmt}, nil
	case "dropColumn":
		return g.CompileDropColumn(b, cmd.columns)
	case "renameColumn":
		stmt, err := g.CompileRenameColumn(b, cmd.from, cmd.to)
		if err != nil {
			return nil, err
		}
		return []string{stmt}, nil
	case "renameTable":
		return []string{g.CompileRenameTable(b, cmd.to)}, nil
	case "dropIndex":
		return []string{g.CompileDropIndex(b, cmd.index)}, nil
	}
	// Unknown commands are skipped so future command kinds can be
	// registered without breaking older grammars.
	return nil, nil
}

// indexName returns the command's explicit index name, or derives
// table_col1_col2_suffix.
func (b *Blueprint) indexName(cmd *command, suffix string) string {
	if cmd.index != "" {
		return cmd.index
	}
	name := b.table
	for _, c := range cmd.columns {
		name += "_" + c
	}
	return name + "_" + suffix
}

// validate rejects malformed table and column identifiers before any SQL
// is assembled.
func (b *Blueprint) validate() error {
	if err := validateIdentifier(b.table); err != nil {
		return err
	}
	for _, c := range b.columns {
		if err := validateIdentifier(c.name); err != nil {
			return err
		}
	}
	for _, cmd := range b.commands {
		for _, col := range cmd.columns {
			if err := validateIdentifier(col); err != nil {
				return err
			}
		}
	}
	return nil
}
