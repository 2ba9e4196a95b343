package schema

// ColumnDefinition is the mutable attribute bag for one column: a logical
// type tag plus shape parameters, created by a Blueprint factory method and
// mutated through fluent modifier calls until the blueprint is compiled.
type ColumnDefinition struct {
	typ     string
	name    string
	length  int
	total   int
	places  int
	allowed []string

	nullable      bool
	unique        bool
	primary       bool
	autoIncrement bool
	unsigned      bool
	hasDefault    bool
	defaultValue  any
	first         bool
	after         string
	change        bool
	comment       string
}

// Name returns the column name.
func (c *ColumnDefinition) Name() string { return c.name }

// Type returns the logical type tag.
func (c *ColumnDefinition) Type() string { return c.typ }

// Nullable allows NULL values in the column.
func (c *ColumnDefinition) Nullable() *ColumnDefinition {
	c.nullable = true
	return c
}

// Default sets the column's default value. A dialect/sql.Expr value is
// inlined verbatim.
func (c *ColumnDefinition) Default(v any) *ColumnDefinition {
	c.hasDefault = true
	c.defaultValue = v
	return c
}

// Unique adds a unique constraint on the column.
func (c *ColumnDefinition) Unique() *ColumnDefinition {
	c.unique = true
	return c
}

// Primary marks the column as the primary key.
func (c *ColumnDefinition) Primary() *ColumnDefinition {
	c.primary = true
	return c
}

// AutoIncrement marks the column as auto-incrementing.
func (c *ColumnDefinition) AutoIncrement() *ColumnDefinition {
	c.autoIncrement = true
	return c
}

// Unsigned marks an integer column as unsigned. Dialects without unsigned
// types ignore the modifier.
func (c *ColumnDefinition) Unsigned() *ColumnDefinition {
	c.unsigned = true
	return c
}

// First positions the column first in the table on dialects that support
// column ordering.
func (c *ColumnDefinition) First() *ColumnDefinition {
	c.first = true
	return c
}

// After positions the column after the named one on dialects that support
// column ordering.
func (c *ColumnDefinition) After(column string) *ColumnDefinition {
	c.after = column
	return c
}

// Change marks the definition as modifying an existing column instead of
// adding a new one; only meaningful under the alter method.
func (c *ColumnDefinition) Change() *ColumnDefinition {
	c.change = true
	return c
}

// Comment attaches a comment on dialects that support column comments.
func (c *ColumnDefinition) Comment(comment string) *ColumnDefinition {
	c.comment = comment
	return c
}

// ForeignKeyDefinition accumulates one foreign-key constraint:
//
//	b.Foreign("user_id").References("id").On("users").OnDelete("CASCADE")
type ForeignKeyDefinition struct {
	column     string
	references string
	on         string
	onDelete   string
	onUpdate   string
	symbol     string
}

// References sets the referenced column.
func (f *ForeignKeyDefinition) References(column string) *ForeignKeyDefinition {
	f.references = column
	return f
}

// On sets the referenced table.
func (f *ForeignKeyDefinition) On(table string) *ForeignKeyDefinition {
	f.on = table
	return f
}

// OnDelete sets the referential action for deletes (e.g. CASCADE,
// SET NULL, RESTRICT).
func (f *ForeignKeyDefinition) OnDelete(action string) *ForeignKeyDefinition {
	f.onDelete = action
	return f
}

// OnUpdate sets the referential action for updates.
func (f *ForeignKeyDefinition) OnUpdate(action string) *ForeignKeyDefinition {
	f.onUpdate = action
	return f
}

// Name overrides the derived constraint symbol.
func (f *ForeignKeyDefinition) Name(symbol string) *ForeignKeyDefinition {
	f.symbol = symbol
	return f
}

// constraintName returns the explicit symbol or table_column_foreign.
func (f *ForeignKeyDefinition) constraintName(table string) string {
	if f.symbol != "" {
		return f.symbol
	}
	return table + "_" + f.column + "_foreign"
}
