package schema

import (
	"context"

	"github.com/artisandb/artisan"
	"github.com/artisandb/artisan/dialect"
	dsql "github.com/artisandb/artisan/dialect/sql"
)

// Schema sequences blueprint construction and statement execution against
// an explicitly supplied driver. There is no package-level instance; every
// caller passes its own driver.
type Schema struct {
	drv     dialect.Driver
	grammar Grammar
}

// New returns a schema facade for the driver's dialect.
func New(drv dialect.Driver) (*Schema, error) {
	g, ok := NewGrammar(drv.Dialect())
	if !ok {
		return nil, artisan.NewUsageError("unknown dialect %q", drv.Dialect())
	}
	return &Schema{drv: drv, grammar: g}, nil
}

// Grammar returns the active schema grammar.
func (s *Schema) Grammar() Grammar { return s.grammar }

// Create builds a blueprint through the callback and executes it as a
// table creation.
func (s *Schema) Create(ctx context.Context, table string, fn func(*Blueprint)) error {
	return s.run(ctx, table, MethodCreate, fn)
}

// Table builds a blueprint through the callback and executes it as a
// table alteration.
func (s *Schema) Table(ctx context.Context, table string, fn func(*Blueprint)) error {
	return s.run(ctx, table, MethodAlter, fn)
}

// Drop drops the table.
func (s *Schema) Drop(ctx context.Context, table string) error {
	return s.run(ctx, table, MethodDrop, nil)
}

// DropIfExists drops the table when present.
func (s *Schema) DropIfExists(ctx context.Context, table string) error {
	return s.run(ctx, table, MethodDropIfExists, nil)
}

// Rename renames a table.
func (s *Schema) Rename(ctx context.Context, from, to string) error {
	return s.run(ctx, from, MethodAlter, func(b *Blueprint) {
		b.RenameTable(to)
	})
}

func (s *Schema) run(ctx context.Context, table, method string, fn func(*Blueprint)) error {
	b := NewBlueprint(table)
	if fn != nil {
		fn(b)
	}
	stmts, err := b.Build(s.grammar, method)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return err
		}
	}
	return nil
}

// HasTable reports whether the table exists.
func (s *Schema) HasTable(ctx context.Context, table string) (bool, error) {
	query, args := s.grammar.CompileTableExists(table)
	return s.exists(ctx, query, args)
}

// HasColumn reports whether the column exists on the table.
func (s *Schema) HasColumn(ctx context.Context, table, column string) (bool, error) {
	query, args := s.grammar.CompileColumnExists(table, column)
	return s.exists(ctx, query, args)
}

func (s *Schema) exists(ctx context.Context, query string, args []any) (bool, error) {
	var rows dsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	var n int64
	if err := rows.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
