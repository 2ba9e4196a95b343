package sql

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/artisandb/artisan"
	"github.com/artisandb/artisan/dialect"
)

// Record is one raw database row keyed by column name.
type Record map[string]any

// Builder is a mutable fluent accumulator of one query's shape. Clause
// methods record typed where nodes and append matching bindings in the
// same call; terminal operations compile via the grammar, execute against
// the connection and hydrate the results.
//
// A Builder is single-use for one logical statement: after a terminal read
// the shape state is reset in place so the same instance can build a fresh
// query, while the connection, grammar and model binding persist. Builders
// must not be shared across concurrent goroutines.
type Builder struct {
	conn    dialect.ExecQuerier
	grammar Grammar
	model   Model
	err     error

	aggregate *aggregateSpec
	columns   []any
	distinct  bool
	from      string
	joins     []*JoinClause
	wheres    []whereNode
	groups    []string
	havings   []whereNode
	orders    []orderSpec
	limit     int
	offset    int
	eager     map[string]func(*Builder)
	bindings  bindings
}

type aggregateSpec struct {
	fn      string
	columns []any
}

type orderSpec struct {
	column    string
	direction string
	raw       string
}

// Sort directions accepted by OrderBy.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// NewBuilder returns a builder compiling for the named dialect and
// executing against conn. A nil conn yields a compile-only builder.
func NewBuilder(dialectName string, conn dialect.ExecQuerier) *Builder {
	b := &Builder{conn: conn, limit: -1, offset: -1, bindings: newBindings()}
	g, ok := NewGrammar(dialectName)
	if !ok {
		b.grammar = MySQL{}
		b.err = artisan.NewUsageError("unknown dialect %q", dialectName)
		return b
	}
	b.grammar = g
	return b
}

// DialectBuilder returns a compile-only builder for the named dialect,
// useful for inspecting generated SQL without a connection.
func DialectBuilder(name string) *Builder {
	return NewBuilder(name, nil)
}

// Err returns the first deferred usage fault recorded by clause methods,
// if any. Terminal operations surface the same error.
func (b *Builder) Err() error { return b.err }

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) addBinding(bucket string, v any) {
	if err := b.bindings.add(bucket, v); err != nil {
		b.setErr(err)
	}
}

// Table sets the target table. The "table AS alias" form is recognized.
func (b *Builder) Table(name string) *Builder {
	b.from = name
	return b
}

// From is an alias for Table.
func (b *Builder) From(name string) *Builder { return b.Table(name) }

// Model binds a domain model: rows hydrate into instances of it, its
// table becomes the default target, and Find/Delete(id) use its key.
func (b *Builder) Model(m Model) *Builder {
	b.model = m
	if b.from == "" {
		b.from = TableName(m)
	}
	return b
}

// Select replaces the projected columns. Columns may be strings or Expr
// values; any previously accumulated select bindings are discarded.
func (b *Builder) Select(columns ...any) *Builder {
	b.columns = nil
	b.bindings.buckets["select"] = nil
	return b.AddSelect(columns...)
}

// AddSelect appends projected columns.
func (b *Builder) AddSelect(columns ...any) *Builder {
	for _, c := range columns {
		switch c.(type) {
		case string, Expr:
			b.columns = append(b.columns, c)
		default:
			b.setErr(artisan.NewUsageError("invalid select column type %T", c))
		}
	}
	return b
}

// SelectRaw appends a raw projection with its bindings.
func (b *Builder) SelectRaw(sql string, values ...any) *Builder {
	b.columns = append(b.columns, Raw(sql))
	for _, v := range values {
		b.addBinding("select", v)
	}
	return b
}

// Distinct marks the query as SELECT DISTINCT.
func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

// Where adds an AND predicate. Three input shapes are accepted:
//
//	b.Where("age", ">", 18)          // column, operator, value
//	b.Where("active", true)          // column, value — operator defaults to =
//	b.Where(Record{"a": 1, "b": 2})  // mapping, each pair compared with =
//	b.Where(func(q *Builder) {...})  // nested, parenthesized group
func (b *Builder) Where(column any, args ...any) *Builder {
	return b.where("AND", column, args...)
}

// OrWhere adds an OR predicate with the same input shapes as Where.
func (b *Builder) OrWhere(column any, args ...any) *Builder {
	return b.where("OR", column, args...)
}

func (b *Builder) where(boolean string, column any, args ...any) *Builder {
	switch c := column.(type) {
	case func(*Builder):
		return b.whereNested(boolean, c)
	case Record:
		return b.whereMap(boolean, c)
	case map[string]any:
		return b.whereMap(boolean, c)
	case string:
		op, value, err := splitOperator(b.grammar, args)
		if err != nil {
			b.setErr(err)
			return b
		}
		b.wheres = append(b.wheres, whereNode{
			kind:    whereBasic,
			column:  c,
			op:      op,
			value:   value,
			boolean: boolean,
		})
		b.addBinding("where", value)
		return b
	default:
		b.setErr(artisan.NewUsageError("invalid where column type %T", column))
		return b
	}
}

// splitOperator normalizes the (operator, value) tail of a where call and
// validates the operator against the allow-list plus dialect additions.
func splitOperator(g Grammar, args []any) (op string, value any, err error) {
	switch len(args) {
	case 1:
		return "=", args[0], nil
	case 2:
		s, ok := args[0].(string)
		if !ok {
			return "", nil, artisan.NewUsageError("operator must be a string, got %T", args[0])
		}
		if !validOperator(g, s) {
			return "", nil, artisan.NewUsageError("invalid operator %q", s)
		}
		return s, args[1], nil
	default:
		return "", nil, artisan.NewUsageError("where expects (column, value) or (column, operator, value)")
	}
}

// whereMap adds one basic equality node per pair, in sorted column order
// for deterministic compilation.
func (b *Builder) whereMap(boolean string, m map[string]any) *Builder {
	cols := make([]string, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	for _, c := range cols {
		b.where(boolean, c, m[c])
	}
	return b
}

// whereNested wraps the callback's accumulated predicates as one
// parenthesized group. An empty callback contributes nothing.
func (b *Builder) whereNested(boolean string, fn func(*Builder)) *Builder {
	nested := b.forSubQuery()
	fn(nested)
	if nested.err != nil {
		b.setErr(nested.err)
		return b
	}
	if len(nested.wheres) == 0 {
		return b
	}
	b.wheres = append(b.wheres, whereNode{kind: whereNested, query: nested, boolean: boolean})
	b.mergeBindings(nested)
	return b
}

// forSubQuery returns a fresh builder sharing this builder's dialect and
// connection context.
func (b *Builder) forSubQuery() *Builder {
	return &Builder{
		conn:     b.conn,
		grammar:  b.grammar,
		limit:    -1,
		offset:   -1,
		bindings: newBindings(),
	}
}

// mergeBindings flattens the sub-builder's bindings into this builder's
// where bucket, in the same left-to-right order its placeholders appear.
func (b *Builder) mergeBindings(sub *Builder) {
	for _, v := range sub.bindings.flatten() {
		b.addBinding("where", v)
	}
}

// WhereIn adds an AND "column IN ..." predicate. The values argument may
// be a slice of scalars, a func(*Builder) subquery callback, or another
// *Builder used as a subquery. An empty slice compiles to an always-false
// predicate instead of invalid SQL.
func (b *Builder) WhereIn(column string, values any) *Builder {
	return b.whereIn("AND", column, values, false)
}

// OrWhereIn adds an OR IN predicate.
func (b *Builder) OrWhereIn(column string, values any) *Builder {
	return b.whereIn("OR", column, values, false)
}

// WhereNotIn adds an AND NOT IN predicate. An empty slice compiles to an
// always-true predicate.
func (b *Builder) WhereNotIn(column string, values any) *Builder {
	return b.whereIn("AND", column, values, true)
}

// OrWhereNotIn adds an OR NOT IN predicate.
func (b *Builder) OrWhereNotIn(column string, values any) *Builder {
	return b.whereIn("OR", column, values, true)
}

func (b *Builder) whereIn(boolean, column string, values any, not bool) *Builder {
	switch v := values.(type) {
	case func(*Builder):
		sub := b.forSubQuery()
		v(sub)
		if sub.err != nil {
			b.setErr(sub.err)
			return b
		}
		b.wheres = append(b.wheres, whereNode{kind: whereInSub, column: column, query: sub, not: not, boolean: boolean})
		b.mergeBindings(sub)
	case *Builder:
		b.wheres = append(b.wheres, whereNode{kind: whereInSub, column: column, query: v, not: not, boolean: boolean})
		b.mergeBindings(v)
	default:
		list, err := toAnySlice(values)
		if err != nil {
			b.setErr(err)
			return b
		}
		b.wheres = append(b.wheres, whereNode{kind: whereIn, column: column, values: list, not: not, boolean: boolean})
		for _, item := range list {
			b.addBinding("where", item)
		}
	}
	return b
}

// WhereNull adds an AND "column IS NULL" predicate.
func (b *Builder) WhereNull(column string) *Builder {
	b.wheres = append(b.wheres, whereNode{kind: whereNull, column: column, boolean: "AND"})
	return b
}

// OrWhereNull adds an OR IS NULL predicate.
func (b *Builder) OrWhereNull(column string) *Builder {
	b.wheres = append(b.wheres, whereNode{kind: whereNull, column: column, boolean: "OR"})
	return b
}

// WhereNotNull adds an AND "column IS NOT NULL" predicate.
func (b *Builder) WhereNotNull(column string) *Builder {
	b.wheres = append(b.wheres, whereNode{kind: whereNull, column: column, not: true, boolean: "AND"})
	return b
}

// OrWhereNotNull adds an OR IS NOT NULL predicate.
func (b *Builder) OrWhereNotNull(column string) *Builder {
	b.wheres = append(b.wheres, whereNode{kind: whereNull, column: column, not: true, boolean: "OR"})
	return b
}

// WhereBetween adds an AND "column BETWEEN ? AND ?" predicate. The values
// slice must hold exactly two elements, bound in that order.
func (b *Builder) WhereBetween(column string, values []any) *Builder {
	return b.whereBetween("AND", column, values, false)
}

// OrWhereBetween adds an OR BETWEEN predicate.
func (b *Builder) OrWhereBetween(column string, values []any) *Builder {
	return b.whereBetween("OR", column, values, false)
}

// WhereNotBetween adds an AND NOT BETWEEN predicate.
func (b *Builder) WhereNotBetween(column string, values []any) *Builder {
	return b.whereBetween("AND", column, values, true)
}

func (b *Builder) whereBetween(boolean, column string, values []any, not bool) *Builder {
	if len(values) != 2 {
		b.setErr(artisan.NewUsageError("whereBetween expects exactly two values, got %d", len(values)))
		return b
	}
	b.wheres = append(b.wheres, whereNode{kind: whereBetween, column: column, values: values, not: not, boolean: boolean})
	b.addBinding("where", values[0])
	b.addBinding("where", values[1])
	return b
}

// WhereColumn adds an AND predicate comparing two columns. Neither side is
// ever bound as a parameter. With one trailing argument the operator
// defaults to =; with two, the first is the operator.
func (b *Builder) WhereColumn(first string, rest ...string) *Builder {
	return b.whereColumn("AND", first, rest...)
}

// OrWhereColumn adds an OR column-to-column predicate.
func (b *Builder) OrWhereColumn(first string, rest ...string) *Builder {
	return b.whereColumn("OR", first, rest...)
}

func (b *Builder) whereColumn(boolean, first string, rest ...string) *Builder {
	var op, second string
	switch len(rest) {
	case 1:
		op, second = "=", rest[0]
	case 2:
		op, second = rest[0], rest[1]
		if !validOperator(b.grammar, op) {
			b.setErr(artisan.NewUsageError("invalid operator %q", op))
			return b
		}
	default:
		b.setErr(artisan.NewUsageError("whereColumn expects (first, second) or (first, operator, second)"))
		return b
	}
	b.wheres = append(b.wheres, whereNode{kind: whereColumn, column: first, op: op, second: second, boolean: boolean})
	return b
}

// WhereRaw adds an AND raw SQL predicate. Its bindings must be given in
// the same order the ? marks appear in the fragment.
func (b *Builder) WhereRaw(sql string, values ...any) *Builder {
	return b.whereRaw("AND", sql, values...)
}

// OrWhereRaw adds an OR raw SQL predicate.
func (b *Builder) OrWhereRaw(sql string, values ...any) *Builder {
	return b.whereRaw("OR", sql, values...)
}

func (b *Builder) whereRaw(boolean, sql string, values ...any) *Builder {
	b.wheres = append(b.wheres, whereNode{kind: whereRaw, sql: sql, boolean: boolean})
	for _, v := range values {
		b.addBinding("where", v)
	}
	return b
}

// WhereDate adds an AND predicate on the date part of a column.
func (b *Builder) WhereDate(column, op string, value any) *Builder {
	return b.whereDatePart(whereDate, column, op, value)
}

// WhereTime adds an AND predicate on the time part of a column.
func (b *Builder) WhereTime(column, op string, value any) *Builder {
	return b.whereDatePart(whereTime, column, op, value)
}

// WhereDay adds an AND predicate on the day part of a column.
func (b *Builder) WhereDay(column, op string, value any) *Builder {
	return b.whereDatePart(whereDay, column, op, value)
}

// WhereMonth adds an AND predicate on the month part of a column.
func (b *Builder) WhereMonth(column, op string, value any) *Builder {
	return b.whereDatePart(whereMonth, column, op, value)
}

// WhereYear adds an AND predicate on the year part of a column.
func (b *Builder) WhereYear(column, op string, value any) *Builder {
	return b.whereDatePart(whereYear, column, op, value)
}

func (b *Builder) whereDatePart(kind whereKind, column, op string, value any) *Builder {
	if !validOperator(b.grammar, op) {
		b.setErr(artisan.NewUsageError("invalid operator %q", op))
		return b
	}
	b.wheres = append(b.wheres, whereNode{kind: kind, column: column, op: op, value: value, boolean: "AND"})
	b.addBinding("where", value)
	return b
}

// GroupBy appends grouping columns.
func (b *Builder) GroupBy(columns ...string) *Builder {
	b.groups = append(b.groups, columns...)
	return b
}

// Having adds an AND HAVING predicate, compiled after GROUP BY.
func (b *Builder) Having(column string, args ...any) *Builder {
	return b.having("AND", column, args...)
}

// OrHaving adds an OR HAVING predicate.
func (b *Builder) OrHaving(column string, args ...any) *Builder {
	return b.having("OR", column, args...)
}

func (b *Builder) having(boolean, column string, args ...any) *Builder {
	op, value, err := splitOperator(b.grammar, args)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.havings = append(b.havings, whereNode{kind: whereBasic, column: column, op: op, value: value, boolean: boolean})
	b.addBinding("having", value)
	return b
}

// HavingRaw adds an AND raw HAVING predicate with its bindings.
func (b *Builder) HavingRaw(sql string, values ...any) *Builder {
	b.havings = append(b.havings, whereNode{kind: whereRaw, sql: sql, boolean: "AND"})
	for _, v := range values {
		b.addBinding("having", v)
	}
	return b
}

// OrderBy appends an ordering. The direction defaults to ascending.
func (b *Builder) OrderBy(column string, direction ...string) *Builder {
	dir := Asc
	if len(direction) > 0 {
		switch strings.ToUpper(direction[0]) {
		case Asc, Desc:
			dir = strings.ToUpper(direction[0])
		default:
			b.setErr(artisan.NewUsageError("invalid sort direction %q", direction[0]))
			return b
		}
	}
	b.orders = append(b.orders, orderSpec{column: column, direction: dir})
	return b
}

// OrderByDesc appends a descending ordering.
func (b *Builder) OrderByDesc(column string) *Builder {
	return b.OrderBy(column, Desc)
}

// OrderByRaw appends a raw ordering expression with its bindings.
func (b *Builder) OrderByRaw(sql string, values ...any) *Builder {
	b.orders = append(b.orders, orderSpec{raw: sql})
	for _, v := range values {
		b.addBinding("order", v)
	}
	return b
}

// Limit caps the number of returned rows. Negative values are ignored.
func (b *Builder) Limit(n int) *Builder {
	if n >= 0 {
		b.limit = n
	}
	return b
}

// Offset skips the first n rows. Negative values are ignored.
func (b *Builder) Offset(n int) *Builder {
	if n >= 0 {
		b.offset = n
	}
	return b
}

// Join adds an INNER JOIN with a single column-to-column ON condition.
func (b *Builder) Join(table, first, op, second string) *Builder {
	return b.join("INNER", table, first, op, second)
}

// LeftJoin adds a LEFT JOIN with a single column-to-column ON condition.
func (b *Builder) LeftJoin(table, first, op, second string) *Builder {
	return b.join("LEFT", table, first, op, second)
}

// RightJoin adds a RIGHT JOIN with a single column-to-column ON condition.
func (b *Builder) RightJoin(table, first, op, second string) *Builder {
	return b.join("RIGHT", table, first, op, second)
}

// CrossJoin adds a CROSS JOIN with no ON conditions.
func (b *Builder) CrossJoin(table string) *Builder {
	b.joins = append(b.joins, &JoinClause{kind: "CROSS", table: table, parent: b})
	return b
}

// JoinOn adds an INNER JOIN whose ON conditions are built by the callback.
// The callback must finish before the builder is compiled or cloned.
func (b *Builder) JoinOn(table string, fn func(*JoinClause)) *Builder {
	j := &JoinClause{kind: "INNER", table: table, parent: b}
	fn(j)
	b.joins = append(b.joins, j)
	return b
}

// LeftJoinOn adds a LEFT JOIN built by the callback.
func (b *Builder) LeftJoinOn(table string, fn func(*JoinClause)) *Builder {
	j := &JoinClause{kind: "LEFT", table: table, parent: b}
	fn(j)
	b.joins = append(b.joins, j)
	return b
}

func (b *Builder) join(kind, table, first, op, second string) *Builder {
	j := &JoinClause{kind: kind, table: table, parent: b}
	j.On(first, op, second)
	b.joins = append(b.joins, j)
	return b
}

// With registers relation paths for eager loading, consumed after
// hydration by GetModels. Dotted paths (e.g. "posts.comments") nest.
func (b *Builder) With(relations ...string) *Builder {
	for _, r := range relations {
		b.withConstraint(r, nil)
	}
	return b
}

// WithConstraint registers a relation path with a constraint applied to
// the relation's query before it runs.
func (b *Builder) WithConstraint(relation string, fn func(*Builder)) *Builder {
	return b.withConstraint(relation, fn)
}

func (b *Builder) withConstraint(relation string, fn func(*Builder)) *Builder {
	if b.eager == nil {
		b.eager = make(map[string]func(*Builder))
	}
	b.eager[relation] = fn
	return b
}

// Query compiles the SELECT statement and returns it with the flattened
// binding list, without executing or resetting anything.
func (b *Builder) Query() (string, []any) {
	return b.grammar.CompileSelect(b), b.bindings.flatten()
}

// Get executes the query and returns the raw rows as records. After the
// results are produced, the query shape is reset so the same builder can
// be reused; connection, grammar and model binding persist.
func (b *Builder) Get(ctx context.Context) ([]Record, error) {
	records, err := b.runSelect(ctx)
	if err != nil {
		return nil, err
	}
	b.Reset()
	return records, nil
}

// First returns the first matching record, forcing LIMIT 1 for the lookup
// and restoring the previous limit afterward. artisan.ErrNotFound is
// returned when nothing matches.
func (b *Builder) First(ctx context.Context) (Record, error) {
	prev := b.limit
	b.limit = 1
	records, err := b.runSelect(ctx)
	b.limit = prev
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, artisan.ErrNotFound
	}
	return records[0], nil
}

// Value returns the named column of the first matching record.
func (b *Builder) Value(ctx context.Context, column string) (any, error) {
	prev := b.columns
	b.columns = []any{column}
	rec, err := b.First(ctx)
	b.columns = prev
	if err != nil {
		return nil, err
	}
	return rec[baseColumn(column)], nil
}

// Pluck returns the named column of every matching row.
func (b *Builder) Pluck(ctx context.Context, column string) ([]any, error) {
	prev := b.columns
	b.columns = []any{column}
	records, err := b.runSelect(ctx)
	b.columns = prev
	if err != nil {
		return nil, err
	}
	out := make([]any, len(records))
	for i, rec := range records {
		out[i] = rec[baseColumn(column)]
	}
	return out, nil
}

// Exists reports whether any row matches, compiling the current shape
// through the dialect's SELECT EXISTS wrapper. No builder state is
// consumed or reset.
func (b *Builder) Exists(ctx context.Context) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	if b.conn == nil {
		return false, artisan.NewUsageError("builder has no connection; use NewBuilder with a driver")
	}
	query := b.grammar.CompileExists(b)
	args := b.bindings.flatten()
	var rows Rows
	if err := b.conn.Query(ctx, query, args, &rows); err != nil {
		return false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	var v any
	if err := rows.Scan(&v); err != nil {
		return false, err
	}
	return toBool(v)
}

// Count executes a COUNT aggregate, restoring the prior projection so the
// call is composable mid-chain.
func (b *Builder) Count(ctx context.Context, columns ...string) (int64, error) {
	cols := []any{"*"}
	if len(columns) > 0 {
		cols = make([]any, len(columns))
		for i, c := range columns {
			cols[i] = c
		}
	}
	v, err := b.aggregateValue(ctx, "COUNT", cols)
	if err != nil {
		return 0, err
	}
	return toInt64(v)
}

// Sum executes a SUM aggregate over the column.
func (b *Builder) Sum(ctx context.Context, column string) (float64, error) {
	v, err := b.aggregateValue(ctx, "SUM", []any{column})
	if err != nil {
		return 0, err
	}
	return toFloat64(v)
}

// Avg executes an AVG aggregate over the column.
func (b *Builder) Avg(ctx context.Context, column string) (float64, error) {
	v, err := b.aggregateValue(ctx, "AVG", []any{column})
	if err != nil {
		return 0, err
	}
	return toFloat64(v)
}

// Min executes a MIN aggregate over the column.
func (b *Builder) Min(ctx context.Context, column string) (any, error) {
	return b.aggregateValue(ctx, "MIN", []any{column})
}

// Max executes a MAX aggregate over the column.
func (b *Builder) Max(ctx context.Context, column string) (any, error) {
	return b.aggregateValue(ctx, "MAX", []any{column})
}

// aggregateValue temporarily swaps in an aggregate spec, runs the select
// and restores the prior projection state afterward.
func (b *Builder) aggregateValue(ctx context.Context, fn string, columns []any) (any, error) {
	prevAgg, prevCols := b.aggregate, b.columns
	prevSelect := b.bindings.buckets["select"]
	b.aggregate = &aggregateSpec{fn: fn, columns: columns}
	b.columns = nil
	b.bindings.buckets["select"] = nil
	records, err := b.runSelect(ctx)
	b.aggregate, b.columns = prevAgg, prevCols
	b.bindings.buckets["select"] = prevSelect
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0]["aggregate"], nil
}

// runSelect compiles, executes and scans without resetting shape state.
func (b *Builder) runSelect(ctx context.Context) ([]Record, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.conn == nil {
		return nil, artisan.NewUsageError("builder has no connection; use NewBuilder with a driver")
	}
	query, args := b.Query()
	var rows Rows
	if err := b.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()
	return ScanRecords(&rows)
}

// ScanRecords drains a row set into records keyed by column name.
func ScanRecords(rows *Rows) ([]Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: columns: %w", err)
	}
	var records []Record
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("dialect/sql: scan: %w", err)
		}
		rec := make(Record, len(columns))
		for i, c := range columns {
			rec[c] = values[i]
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Insert compiles and executes one INSERT statement for the given records.
// Multiple records become one multi-row VALUES list sharing the first
// record's column set; a single empty record inserts defaults.
func (b *Builder) Insert(ctx context.Context, records ...Record) error {
	query, args := b.compileInsert(records)
	_, err := b.exec(ctx, query, args...)
	return err
}

// InsertGetID inserts one record and returns the new auto-increment id.
// On PostgreSQL a RETURNING clause is used instead of LastInsertId.
func (b *Builder) InsertGetID(ctx context.Context, record Record) (int64, error) {
	query, args := b.compileInsert([]Record{record})
	if b.err != nil {
		return 0, b.err
	}
	if b.conn == nil {
		return 0, artisan.NewUsageError("builder has no connection; use NewBuilder with a driver")
	}
	if b.grammar.Dialect() == dialect.Postgres {
		query += ` RETURNING "` + b.keyName() + `"`
		var rows Rows
		if err := b.conn.Query(ctx, query, args, &rows); err != nil {
			return 0, WrapConstraintError(err)
		}
		defer rows.Close()
		if !rows.Next() {
			return 0, rows.Err()
		}
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	var res Result
	if err := b.conn.Exec(ctx, query, args, &res); err != nil {
		return 0, WrapConstraintError(err)
	}
	return res.LastInsertId()
}

func (b *Builder) compileInsert(records []Record) (string, []any) {
	if len(records) == 0 {
		b.setErr(artisan.NewUsageError("insert expects at least one record"))
		return "", nil
	}
	columns := make([]string, 0, len(records[0]))
	for c := range records[0] {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	rows := make([][]any, len(records))
	var args []any
	for i, rec := range records {
		row := make([]any, len(columns))
		for j, c := range columns {
			v := rec[c]
			row[j] = v
			if _, ok := v.(Expr); !ok {
				args = append(args, v)
			}
		}
		rows[i] = row
	}
	return b.grammar.CompileInsert(b, columns, rows), args
}

// Update compiles and executes an UPDATE with the given column values,
// returning the number of affected rows. Values are bound in sorted
// column order, then the where bindings, then the order bindings when
// the dialect compiles ORDER BY into UPDATE.
func (b *Builder) Update(ctx context.Context, values Record) (int64, error) {
	if len(values) == 0 {
		return 0, artisan.NewUsageError("update expects at least one column value")
	}
	columns := make([]string, 0, len(values))
	for c := range values {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	vals := make([]any, len(columns))
	var args []any
	for i, c := range columns {
		vals[i] = values[c]
		if _, ok := values[c].(Expr); !ok {
			args = append(args, values[c])
		}
	}
	args = b.writeBindings(args)
	query := b.grammar.CompileUpdate(b, columns, vals)
	return b.exec(ctx, query, args...)
}

// Delete compiles and executes a DELETE, returning the number of affected
// rows. When an id is supplied, an equality predicate on the bound model's
// primary key is added first; that form requires a model binding.
func (b *Builder) Delete(ctx context.Context, ids ...any) (int64, error) {
	if len(ids) > 0 {
		if b.model == nil {
			return 0, artisan.NewUsageError("delete by id requires a bound model to know the key column")
		}
		b.WhereIn(b.keyName(), ids)
	}
	query := b.grammar.CompileDelete(b)
	args := b.writeBindings(nil)
	return b.exec(ctx, query, args...)
}

// writeBindings assembles the bindings of a modifying statement: the
// where bucket always, the order bucket only when the dialect compiles
// ORDER BY into its UPDATE/DELETE forms. Keeps binding order matching
// placeholder order.
func (b *Builder) writeBindings(prefix []any) []any {
	args := append(prefix, b.bindings.buckets["where"]...)
	if b.grammar.SupportsOrderedWrites() {
		args = append(args, b.bindings.buckets["order"]...)
	}
	return args
}

func (b *Builder) exec(ctx context.Context, query string, args ...any) (int64, error) {
	if b.err != nil {
		return 0, b.err
	}
	if b.conn == nil {
		return 0, artisan.NewUsageError("builder has no connection; use NewBuilder with a driver")
	}
	var res Result
	if err := b.conn.Exec(ctx, query, args, &res); err != nil {
		return 0, WrapConstraintError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Reset clears the accumulated query shape while preserving the
// connection, grammar, model binding and target table.
func (b *Builder) Reset() *Builder {
	b.aggregate = nil
	b.columns = nil
	b.distinct = false
	b.joins = nil
	b.wheres = nil
	b.groups = nil
	b.havings = nil
	b.orders = nil
	b.limit = -1
	b.offset = -1
	b.eager = nil
	b.bindings = newBindings()
	b.err = nil
	return b
}

// Clone returns a deep copy: nested sub-builders inside where nodes and
// the binding buckets are copied, so mutations on the clone never perturb
// the original.
func (b *Builder) Clone() *Builder {
	c := &Builder{
		conn:     b.conn,
		grammar:  b.grammar,
		model:    b.model,
		err:      b.err,
		distinct: b.distinct,
		from:     b.from,
		limit:    b.limit,
		offset:   b.offset,
		bindings: b.bindings.clone(),
	}
	if b.aggregate != nil {
		agg := *b.aggregate
		agg.columns = append([]any(nil), b.aggregate.columns...)
		c.aggregate = &agg
	}
	c.columns = append([]any(nil), b.columns...)
	c.groups = append([]string(nil), b.groups...)
	c.orders = append([]orderSpec(nil), b.orders...)
	c.joins = make([]*JoinClause, len(b.joins))
	for i, j := range b.joins {
		c.joins[i] = j.clone(c)
	}
	c.wheres = make([]whereNode, len(b.wheres))
	for i, w := range b.wheres {
		c.wheres[i] = w.clone()
	}
	c.havings = make([]whereNode, len(b.havings))
	for i, w := range b.havings {
		c.havings[i] = w.clone()
	}
	if b.eager != nil {
		c.eager = make(map[string]func(*Builder), len(b.eager))
		for k, v := range b.eager {
			c.eager[k] = v
		}
	}
	return c
}

func (b *Builder) keyName() string {
	if b.model != nil {
		if k := b.model.KeyName(); k != "" {
			return k
		}
	}
	return "id"
}

// baseColumn strips a table qualifier and alias from a projection so the
// scanned record key can be found.
func baseColumn(column string) string {
	if _, alias, ok := splitAlias(column); ok {
		return alias
	}
	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		return column[i+1:]
	}
	return column
}

// toAnySlice normalizes a scalar slice of any element type to []any.
func toAnySlice(values any) ([]any, error) {
	switch v := values.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, nil
	case []int64:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, nil
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out, nil
	}
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice {
		return nil, artisan.NewUsageError("whereIn expects a slice, callback or sub-builder, got %T", values)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("dialect/sql: cannot convert %T to int64", v)
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case []byte:
		return strconv.ParseFloat(string(n), 64)
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("dialect/sql: cannot convert %T to float64", v)
}

// toBool interprets an EXISTS result, which surfaces as a boolean on
// PostgreSQL and as 0/1 elsewhere.
func toBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func itoa(n int) string { return strconv.Itoa(n) }

func toString(v any) string { return fmt.Sprint(v) }
