package sql

import (
	"strings"
)

// Grammar compiles builder state into dialect-specific SQL text. It is pure
// and stateless per call: the same builder state always compiles to the
// same string.
//
// Shared compilation logic lives in free functions (compileSelect,
// compileWheres, ...) that the dialect implementations call explicitly;
// each dialect only owns identifier quoting, its extra operators, date-part
// predicates and the few statement forms that genuinely diverge.
type Grammar interface {
	// Dialect returns the dialect name this grammar compiles for.
	Dialect() string
	// Wrap quotes a column identifier, honoring "col AS alias" and
	// "table.col" forms. Expr values are emitted verbatim.
	Wrap(column any) string
	// WrapTable quotes a table identifier, honoring "table AS alias".
	WrapTable(table any) string
	// Operators returns dialect-specific operators accepted in addition
	// to the shared allow-list.
	Operators() []string
	// CompileSelect compiles the full SELECT statement for the builder.
	CompileSelect(b *Builder) string
	// CompileExists compiles a SELECT EXISTS wrapper around the builder.
	CompileExists(b *Builder) string
	// CompileInsert compiles a single- or multi-row INSERT. The rows
	// share the given column list; a zero-column insert compiles to the
	// dialect's default-values form.
	CompileInsert(b *Builder, columns []string, rows [][]any) string
	// CompileUpdate compiles an UPDATE with the given SET columns/values.
	CompileUpdate(b *Builder, columns []string, values []any) string
	// CompileDelete compiles a DELETE for the builder state.
	CompileDelete(b *Builder) string
	// CompileWhereDate compiles a date-part predicate (date, time, day,
	// month, year), which is dialect-specific by nature.
	CompileWhereDate(w whereNode) string
	// SupportsOrderedWrites reports whether UPDATE and DELETE carry
	// trailing ORDER BY/LIMIT clauses in this dialect. The builder binds
	// order-bucket values on modifying statements only when it holds.
	SupportsOrderedWrites() bool
}

// NewGrammar returns the grammar for the given dialect name, or false
// if the dialect is unknown.
func NewGrammar(name string) (Grammar, bool) {
	switch name {
	case "mysql":
		return MySQL{}, true
	case "sqlite", "sqlite3":
		return SQLite{}, true
	case "postgres", "postgresql":
		return Postgres{}, true
	}
	return nil, false
}

// operators is the shared allow-list of comparison operators. Dialects
// extend it via Grammar.Operators.
var operators = []string{
	"=", "<", ">", "<=", ">=", "<>", "!=",
	"like", "not like", "between", "in", "not in",
	"&", "|", "^", "<<", ">>",
}

// validOperator reports whether op is accepted by the shared allow-list
// or the grammar's dialect additions. The check is case-insensitive.
func validOperator(g Grammar, op string) bool {
	lower := strings.ToLower(op)
	for _, o := range operators {
		if lower == o {
			return true
		}
	}
	for _, o := range g.Operators() {
		if lower == o {
			return true
		}
	}
	return false
}

// compileSelect assembles the SELECT components in fixed order and joins
// the non-empty ones with a single space.
func compileSelect(g Grammar, b *Builder) string {
	components := []string{
		compileColumns(g, b),
		compileFrom(g, b),
		compileJoins(g, b),
		compileWheres(g, b),
		compileGroups(g, b),
		compileHavings(g, b),
		compileOrders(g, b),
		compileLimit(b),
		compileOffset(b),
	}
	parts := components[:0]
	for _, c := range components {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// compileColumns compiles the projection. When an aggregate is set, it
// suppresses the column list entirely and compiles the aggregate instead.
func compileColumns(g Grammar, b *Builder) string {
	if b.aggregate != nil {
		return compileAggregate(g, b)
	}
	cols := b.columns
	if len(cols) == 0 {
		cols = []any{"*"}
	}
	kw := "SELECT "
	if b.distinct {
		kw = "SELECT DISTINCT "
	}
	return kw + columnize(g, cols)
}

func compileAggregate(g Grammar, b *Builder) string {
	column := columnize(g, b.aggregate.columns)
	if b.distinct && column != "*" {
		column = "DISTINCT " + column
	}
	return "SELECT " + b.aggregate.fn + "(" + column + ") AS aggregate"
}

func compileFrom(g Grammar, b *Builder) string {
	if b.from == "" {
		return ""
	}
	return "FROM " + g.WrapTable(b.from)
}

// compileJoins compiles each join clause as {TYPE} JOIN {table} ON {conds},
// reusing the where-node machinery for the ON conditions.
func compileJoins(g Grammar, b *Builder) string {
	if len(b.joins) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, j := range b.joins {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(j.kind)
		sb.WriteString(" JOIN ")
		sb.WriteString(g.WrapTable(j.table))
		if len(j.ons) > 0 {
			sb.WriteString(" ON ")
			sb.WriteString(compileConditions(g, j.ons))
		}
	}
	return sb.String()
}

func compileWheres(g Grammar, b *Builder) string {
	if len(b.wheres) == 0 {
		return ""
	}
	return "WHERE " + compileConditions(g, b.wheres)
}

// compileConditions compiles a node sequence. The first node carries no
// boolean prefix; every later node is prefixed with its own connector,
// recorded at insertion time.
func compileConditions(g Grammar, nodes []whereNode) string {
	var sb strings.Builder
	for i, w := range nodes {
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(w.boolean)
			sb.WriteString(" ")
		}
		sb.WriteString(compileWhereNode(g, w))
	}
	return sb.String()
}

// compileWhereNode dispatches on the node kind. The switch is exhaustive
// over the closed whereKind set.
func compileWhereNode(g Grammar, w whereNode) string {
	switch w.kind {
	case whereBasic:
		return g.Wrap(w.column) + " " + strings.ToUpper(w.op) + " " + parameter(w.value)
	case whereNested:
		return "(" + compileConditions(g, w.query.wheres) + ")"
	case whereIn:
		if len(w.values) == 0 {
			// IN () is invalid SQL; an empty list short-circuits to a
			// constant predicate instead.
			if w.not {
				return "1 = 1"
			}
			return "0 = 1"
		}
		op := "IN"
		if w.not {
			op = "NOT IN"
		}
		return g.Wrap(w.column) + " " + op + " (" + parameterize(w.values) + ")"
	case whereInSub:
		op := "IN"
		if w.not {
			op = "NOT IN"
		}
		// The shared form is used so dialects with numbered placeholders
		// rewrite the whole statement in one final pass.
		return g.Wrap(w.column) + " " + op + " (" + compileSelect(g, w.query) + ")"
	case whereNull:
		if w.not {
			return g.Wrap(w.column) + " IS NOT NULL"
		}
		return g.Wrap(w.column) + " IS NULL"
	case whereBetween:
		op := "BETWEEN"
		if w.not {
			op = "NOT BETWEEN"
		}
		return g.Wrap(w.column) + " " + op + " " + parameter(w.values[0]) + " AND " + parameter(w.values[1])
	case whereColumn:
		return g.Wrap(w.column) + " " + strings.ToUpper(w.op) + " " + g.Wrap(w.second)
	case whereRaw:
		return w.sql
	case whereDate, whereTime, whereDay, whereMonth, whereYear:
		return g.CompileWhereDate(w)
	}
	return ""
}

func compileGroups(g Grammar, b *Builder) string {
	if len(b.groups) == 0 {
		return ""
	}
	cols := make([]any, len(b.groups))
	for i, c := range b.groups {
		cols[i] = c
	}
	return "GROUP BY " + columnize(g, cols)
}

func compileHavings(g Grammar, b *Builder) string {
	if len(b.havings) == 0 {
		return ""
	}
	return "HAVING " + compileConditions(g, b.havings)
}

func compileOrders(g Grammar, b *Builder) string {
	if len(b.orders) == 0 {
		return ""
	}
	parts := make([]string, len(b.orders))
	for i, o := range b.orders {
		if o.raw != "" {
			parts[i] = o.raw
			continue
		}
		parts[i] = g.Wrap(o.column) + " " + o.direction
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

func compileLimit(b *Builder) string {
	if b.limit < 0 {
		return ""
	}
	return "LIMIT " + itoa(b.limit)
}

func compileOffset(b *Builder) string {
	if b.offset < 0 {
		return ""
	}
	return "OFFSET " + itoa(b.offset)
}

// compileInsert is the shared INSERT form. defaultValues is the dialect's
// zero-column clause (e.g. "DEFAULT VALUES" or "() VALUES ()").
func compileInsert(g Grammar, b *Builder, columns []string, rows [][]any, defaultValues string) string {
	table := g.WrapTable(b.from)
	if len(columns) == 0 {
		return "INSERT INTO " + table + " " + defaultValues
	}
	cols := make([]any, len(columns))
	for i, c := range columns {
		cols[i] = c
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(columnize(g, cols))
	sb.WriteString(") VALUES ")
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		sb.WriteString(parameterize(row))
		sb.WriteString(")")
	}
	return sb.String()
}

// compileUpdate is the shared UPDATE form. Trailing ORDER BY/LIMIT are
// compiled only for dialects that support ordered writes; the others
// simply never emit them, so no state needs clearing.
func compileUpdate(g Grammar, b *Builder, columns []string, values []any) string {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(g.WrapTable(b.from))
	sb.WriteString(" SET ")
	for i, c := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(g.Wrap(c))
		sb.WriteString(" = ")
		sb.WriteString(parameter(values[i]))
	}
	if w := compileWheres(g, b); w != "" {
		sb.WriteString(" ")
		sb.WriteString(w)
	}
	if g.SupportsOrderedWrites() {
		if o := compileOrders(g, b); o != "" {
			sb.WriteString(" ")
			sb.WriteString(o)
		}
		if l := compileLimit(b); l != "" {
			sb.WriteString(" ")
			sb.WriteString(l)
		}
	}
	return sb.String()
}

// compileDelete is the shared DELETE form; see compileUpdate for the
// order/limit handling.
func compileDelete(g Grammar, b *Builder) string {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(g.WrapTable(b.from))
	if w := compileWheres(g, b); w != "" {
		sb.WriteString(" ")
		sb.WriteString(w)
	}
	if g.SupportsOrderedWrites() {
		if o := compileOrders(g, b); o != "" {
			sb.WriteString(" ")
			sb.WriteString(o)
		}
		if l := compileLimit(b); l != "" {
			sb.WriteString(" ")
			sb.WriteString(l)
		}
	}
	return sb.String()
}

// compileExists wraps the select in SELECT EXISTS(...) AS "exists".
func compileExists(g Grammar, b *Builder) string {
	return "SELECT EXISTS(" + compileSelect(g, b) + ") AS " + wrapValue("exists", quoteFor(g))
}

func quoteFor(g Grammar) byte {
	if g.Dialect() == "mysql" {
		return '`'
	}
	return '"'
}

// parameter emits a ? placeholder, unless the value is an Expr, in which
// case the raw fragment is inlined.
func parameter(v any) string {
	if e, ok := v.(Expr); ok {
		return e.String()
	}
	return "?"
}

// parameterize joins the parameter forms of the given values.
func parameterize(vs []any) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = parameter(v)
	}
	return strings.Join(parts, ", ")
}

// columnize wraps and joins a projection list.
func columnize(g Grammar, cols []any) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = g.Wrap(c)
	}
	return strings.Join(parts, ", ")
}

// wrap quotes an identifier with the dialect quote character. It splits
// "x AS y" aliases on a case-insensitive boundary, wraps dotted segments
// independently, passes * through, and inlines Expr values verbatim.
func wrap(value any, quote byte) string {
	switch v := value.(type) {
	case Expr:
		return v.String()
	case string:
		if seg, alias, ok := splitAlias(v); ok {
			return wrapSegments(seg, quote) + " AS " + wrapValue(alias, quote)
		}
		return wrapSegments(v, quote)
	default:
		return wrapSegments(toString(v), quote)
	}
}

// wrapTable quotes a table reference, honoring "table AS alias".
func wrapTable(table any, quote byte) string {
	if e, ok := table.(Expr); ok {
		return e.String()
	}
	s := toString(table)
	if seg, alias, ok := splitAlias(s); ok {
		return wrapSegments(seg, quote) + " AS " + wrapValue(alias, quote)
	}
	return wrapSegments(s, quote)
}

// splitAlias splits on a case-insensitive " as " boundary.
func splitAlias(s string) (name, alias string, ok bool) {
	i := strings.Index(strings.ToLower(s), " as ")
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+4:], true
}

// wrapSegments wraps each dotted segment independently and rejoins with ".".
func wrapSegments(s string, quote byte) string {
	segments := strings.Split(s, ".")
	for i, seg := range segments {
		segments[i] = wrapValue(seg, quote)
	}
	return strings.Join(segments, ".")
}

// wrapValue quotes a single bare identifier, doubling any embedded quote
// character. The * projection is never quoted.
func wrapValue(s string, quote byte) string {
	if s == "*" {
		return s
	}
	q := string(quote)
	return q + strings.ReplaceAll(s, q, q+q) + q
}

// numberPlaceholders rewrites ? placeholders into $1..$n for dialects with
// numbered parameters. Question marks inside single-quoted literals are
// left alone.
func numberPlaceholders(s string) string {
	var (
		sb      strings.Builder
		n       int
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			sb.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			sb.WriteByte('$')
			sb.WriteString(itoa(n))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
