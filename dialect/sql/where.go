package sql

import (
	"github.com/artisandb/artisan"
)

// whereKind tags the closed set of predicate variants. Compilation
// dispatches on this tag (see compileWhereNode), so an unknown node type
// is impossible by construction rather than a runtime lookup failure.
type whereKind uint8

const (
	whereBasic whereKind = iota
	whereNested
	whereIn
	whereInSub
	whereNull
	whereBetween
	whereColumn
	whereRaw
	whereDate
	whereTime
	whereDay
	whereMonth
	whereYear
)

// whereNode is one tagged predicate unit within a WHERE (or HAVING, or
// join ON) clause. The boolean connector belongs to the node being added,
// not the previous one, and is recorded at insertion time.
type whereNode struct {
	kind    whereKind
	column  string
	op      string
	value   any
	values  []any    // in / between
	query   *Builder // nested group or subquery
	second  string   // column-to-column comparison
	sql     string   // raw fragment
	not     bool     // negates in / null / between
	boolean string   // "AND" or "OR"
}

// clone deep-copies the node, including any embedded sub-builder, so that
// mutations on a cloned builder never reach the original's subqueries.
func (w whereNode) clone() whereNode {
	c := w
	if w.query != nil {
		c.query = w.query.Clone()
	}
	if w.values != nil {
		c.values = append([]any(nil), w.values...)
	}
	return c
}

// Binding bucket names, in the fixed flattening order. The flattened
// concatenation must match the ? placeholders of the compiled statement
// in count and position.
var bindingBuckets = []string{"select", "from", "join", "where", "having", "order"}

// bindings is the ordered-by-type record of bound values.
type bindings struct {
	buckets map[string][]any
}

func newBindings() bindings {
	b := bindings{buckets: make(map[string][]any, len(bindingBuckets))}
	for _, name := range bindingBuckets {
		b.buckets[name] = nil
	}
	return b
}

// add appends a value to the named bucket. Expr values are exempt: they
// are inlined by the grammar and must never be bound.
func (b bindings) add(bucket string, v any) error {
	if _, ok := b.buckets[bucket]; !ok {
		return artisan.NewUsageError("unknown binding bucket %q", bucket)
	}
	if _, ok := v.(Expr); ok {
		return nil
	}
	b.buckets[bucket] = append(b.buckets[bucket], v)
	return nil
}

// flatten concatenates the buckets in the fixed order.
func (b bindings) flatten() []any {
	var out []any
	for _, name := range bindingBuckets {
		out = append(out, b.buckets[name]...)
	}
	return out
}

func (b bindings) clone() bindings {
	c := bindings{buckets: make(map[string][]any, len(bindingBuckets))}
	for _, name := range bindingBuckets {
		c.buckets[name] = append([]any(nil), b.buckets[name]...)
	}
	return c
}
