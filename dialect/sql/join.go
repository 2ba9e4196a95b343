package sql

import (
	"strings"

	"github.com/artisandb/artisan"
)

// JoinClause is a sub-builder for the ON conditions of one join, attached
// to a parent query. Bound ON values feed the parent's join binding bucket
// at call time, keeping bindings and placeholders in lockstep.
type JoinClause struct {
	kind   string // INNER, LEFT, RIGHT, CROSS
	table  string
	ons    []whereNode
	parent *Builder
}

// On adds an AND column-to-column ON condition. Neither side is bound.
func (j *JoinClause) On(first, op, second string) *JoinClause {
	return j.on("AND", first, op, second)
}

// OrOn adds an OR column-to-column ON condition.
func (j *JoinClause) OrOn(first, op, second string) *JoinClause {
	return j.on("OR", first, op, second)
}

func (j *JoinClause) on(boolean, first, op, second string) *JoinClause {
	if !validOperator(j.parent.grammar, op) {
		j.parent.setErr(artisan.NewUsageError("invalid join operator %q", op))
		return j
	}
	j.ons = append(j.ons, whereNode{
		kind:    whereColumn,
		column:  first,
		op:      strings.ToUpper(op),
		second:  second,
		boolean: boolean,
	})
	return j
}

// OnValue adds an AND ON condition comparing a column to a bound value.
func (j *JoinClause) OnValue(column, op string, value any) *JoinClause {
	return j.onValue("AND", column, op, value)
}

// OrOnValue adds an OR ON condition comparing a column to a bound value.
func (j *JoinClause) OrOnValue(column, op string, value any) *JoinClause {
	return j.onValue("OR", column, op, value)
}

func (j *JoinClause) onValue(boolean, column, op string, value any) *JoinClause {
	if !validOperator(j.parent.grammar, op) {
		j.parent.setErr(artisan.NewUsageError("invalid join operator %q", op))
		return j
	}
	j.ons = append(j.ons, whereNode{
		kind:    whereBasic,
		column:  column,
		op:      strings.ToUpper(op),
		value:   value,
		boolean: boolean,
	})
	j.parent.addBinding("join", value)
	return j
}

func (j *JoinClause) clone(parent *Builder) *JoinClause {
	c := &JoinClause{kind: j.kind, table: j.table, parent: parent}
	c.ons = make([]whereNode, len(j.ons))
	for i, w := range j.ons {
		c.ons[i] = w.clone()
	}
	return c
}
