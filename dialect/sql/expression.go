package sql

// Expr wraps a literal SQL fragment. An Expr is emitted verbatim by the
// grammars: it is never identifier-quoted and never parameter-bound.
type Expr struct {
	sql string
}

// Raw returns an Expr for the given SQL fragment.
//
//	b.Select(sql.Raw("count(*) as aggregate"))
func Raw(sql string) Expr {
	return Expr{sql: sql}
}

// String returns the raw SQL fragment.
func (e Expr) String() string {
	return e.sql
}
