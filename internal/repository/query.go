package repository

import (
	"fmt"
	"strings"
)

// JoinSpec describes a one-hop join from the running query to a foreign
// table whose join key is unique on the foreign side. Joins are INNER by
// default: a row whose referenced document has been deleted drops out of
// the result, mirroring the behavior listings have always had. Set Outer
// for the few places that must keep the row.
type JoinSpec struct {
	Table      string // foreign table name
	Alias      string // alias used in projection and later joins
	LocalKey   string // qualified column on the accumulated query, e.g. "likes.target_id"
	ForeignKey string // column on the foreign table, e.g. "id"
	Outer      bool
}

// JoinQuery accumulates a filter + join + project + sort specification and
// compiles it to SQL. It is lazy and restartable: Build/BuildCount may be
// called any number of times; execution belongs to Paginate.
//
// Where expressions use ? placeholders which are rewritten to positional
// $n arguments at build time, so fragments compose without the caller
// tracking argument numbering.
type JoinQuery struct {
	from      string
	columns   []string
	joins     []JoinSpec
	conds     []string
	args      []any
	orderBy   []string
	orderArgs []any
}

func NewJoinQuery(from string, columns ...string) *JoinQuery {
	return &JoinQuery{from: from, columns: columns}
}

func (q *JoinQuery) Join(spec JoinSpec) *JoinQuery {
	q.joins = append(q.joins, spec)
	return q
}

// Where ANDs a predicate onto the base filter. Privacy predicates must be
// added here, not applied after execution, so counts and page metadata
// never reveal the existence of rows the requester may not see.
func (q *JoinQuery) Where(expr string, args ...any) *JoinQuery {
	q.conds = append(q.conds, expr)
	q.args = append(q.args, args...)
	return q
}

// OrderBy appends a sort column. Callers append a unique key (id) last to
// keep pagination stable across ties.
func (q *JoinQuery) OrderBy(column string, desc bool) *JoinQuery {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	q.orderBy = append(q.orderBy, column+" "+dir)
	return q
}

// OrderByExpr appends a raw sort expression (direction included) that may
// carry ? arguments, e.g. a ts_rank ranking. Its arguments are excluded
// from the count query, which has no ORDER BY.
func (q *JoinQuery) OrderByExpr(expr string, args ...any) *JoinQuery {
	q.orderBy = append(q.orderBy, expr)
	q.orderArgs = append(q.orderArgs, args...)
	return q
}

// Build compiles the full SELECT with LIMIT/OFFSET.
func (q *JoinQuery) Build(limit, offset int) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.from)
	q.writeJoins(&b)
	q.writeWhere(&b)
	if len(q.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.orderBy, ", "))
	}

	args := append([]any{}, q.args...)
	args = append(args, q.orderArgs...)
	args = append(args, limit, offset)
	sql := rewritePlaceholders(b.String() + " LIMIT ? OFFSET ?")
	return sql, args
}

// BuildCount compiles the matching-set count, sharing the filter and joins
// (joins participate so inner-join row drops are counted consistently).
func (q *JoinQuery) BuildCount() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(q.from)
	q.writeJoins(&b)
	q.writeWhere(&b)
	return rewritePlaceholders(b.String()), append([]any{}, q.args...)
}

func (q *JoinQuery) writeJoins(b *strings.Builder) {
	for _, j := range q.joins {
		if j.Outer {
			b.WriteString(" LEFT JOIN ")
		} else {
			b.WriteString(" JOIN ")
		}
		b.WriteString(j.Table)
		if j.Alias != "" && j.Alias != j.Table {
			b.WriteString(" AS ")
			b.WriteString(j.Alias)
		}
		name := j.Alias
		if name == "" {
			name = j.Table
		}
		fmt.Fprintf(b, " ON %s = %s.%s", j.LocalKey, name, j.ForeignKey)
	}
}

func (q *JoinQuery) writeWhere(b *strings.Builder) {
	if len(q.conds) == 0 {
		return
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(q.conds, " AND "))
}

// rewritePlaceholders turns ? markers into $1..$n.
func rewritePlaceholders(sql string) string {
	var b strings.Builder
	n := 0
	for _, r := range sql {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
