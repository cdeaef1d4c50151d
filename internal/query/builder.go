// Package query builds parameterized PostgreSQL statements.
//
// A Builder is an immutable value: every clause method returns a new Builder
// and leaves its receiver untouched, so a partially built statement can be
// reused as a template:
//
//	active := query.Select("v1_gebieden_buurten", "_id", "naam").
//		Where(query.Pred("_deleted", nil))
//	recent := active.OrderBy("_id DESC").Limit(20)
//
// Values never appear in the statement text. They are bound to positional
// placeholders ($1, $2, ...) and returned in placeholder order by Build.
package query

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Query is a rendered statement with its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

func (q Query) String() string {
	return q.SQL
}

// ColumnDef is one column of a CREATE TABLE statement. Type is trusted SQL.
type ColumnDef struct {
	Name string
	Type string
}

type assignment struct {
	field string
	value any
}

// Builder composes one statement. The zero value is not usable; start from
// Count, Select, Insert, Update, CopyFrom or CreateTable.
type Builder struct {
	statement string
	base      string
	table     string
	columns   []string
	allowed   map[string]bool

	values    []assignment
	set       []assignment
	where     [][]term
	orderBy   []string
	limit     *int
	returning []string

	err error
}

func newBuilder(statement, table, base string, clauses ...string) Builder {
	allowed := make(map[string]bool, len(clauses))
	for _, c := range clauses {
		allowed[c] = true
	}
	return Builder{statement: statement, table: table, base: base, allowed: allowed}
}

// Count starts a SELECT COUNT(*) statement.
func Count(table string) Builder {
	return newBuilder(StatementCount, table,
		"SELECT COUNT(*) FROM "+QuoteTable(table),
		ClauseWhere, ClauseOrderBy, ClauseLimit)
}

// Select starts a SELECT of the given fields.
func Select(table string, fields ...string) Builder {
	cols := "*"
	if len(fields) > 0 {
		cols = strings.Join(quoteFields(fields), ", ")
	}
	return newBuilder(StatementSelect, table,
		"SELECT "+cols+" FROM "+QuoteTable(table),
		ClauseWhere, ClauseOrderBy, ClauseLimit)
}

// Insert starts an INSERT INTO statement.
func Insert(table string) Builder {
	return newBuilder(StatementInsert, table,
		"INSERT INTO "+QuoteTable(table),
		ClauseValues, ClauseReturning)
}

// Update starts an UPDATE statement.
func Update(table string) Builder {
	return newBuilder(StatementUpdate, table,
		"UPDATE "+QuoteTable(table),
		ClauseSet, ClauseWhere, ClauseReturning)
}

// CopyFrom starts a COPY ... FROM STDIN statement. It accepts no clauses;
// Table and Columns expose its target for drivers with a native copy API.
func CopyFrom(table string, fields ...string) Builder {
	b := newBuilder(StatementCopy, table,
		"COPY "+QuoteTable(table)+" ("+strings.Join(quoteFields(fields), ", ")+") FROM STDIN")
	b.columns = slices.Clone(fields)
	return b
}

// CreateTable starts an idempotent CREATE TABLE IF NOT EXISTS statement.
func CreateTable(table string, defs []ColumnDef) Builder {
	cols := make([]string, len(defs))
	for i, d := range defs {
		cols[i] = quoteField(d.Name) + " " + d.Type
	}
	return newBuilder(StatementCreateTable, table,
		"CREATE TABLE IF NOT EXISTS "+QuoteTable(table)+" ("+strings.Join(cols, ", ")+")")
}

// QuoteTable quotes a possibly schema-qualified table name.
func QuoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// Table returns the target table.
func (b Builder) Table() string { return b.table }

// Columns returns the column list of a COPY statement.
func (b Builder) Columns() []string { return slices.Clone(b.columns) }

// Err returns the first composition error, if any.
func (b Builder) Err() error { return b.err }

func (b Builder) accept(clause string) (Builder, bool) {
	if b.err != nil {
		return b, false
	}
	if !b.allowed[clause] {
		b.err = &UnsupportedClauseError{Clause: clause, Statement: b.statement}
		return b, false
	}
	return b, true
}

func (b Builder) fail(err error) Builder {
	b.err = err
	return b
}

// Where adds one group of predicates. Predicates within a call are ANDed;
// separate calls are ORed.
func (b Builder) Where(preds ...P) Builder {
	b, ok := b.accept(ClauseWhere)
	if !ok {
		return b
	}
	group := make([]term, 0, len(preds))
	for _, p := range preds {
		t, err := parsePredicate(p)
		if err != nil {
			return b.fail(err)
		}
		group = append(group, t)
	}
	b.where = append(slices.Clip(b.where), group)
	return b
}

// Or is Where under a name that reads well in a chain.
func (b Builder) Or(preds ...P) Builder {
	return b.Where(preds...)
}

// OrderBy replaces the ordering. Each term is a field name optionally
// followed by ASC or DESC.
func (b Builder) OrderBy(fields ...string) Builder {
	b, ok := b.accept(ClauseOrderBy)
	if !ok {
		return b
	}
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		parts := strings.Fields(f)
		if len(parts) == 0 || len(parts) > 2 {
			return b.fail(&OperatorError{Key: f, Reason: ErrMsgInvalidDirection})
		}
		dir := ""
		if len(parts) == 2 {
			dir = strings.ToUpper(parts[1])
			if dir != DirectionAsc && dir != DirectionDesc {
				return b.fail(&OperatorError{Key: f, Reason: ErrMsgInvalidDirection})
			}
		}
		order = append(order, quoteField(parts[0])+" "+dir)
	}
	b.orderBy = order
	return b
}

// Limit sets the row limit. The number is rendered literally.
func (b Builder) Limit(n int) Builder {
	b, ok := b.accept(ClauseLimit)
	if !ok {
		return b
	}
	if n < 0 {
		return b.fail(fmt.Errorf("%s: %d", ErrMsgNegativeLimit, n))
	}
	b.limit = &n
	return b
}

// Set adds column assignments to an UPDATE.
func (b Builder) Set(assignments ...P) Builder {
	b, ok := b.accept(ClauseSet)
	if !ok {
		return b
	}
	next := slices.Clip(b.set)
	for _, a := range assignments {
		if a.Key == "" {
			return b.fail(&OperatorError{Key: a.Key, Reason: ErrMsgEmptyField})
		}
		next = append(next, assignment{field: a.Key, value: a.Value})
	}
	b.set = next
	return b
}

// Values adds columns and their values to an INSERT.
func (b Builder) Values(assignments ...P) Builder {
	b, ok := b.accept(ClauseValues)
	if !ok {
		return b
	}
	next := slices.Clip(b.values)
	for _, a := range assignments {
		if a.Key == "" {
			return b.fail(&OperatorError{Key: a.Key, Reason: ErrMsgEmptyField})
		}
		next = append(next, assignment{field: a.Key, value: a.Value})
	}
	b.values = next
	return b
}

// Returning replaces the RETURNING column list.
func (b Builder) Returning(fields ...string) Builder {
	b, ok := b.accept(ClauseReturning)
	if !ok {
		return b
	}
	b.returning = slices.Clone(fields)
	return b
}

// Build renders the statement. Clauses appear in the fixed order VALUES,
// SET, WHERE, ORDER BY, LIMIT, RETURNING; arguments follow placeholder
// order regardless of the order the clause methods were called in.
func (b Builder) Build() (Query, error) {
	if b.err != nil {
		return Query{}, b.err
	}

	var sb strings.Builder
	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	sb.WriteString(b.base)

	if len(b.values) > 0 {
		cols := make([]string, len(b.values))
		vals := make([]string, len(b.values))
		for i, a := range b.values {
			cols[i] = quoteField(a.field)
			vals[i] = bind(a.value)
		}
		sb.WriteString(" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(vals, ", ") + ")")
	}

	if len(b.set) > 0 {
		parts := make([]string, len(b.set))
		for i, a := range b.set {
			parts[i] = quoteField(a.field) + " = " + bind(a.value)
		}
		sb.WriteString(" SET " + strings.Join(parts, ", "))
	}

	groups := make([]string, 0, len(b.where))
	for _, g := range b.where {
		if len(g) == 0 {
			continue
		}
		terms := make([]string, len(g))
		for i, t := range g {
			terms[i] = t.render(bind)
		}
		if len(terms) == 1 {
			groups = append(groups, terms[0])
		} else {
			groups = append(groups, "("+strings.Join(terms, " AND ")+")")
		}
	}
	if len(groups) > 0 {
		sb.WriteString(" WHERE " + strings.Join(groups, " OR "))
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}

	if b.limit != nil {
		sb.WriteString(" LIMIT " + strconv.Itoa(*b.limit))
	}

	if len(b.returning) > 0 {
		sb.WriteString(" RETURNING " + strings.Join(quoteFields(b.returning), ", "))
	}

	return Query{SQL: sb.String(), Args: args}, nil
}

// MustBuild is Build for statements fixed at compile time. It panics on a
// composition error.
func (b Builder) MustBuild() Query {
	q, err := b.Build()
	if err != nil {
		panic(err)
	}
	return q
}

func (b Builder) String() string {
	q, err := b.Build()
	if err != nil {
		return "<invalid query: " + err.Error() + ">"
	}
	return q.SQL
}
