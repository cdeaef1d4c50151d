package query

import (
	"database/sql/driver"
	"reflect"
	"strings"
)

// P is one field predicate or assignment. The key may carry an operator
// suffix: "a" and "a__eq" test equality, "a__lte" renders "a" <= $n,
// "a__isnull" renders IS [NOT] NULL and "a__in" tests membership in a
// bound array.
type P struct {
	Key   string
	Value any
}

// Pred builds a predicate.
func Pred(key string, value any) P {
	return P{Key: key, Value: value}
}

// term is a parsed predicate. Bound terms contribute exactly one parameter.
type term struct {
	field string
	op    string
	value any
	bound bool
}

func (t term) render(bind func(any) string) string {
	field := quoteField(t.field)
	switch {
	case !t.bound:
		return field + " " + t.op
	case t.op == "= ANY":
		return field + " = ANY(" + bind(t.value) + ")"
	default:
		return field + " " + t.op + " " + bind(t.value)
	}
}

func parsePredicate(p P) (term, error) {
	field, op := p.Key, OpEq
	if i := strings.LastIndex(p.Key, OpSeparator); i >= 0 {
		field, op = p.Key[:i], p.Key[i+len(OpSeparator):]
	}
	if field == "" {
		return term{}, &OperatorError{Key: p.Key, Reason: ErrMsgEmptyField}
	}

	switch op {
	case OpEq:
		if isNull(p.Value) {
			return term{field: field, op: "IS NULL"}, nil
		}
		return term{field: field, op: "=", value: p.Value, bound: true}, nil
	case OpIsNull:
		want, ok := p.Value.(bool)
		if !ok {
			return term{}, &OperatorError{Key: p.Key, Reason: ErrMsgInvalidIsNull}
		}
		if want {
			return term{field: field, op: "IS NULL"}, nil
		}
		return term{field: field, op: "IS NOT NULL"}, nil
	case OpIn:
		return term{field: field, op: "= ANY", value: p.Value, bound: true}, nil
	}

	if sqlOp, ok := comparisonOps[op]; ok {
		return term{field: field, op: sqlOp, value: p.Value, bound: true}, nil
	}
	return term{}, &OperatorError{Key: p.Key, Reason: ErrMsgUnknownOperator}
}

// isNull treats untyped nil, nil pointers and valuers that encode to NULL
// (such as an invalid pgtype.Date) alike.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return true
	}
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		return err == nil && dv == nil
	}
	return false
}

// quoteField double-quotes an identifier, doubling embedded quotes.
func quoteField(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteFields(names []string) []string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteField(n)
	}
	return quoted
}
