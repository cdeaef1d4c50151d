package query

import "fmt"

// UnsupportedClauseError reports a clause method called on a statement that
// does not declare it, e.g. Limit on an INSERT.
type UnsupportedClauseError struct {
	Clause    string
	Statement string
}

func (e *UnsupportedClauseError) Error() string {
	return fmt.Sprintf("%s: %s is not valid for %s", ErrMsgUnsupportedClause, e.Clause, e.Statement)
}

// OperatorError reports a malformed predicate or order term.
type OperatorError struct {
	Key    string
	Reason string
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Key)
}
