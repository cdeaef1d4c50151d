package query

// Clause kinds, listed in render order.
const (
	ClauseValues    = "VALUES"
	ClauseSet       = "SET"
	ClauseWhere     = "WHERE"
	ClauseOrderBy   = "ORDER_BY"
	ClauseLimit     = "LIMIT"
	ClauseReturning = "RETURNING"
)

// Statement kinds
const (
	StatementCount       = "COUNT"
	StatementSelect      = "SELECT"
	StatementInsert      = "INSERT"
	StatementUpdate      = "UPDATE"
	StatementCopy        = "COPY"
	StatementCreateTable = "CREATE TABLE"
)

// Operator suffixes accepted in predicate keys, e.g. "datum__gte".
const (
	OpSeparator = "__"

	OpEq     = "eq"
	OpNe     = "ne"
	OpLt     = "lt"
	OpLte    = "lte"
	OpGt     = "gt"
	OpGte    = "gte"
	OpIsNull = "isnull"
	OpIn     = "in"
)

// Sort directions accepted by OrderBy.
const (
	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"
)

var comparisonOps = map[string]string{
	OpEq:  "=",
	OpNe:  "!=",
	OpLt:  "<",
	OpLte: "<=",
	OpGt:  ">",
	OpGte: ">=",
	// Aliases kept for callers used to the short forms.
	"le": "<=",
	"ge": ">=",
}

// Error Messages
const (
	ErrMsgUnsupportedClause = "clause not supported"
	ErrMsgUnknownOperator   = "unknown operator"
	ErrMsgInvalidDirection  = "invalid sort direction"
	ErrMsgNegativeLimit     = "limit must not be negative"
	ErrMsgEmptyField        = "empty field name"
	ErrMsgInvalidIsNull     = "isnull expects a bool"
)
