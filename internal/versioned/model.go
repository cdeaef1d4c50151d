// Package versioned defines append-only, soft-deleted records of a mirrored
// dataset and the ordered field schema each dataset declares.
package versioned

import (
	"fmt"
	"time"
)

// Version columns, prefixed with an underscore so they never collide with
// dataset fields.
const (
	ColumnID      = "_id"
	ColumnCreated = "_created"
	ColumnDeleted = "_deleted"
)

// VersionColumns lists the version columns in table order.
var VersionColumns = []string{ColumnID, ColumnCreated, ColumnDeleted}

// Record is one stored row. Deleted is nil while the row is active.
type Record[T any] struct {
	ID      int64
	Created time.Time
	Deleted *time.Time
	Data    T
}

// Active reports whether the record is part of the current view.
func (r Record[T]) Active() bool {
	return r.Deleted == nil
}

// Model is a dataset row. Values returns the field values in schema order.
type Model interface {
	Values() []any
}

// ModelPtr is the pointer side of a Model. Targets returns pointers to the
// fields in schema order, suitable for scanning and decoding into.
type ModelPtr[T any] interface {
	*T
	Model
	Targets() []any
}

// FieldType selects the column type and the coercion applied to remote
// values.
type FieldType int

const (
	Text FieldType = iota
	Integer
	Float
	Boolean
	Date
	Time
	Timestamp
	TimestampTZ
	Geometry
)

var sqlTypes = map[FieldType]string{
	Boolean:     "BOOLEAN",
	Date:        "DATE",
	Timestamp:   "TIMESTAMP WITHOUT TIME ZONE",
	TimestampTZ: "TIMESTAMP WITH TIME ZONE",
	Time:        "TIME",
	Integer:     "INTEGER",
	Float:       "DOUBLE PRECISION",
	Geometry:    "TEXT",
	Text:        "TEXT",
}

// SQLType returns the column type for t.
func (t FieldType) SQLType() string {
	if s, ok := sqlTypes[t]; ok {
		return s
	}
	return "TEXT"
}

func (t FieldType) String() string {
	switch t {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	case Time:
		return "time"
	case Timestamp:
		return "timestamp"
	case TimestampTZ:
		return "timestamptz"
	case Geometry:
		return "geometry"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Field is one dataset column. Remote names the attribute in the remote
// document when it differs from the column name.
type Field struct {
	Name   string
	Type   FieldType
	Remote string
}

// RemoteName returns the attribute name to read from remote documents.
func (f Field) RemoteName() string {
	if f.Remote != "" {
		return f.Remote
	}
	return f.Name
}

// Schema binds a dataset to its table and ordered fields.
type Schema struct {
	Table  string
	Fields []Field
}

// Columns returns the dataset field names in order.
func (s Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

// AllColumns returns the version columns followed by the dataset fields.
func (s Schema) AllColumns() []string {
	return append(append([]string{}, VersionColumns...), s.Columns()...)
}

// HasField reports whether the dataset declares a field with this name.
func (s Schema) HasField(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Check verifies that a model's Values and Targets line up with the schema.
func Check[T Model, PT ModelPtr[T]](s Schema) error {
	var zero T
	if n := len(zero.Values()); n != len(s.Fields) {
		return fmt.Errorf("%s: %s has %d values for %d fields", ErrMsgSchemaMismatch, s.Table, n, len(s.Fields))
	}
	if n := len(PT(&zero).Targets()); n != len(s.Fields) {
		return fmt.Errorf("%s: %s has %d targets for %d fields", ErrMsgSchemaMismatch, s.Table, n, len(s.Fields))
	}
	return nil
}
