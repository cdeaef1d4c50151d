package versioned

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// Document is one remote record: attribute name to raw JSON value.
type Document map[string]json.RawMessage

// FieldError reports a remote value that could not be coerced.
type FieldError struct {
	Field string
	Type  FieldType
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %q (%s): %v", ErrMsgCoerceField, e.Field, e.Type, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Decode builds a row from a remote document, coercing each attribute to its
// field type. Missing attributes and JSON nulls become NULL.
func Decode[T Model, PT ModelPtr[T]](s Schema, doc Document) (T, error) {
	var row T
	targets := PT(&row).Targets()
	if len(targets) != len(s.Fields) {
		return row, fmt.Errorf("%s: %s has %d targets for %d fields", ErrMsgSchemaMismatch, s.Table, len(targets), len(s.Fields))
	}
	for i, f := range s.Fields {
		raw := doc[f.RemoteName()]
		if err := coerce(f.Type, raw, targets[i]); err != nil {
			return row, &FieldError{Field: f.Name, Type: f.Type, Err: err}
		}
	}
	return row, nil
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// scalar returns a JSON string's contents or the literal text of any other
// scalar. Objects and arrays are compacted.
func scalar(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func coerce(t FieldType, raw json.RawMessage, target any) error {
	null := isJSONNull(raw)

	switch dst := target.(type) {
	case *pgtype.Text:
		*dst = pgtype.Text{}
		if null {
			return nil
		}
		var (
			s   string
			err error
		)
		if t == Geometry {
			s, err = geometryText(raw)
		} else {
			s, err = scalar(raw)
		}
		if err != nil {
			return err
		}
		*dst = pgtype.Text{String: s, Valid: true}

	case *pgtype.Int4:
		*dst = pgtype.Int4{}
		if null {
			return nil
		}
		n, err := parseInt(raw)
		if err != nil {
			return err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return fmt.Errorf("%s: %d", ErrMsgOutOfRange, n)
		}
		*dst = pgtype.Int4{Int32: int32(n), Valid: true}

	case *pgtype.Int8:
		*dst = pgtype.Int8{}
		if null {
			return nil
		}
		n, err := parseInt(raw)
		if err != nil {
			return err
		}
		*dst = pgtype.Int8{Int64: n, Valid: true}

	case *pgtype.Float8:
		*dst = pgtype.Float8{}
		if null {
			return nil
		}
		s, err := scalar(raw)
		if err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		*dst = pgtype.Float8{Float64: f, Valid: true}

	case *pgtype.Bool:
		*dst = pgtype.Bool{}
		if null {
			return nil
		}
		s, err := scalar(raw)
		if err != nil {
			return err
		}
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*dst = pgtype.Bool{Bool: b, Valid: true}

	case *pgtype.Date:
		*dst = pgtype.Date{}
		if null {
			return nil
		}
		s, err := scalar(raw)
		if err != nil {
			return err
		}
		d, err := parseDate(s)
		if err != nil {
			return err
		}
		*dst = pgtype.Date{Time: d, Valid: true}

	case *pgtype.Time:
		*dst = pgtype.Time{}
		if null {
			return nil
		}
		s, err := scalar(raw)
		if err != nil {
			return err
		}
		us, err := parseClock(s)
		if err != nil {
			return err
		}
		*dst = pgtype.Time{Microseconds: us, Valid: true}

	case *pgtype.Timestamp:
		*dst = pgtype.Timestamp{}
		if null {
			return nil
		}
		s, err := scalar(raw)
		if err != nil {
			return err
		}
		ts, err := parseTimestamp(s)
		if err != nil {
			return err
		}
		*dst = pgtype.Timestamp{Time: ts, Valid: true}

	case *pgtype.Timestamptz:
		*dst = pgtype.Timestamptz{}
		if null {
			return nil
		}
		s, err := scalar(raw)
		if err != nil {
			return err
		}
		ts, err := parseTimestamp(s)
		if err != nil {
			return err
		}
		*dst = pgtype.Timestamptz{Time: ts, Valid: true}

	default:
		return fmt.Errorf("%s: %T", ErrMsgUnsupportedTarget, target)
	}
	return nil
}

func parseInt(raw json.RawMessage) (int64, error) {
	s, err := scalar(raw)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// Integral floats such as 12.0 are accepted.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
		return 0, fmt.Errorf("%s: %s", ErrMsgNotAnInteger, s)
	}
	return int64(f), nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// parseTimestamp accepts ISO 8601 with or without an offset. Values without
// an offset are taken as UTC; the result is always in UTC at microsecond
// precision, matching what PostgreSQL stores.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: %q", ErrMsgInvalidTimestamp, s)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) >= len(time.DateOnly) {
		if d, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)]); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: %q", ErrMsgInvalidDate, s)
}

// parseClock turns "15:04:05[.ffffff]" into microseconds since midnight.
func parseClock(s string) (int64, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05.999999", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			h, m, sec := t.Clock()
			us := int64(h)*3600e6 + int64(m)*60e6 + int64(sec)*1e6 + int64(t.Nanosecond()/1000)
			return us, nil
		}
	}
	return 0, fmt.Errorf("%s: %q", ErrMsgInvalidTime, s)
}

// geometryText renders a GeoJSON geometry as compact WKT. Strings are taken
// to be WKT already and only have their spacing normalised.
func geometryText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		s, err := scalar(trimmed)
		if err != nil {
			return "", err
		}
		return CompactWKT(s), nil
	}
	g, err := geojson.UnmarshalGeometry(trimmed)
	if err != nil {
		return "", err
	}
	return CompactWKT(wkt.MarshalString(g.Geometry())), nil
}

// CompactWKT collapses runs of whitespace and drops spaces around commas and
// parentheses, so equal shapes always produce equal text.
func CompactWKT(s string) string {
	fields := strings.Fields(s)
	joined := strings.Join(fields, " ")
	for _, r := range []struct{ from, to string }{
		{", ", ","}, {" ,", ","},
		{"( ", "("}, {" (", "("},
		{" )", ")"}, {") ", ")"},
	} {
		for strings.Contains(joined, r.from) {
			joined = strings.ReplaceAll(joined, r.from, r.to)
		}
	}
	return joined
}
