package versioned

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Key is the content key of a row: its dataset values in canonical form.
// Rows with equal keys are the same logical entity whatever their ids.
type Key string

// KeyOf returns the content key of m.
func KeyOf(m Model) Key {
	return KeyFrom(m.Values())
}

// KeyFrom encodes ordered values. Each value is written as a type tag and a
// length-prefixed canonical text, so no two distinct tuples share a key.
// Integers of any width compare equal by value, times compare by instant at
// microsecond precision, and every NULL encodes the same way.
func KeyFrom(values []any) Key {
	var sb strings.Builder
	for _, v := range values {
		tag, text, null := canonical(v)
		if null {
			sb.WriteString("~;")
			continue
		}
		sb.WriteString(tag)
		sb.WriteString(strconv.Itoa(len(text)))
		sb.WriteByte(':')
		sb.WriteString(text)
		sb.WriteByte(';')
	}
	return Key(sb.String())
}

const microTimestamp = "2006-01-02T15:04:05.000000"

func canonicalTime(t time.Time) string {
	return t.UTC().Truncate(time.Microsecond).Format(microTimestamp)
}

func canonicalFloat(f float64) string {
	if f == 0 {
		f = 0 // -0 and +0 are equal
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func canonical(v any) (tag, text string, null bool) {
	switch x := v.(type) {
	case nil:
		return "", "", true
	case string:
		return "s", x, false
	case *string:
		if x == nil {
			return "", "", true
		}
		return "s", *x, false
	case int:
		return "i", strconv.FormatInt(int64(x), 10), false
	case int32:
		return "i", strconv.FormatInt(int64(x), 10), false
	case int64:
		return "i", strconv.FormatInt(x, 10), false
	case *int64:
		if x == nil {
			return "", "", true
		}
		return "i", strconv.FormatInt(*x, 10), false
	case float64:
		return "f", canonicalFloat(x), false
	case *float64:
		if x == nil {
			return "", "", true
		}
		return "f", canonicalFloat(*x), false
	case bool:
		return "b", strconv.FormatBool(x), false
	case time.Time:
		return "t", canonicalTime(x), false
	case *time.Time:
		if x == nil {
			return "", "", true
		}
		return "t", canonicalTime(*x), false
	case pgtype.Text:
		if !x.Valid {
			return "", "", true
		}
		return "s", x.String, false
	case pgtype.Int2:
		if !x.Valid {
			return "", "", true
		}
		return "i", strconv.FormatInt(int64(x.Int16), 10), false
	case pgtype.Int4:
		if !x.Valid {
			return "", "", true
		}
		return "i", strconv.FormatInt(int64(x.Int32), 10), false
	case pgtype.Int8:
		if !x.Valid {
			return "", "", true
		}
		return "i", strconv.FormatInt(x.Int64, 10), false
	case pgtype.Float8:
		if !x.Valid {
			return "", "", true
		}
		return "f", canonicalFloat(x.Float64), false
	case pgtype.Bool:
		if !x.Valid {
			return "", "", true
		}
		return "b", strconv.FormatBool(x.Bool), false
	case pgtype.Date:
		if !x.Valid {
			return "", "", true
		}
		return "d", x.Time.Format(time.DateOnly), false
	case pgtype.Time:
		if !x.Valid {
			return "", "", true
		}
		return "h", strconv.FormatInt(x.Microseconds, 10), false
	case pgtype.Timestamp:
		if !x.Valid {
			return "", "", true
		}
		// Wall clock only: TIMESTAMP carries no zone.
		wall := time.Date(x.Time.Year(), x.Time.Month(), x.Time.Day(),
			x.Time.Hour(), x.Time.Minute(), x.Time.Second(), x.Time.Nanosecond(), time.UTC)
		return "t", canonicalTime(wall), false
	case pgtype.Timestamptz:
		if !x.Valid {
			return "", "", true
		}
		return "z", canonicalTime(x.Time), false
	case fmt.Stringer:
		return "x", x.String(), false
	default:
		return "x", fmt.Sprintf("%v", x), false
	}
}
