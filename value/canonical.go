package value

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CanonicalString renders a value as a compact, unambiguous string.
// Null and booleans render as the bare words null, true and false; the
// other scalar kinds carry a single-letter prefix so that values of different
// kinds with the same surface form (the integer 3 versus the string "3")
// can never collide; callers use this for query deduplication keys.
func CanonicalString(v Value) string {
	var b strings.Builder
	writeCanonical(&b, v)
	return b.String()
}

func writeCanonical(b *strings.Builder, v Value) {
	switch t := v.(type) {
	case NullValue:
		b.WriteString("null")
	case BooleanValue:
		b.WriteString(strconv.FormatBool(bool(t)))
	case IntegerValue:
		b.WriteString("i:")
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case DoubleValue:
		b.WriteString("d:")
		b.WriteString(formatDouble(float64(t)))
	case TimestampValue:
		fmt.Fprintf(b, "t:%d.%09d", t.Seconds, t.Nanos)
	case StringValue:
		b.WriteString("s:")
		b.WriteString(strconv.Quote(string(t)))
	case BytesValue:
		b.WriteString("x:")
		b.WriteString(hex.EncodeToString(t))
	case ReferenceValue:
		b.WriteString("r:")
		b.WriteString(string(t))
	case GeoPointValue:
		b.WriteString("g:")
		b.WriteString(formatDouble(t.Latitude))
		b.WriteByte(',')
		b.WriteString(formatDouble(t.Longitude))
	case ArrayValue:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, e)
		}
		b.WriteByte(']')
	default:
		m, ok := v.(Map)
		if !ok {
			panic(fmt.Sprintf("internal: cannot render value of kind %v", v.Kind()))
		}
		b.WriteByte('{')
		first := true
		for it := m.Fields(); ; {
			name, child, ok := it.Next()
			if !ok {
				break
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(name)
			b.WriteByte(':')
			writeCanonical(b, child)
		}
		b.WriteByte('}')
	}
}

func formatDouble(d float64) string {
	switch {
	case math.IsNaN(d):
		return "NaN"
	case math.IsInf(d, 1):
		return "Infinity"
	case math.IsInf(d, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(d, 'g', -1, 64)
	}
}
