package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/pocketdoc/pocketdoc/value"
)

// The JSON interchange form keeps kinds JSON cannot express natively in
// single-key envelopes:
//
//	null, true, "s", 1.5, [...]        null, boolean, string, double, array
//	{"int": "123"}                     integer (string keeps 64-bit precision)
//	{"double": "NaN"}                  non-finite doubles
//	{"timestamp": {"seconds": 1, "nanos": 2}}
//	{"bytes": "<base64>"}
//	{"reference": "users/alice"}
//	{"geopoint": {"latitude": 1, "longitude": 2}}
//	{"map": {...}}                     map (always enveloped, so plain
//	                                   objects stay unambiguous)
//
// Bare JSON numbers decode as doubles; integers always travel in their
// envelope.

// EncodeJSON renders v in the JSON interchange form.
func EncodeJSON(v value.Value) ([]byte, error) {
	iv, err := toInterchange(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(iv)
}

// DecodeJSON parses the JSON interchange form.
func DecodeJSON(data []byte) (value.Value, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing value JSON: %w", err)
	}
	return fromInterchange(raw)
}

func toInterchange(v value.Value) (any, error) {
	switch t := v.(type) {
	case value.NullValue:
		return nil, nil
	case value.BooleanValue:
		return bool(t), nil
	case value.IntegerValue:
		return map[string]any{"int": strconv.FormatInt(int64(t), 10)}, nil
	case value.DoubleValue:
		d := float64(t)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return map[string]any{"double": nonFiniteName(d)}, nil
		}
		return d, nil
	case value.TimestampValue:
		return map[string]any{"timestamp": map[string]any{
			"seconds": strconv.FormatInt(t.Seconds, 10),
			"nanos":   int64(t.Nanos),
		}}, nil
	case value.StringValue:
		return string(t), nil
	case value.BytesValue:
		return map[string]any{"bytes": base64.StdEncoding.EncodeToString(t)}, nil
	case value.ReferenceValue:
		return map[string]any{"reference": string(t)}, nil
	case value.GeoPointValue:
		return map[string]any{"geopoint": map[string]any{
			"latitude":  t.Latitude,
			"longitude": t.Longitude,
		}}, nil
	case value.ArrayValue:
		out := make([]any, len(t))
		for i, e := range t {
			iv, err := toInterchange(e)
			if err != nil {
				return nil, err
			}
			out[i] = iv
		}
		return out, nil
	}

	m, ok := v.(value.Map)
	if !ok {
		return nil, fmt.Errorf("%w: cannot encode value of kind %v", ErrInternal, v.Kind())
	}
	fields := map[string]any{}
	for it := m.Fields(); ; {
		name, child, ok := it.Next()
		if !ok {
			break
		}
		iv, err := toInterchange(child)
		if err != nil {
			return nil, err
		}
		fields[name] = iv
	}
	return map[string]any{"map": fields}, nil
}

func fromInterchange(raw any) (value.Value, error) {
	switch t := raw.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Boolean(t), nil
	case string:
		return value.String(t), nil
	case json.Number:
		d, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing number %q: %w", t.String(), err)
		}
		return value.Double(d), nil
	case []any:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			v, err := fromInterchange(e)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return value.Array(elems...), nil
	case map[string]any:
		return fromEnvelope(t)
	}
	return nil, fmt.Errorf("unsupported JSON value %T", raw)
}

func fromEnvelope(obj map[string]any) (value.Value, error) {
	if len(obj) != 1 {
		return nil, fmt.Errorf("value envelope must have exactly one key, got %d", len(obj))
	}
	for kind, payload := range obj {
		switch kind {
		case "int":
			s, ok := payload.(string)
			if !ok {
				return nil, fmt.Errorf("int envelope needs a string payload")
			}
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing integer %q: %w", s, err)
			}
			return value.Integer(i), nil
		case "double":
			s, ok := payload.(string)
			if !ok {
				return nil, fmt.Errorf("double envelope needs a string payload")
			}
			switch s {
			case "NaN":
				return value.Double(math.NaN()), nil
			case "Infinity":
				return value.Double(math.Inf(1)), nil
			case "-Infinity":
				return value.Double(math.Inf(-1)), nil
			}
			return nil, fmt.Errorf("unknown double payload %q", s)
		case "timestamp":
			fields, ok := payload.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("timestamp envelope needs an object payload")
			}
			sec, err := jsonInt64(fields["seconds"])
			if err != nil {
				return nil, fmt.Errorf("timestamp seconds: %w", err)
			}
			nanos, err := jsonInt64(fields["nanos"])
			if err != nil {
				return nil, fmt.Errorf("timestamp nanos: %w", err)
			}
			return value.Timestamp(sec, int32(nanos)), nil
		case "bytes":
			s, ok := payload.(string)
			if !ok {
				return nil, fmt.Errorf("bytes envelope needs a string payload")
			}
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("decoding bytes: %w", err)
			}
			return value.Bytes(b), nil
		case "reference":
			s, ok := payload.(string)
			if !ok {
				return nil, fmt.Errorf("reference envelope needs a string payload")
			}
			return value.Reference(s), nil
		case "geopoint":
			fields, ok := payload.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("geopoint envelope needs an object payload")
			}
			lat, err := jsonFloat(fields["latitude"])
			if err != nil {
				return nil, fmt.Errorf("geopoint latitude: %w", err)
			}
			lng, err := jsonFloat(fields["longitude"])
			if err != nil {
				return nil, fmt.Errorf("geopoint longitude: %w", err)
			}
			return value.GeoPoint(lat, lng), nil
		case "map":
			fields, ok := payload.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("map envelope needs an object payload")
			}
			out := make(map[string]value.Value, len(fields))
			for name, child := range fields {
				v, err := fromInterchange(child)
				if err != nil {
					return nil, err
				}
				out[name] = v
			}
			return value.NewMap(out), nil
		default:
			return nil, fmt.Errorf("unknown value envelope %q", kind)
		}
	}
	return nil, fmt.Errorf("empty value envelope")
}

func jsonInt64(raw any) (int64, error) {
	switch t := raw.(type) {
	case string:
		return strconv.ParseInt(t, 10, 64)
	case json.Number:
		return t.Int64()
	}
	return 0, fmt.Errorf("expected an integer, got %T", raw)
}

func jsonFloat(raw any) (float64, error) {
	n, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
	return n.Float64()
}

func nonFiniteName(d float64) string {
	switch {
	case math.IsNaN(d):
		return "NaN"
	case math.IsInf(d, 1):
		return "Infinity"
	default:
		return "-Infinity"
	}
}
