package value

import "time"

// TimestampValue is an instant with nanosecond precision, held as
// seconds since the Unix epoch plus a nanos component in [0, 1e9).
// The wire codec is trusted to keep nanos in range.
type TimestampValue struct {
	Seconds int64
	Nanos   int32
}

// Timestamp returns a timestamp value from its components.
func Timestamp(seconds int64, nanos int32) TimestampValue {
	return TimestampValue{Seconds: seconds, Nanos: nanos}
}

// TimestampFromTime converts a time.Time to a timestamp value.
func TimestampFromTime(t time.Time) TimestampValue {
	return TimestampValue{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Kind returns KindTimestamp.
func (TimestampValue) Kind() Kind { return KindTimestamp }

// Time converts the timestamp to a time.Time in UTC.
func (t TimestampValue) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}
