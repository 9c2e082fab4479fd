package value

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Per-kind seeds keep values of different ranks from colliding on the
// same payload (e.g. a string and a byte slice with identical contents).
// Numbers deliberately share a seed because an integer and an integral
// double are equivalent under the comparator and must hash alike.
const (
	hashSeedNull      = 0x9e3779b97f4a7c15
	hashSeedBoolean   = 0xbf58476d1ce4e5b9
	hashSeedNumber    = 0x94d049bb133111eb
	hashSeedTimestamp = 0x2545f4914f6cdd1d
	hashSeedString    = 0x27d4eb2f165667c5
	hashSeedBytes     = 0x165667b19e3779f9
	hashSeedReference = 0x85ebca77c2b2ae63
	hashSeedGeoPoint  = 0xc2b2ae3d27d4eb4f
	hashSeedArray     = 0xff51afd7ed558ccd
	hashSeedMap       = 0xc4ceb9fe1a85ec53
)

// Hash returns a hash consistent with the comparator's equivalence:
// Compare(a, b) == 0 implies Hash(a) == Hash(b). In particular an
// integer and an integral double hash identically, and every NaN hashes
// to the same word regardless of payload bits.
func Hash(v Value) uint64 {
	switch t := v.(type) {
	case NullValue:
		return hashSeedNull
	case BooleanValue:
		if bool(t) {
			return hashSeedBoolean ^ 1
		}
		return hashSeedBoolean
	case IntegerValue:
		return hashSeedNumber ^ mix64(uint64(int64(t)))
	case DoubleValue:
		return hashSeedNumber ^ hashDouble(float64(t))
	case TimestampValue:
		return hashSeedTimestamp ^ mix64(uint64(t.Seconds)*31+uint64(uint32(t.Nanos)))
	case StringValue:
		return hashSeedString ^ xxhash.Sum64String(string(t))
	case BytesValue:
		return hashSeedBytes ^ xxhash.Sum64(t)
	case ReferenceValue:
		return hashSeedReference ^ xxhash.Sum64String(string(t))
	case GeoPointValue:
		h := mix64(math.Float64bits(t.Latitude))
		h = h*31 + mix64(math.Float64bits(t.Longitude))
		return hashSeedGeoPoint ^ h
	case ArrayValue:
		h := uint64(hashSeedArray)
		for _, e := range t {
			h = h*31 + Hash(e)
		}
		return h
	}
	if m, ok := v.(Map); ok {
		h := uint64(hashSeedMap)
		for it := m.Fields(); ; {
			name, child, ok := it.Next()
			if !ok {
				return h
			}
			h = h*31 + xxhash.Sum64String(name)
			h = h*31 + Hash(child)
		}
	}
	panic(fmt.Sprintf("internal: cannot hash value of kind %v", v.Kind()))
}

// hashDouble maps a double onto the shared number hash line. Integral
// doubles in int64 range hash as the equivalent integer; every NaN
// collapses to the canonical quiet-NaN bit pattern; -0.0 hashes as 0.
func hashDouble(d float64) uint64 {
	if math.IsNaN(d) {
		return mix64(math.Float64bits(math.NaN()))
	}
	if d == math.Trunc(d) && d >= math.MinInt64 && d < math.MaxInt64 {
		return mix64(uint64(int64(d)))
	}
	return mix64(math.Float64bits(d))
}

func mix64(x uint64) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], x)
	return xxhash.Sum64(buf[:])
}
