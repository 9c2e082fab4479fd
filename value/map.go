package value

import "sort"

// mapValue is the plain map implementation: a fixed set of uniquely
// named children held in lexicographic key order.
type mapValue struct {
	keys   []string
	fields map[string]Value
}

// NewMap builds a map value from fields. The input map is copied; later
// mutation of fields does not affect the result.
func NewMap(fields map[string]Value) Map {
	m := &mapValue{
		keys:   make([]string, 0, len(fields)),
		fields: make(map[string]Value, len(fields)),
	}
	for k, v := range fields {
		m.keys = append(m.keys, k)
		m.fields[k] = v
	}
	sort.Strings(m.keys)
	return m
}

// EmptyMap returns a map value with no fields.
func EmptyMap() Map { return NewMap(nil) }

// Kind returns KindMap.
func (*mapValue) Kind() Kind { return KindMap }

// Field returns the child stored under name.
func (m *mapValue) Field(name string) (Value, bool) {
	v, ok := m.fields[name]
	return v, ok
}

// Fields returns an iterator over the entries in key order.
func (m *mapValue) Fields() MapIter {
	return &mapValueIter{m: m}
}

type mapValueIter struct {
	m   *mapValue
	pos int
}

func (it *mapValueIter) Next() (string, Value, bool) {
	if it.pos >= len(it.m.keys) {
		return "", nil, false
	}
	k := it.m.keys[it.pos]
	it.pos++
	return k, it.m.fields[k], true
}

// MapLen returns the number of entries in m. It walks the iterator, so
// for overlay-backed maps the cost is linear in the merged size.
func MapLen(m Map) int {
	n := 0
	for it := m.Fields(); ; {
		if _, _, ok := it.Next(); !ok {
			return n
		}
		n++
	}
}
