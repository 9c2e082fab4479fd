package model

import (
	"github.com/pocketdoc/pocketdoc/value"
)

// overlay is the state layered over one base-map child: either a
// replacement value or a tombstone. A tombstone and "set to null" are
// distinct states; a tombstoned child is absent while a null child is
// present with the null value.
type overlay struct {
	value   value.Value
	deleted bool
}

// ObjectValue is a map-rooted value layering pending writes over an
// immutable base map. Set and Delete return a new ObjectValue sharing
// all unchanged substructure with the receiver; the base map is never
// mutated. ObjectValue implements value.Map, so it participates in the
// comparator, hashing and canonical rendering like any plain map.
//
// The zero value is not usable; construct with NewObjectValue or
// EmptyObjectValue.
type ObjectValue struct {
	base     value.Map
	overlays *overlayMap
}

// NewObjectValue wraps an immutable base map with no pending overlays.
func NewObjectValue(base value.Map) *ObjectValue {
	return &ObjectValue{base: base, overlays: emptyOverlayMap}
}

// EmptyObjectValue returns an object with an empty base and no overlays.
func EmptyObjectValue() *ObjectValue {
	return NewObjectValue(value.EmptyMap())
}

// ObjectValueFromFields is a convenience constructor over a plain field
// map.
func ObjectValueFromFields(fields map[string]value.Value) *ObjectValue {
	return NewObjectValue(value.NewMap(fields))
}

// Kind returns value.KindMap.
func (o *ObjectValue) Kind() value.Kind { return value.KindMap }

// Get returns the value at path in the logical (overlaid) state. An
// empty path addresses the object itself. Descent consults overlays
// first; a tombstone hides the base child of the same name.
func (o *ObjectValue) Get(path FieldPath) (value.Value, bool) {
	if path.Empty() {
		return o, true
	}
	name := path.First()

	if ov, ok := o.overlays.get(name); ok {
		if ov.deleted {
			return nil, false
		}
		if path.Len() == 1 {
			return ov.value, true
		}
		if m, ok := ov.value.(value.Map); ok {
			return getFromMap(m, path.PopFirst())
		}
		return nil, false
	}

	v, ok := o.base.Field(name)
	if !ok {
		return nil, false
	}
	if path.Len() == 1 {
		return v, true
	}
	m, ok := v.(value.Map)
	if !ok {
		return nil, false
	}
	return getFromMap(m, path.PopFirst())
}

// getFromMap descends a map-kinded value segment by segment. ObjectValue
// children route back through Get so their own overlays apply.
func getFromMap(m value.Map, path FieldPath) (value.Value, bool) {
	if child, ok := m.(*ObjectValue); ok {
		return child.Get(path)
	}
	v := value.Value(m)
	for i := 0; i < path.Len(); i++ {
		cur, ok := v.(value.Map)
		if !ok {
			return nil, false
		}
		if child, isObj := cur.(*ObjectValue); isObj {
			return child.Get(FieldPath{segments: path.segments[i:]})
		}
		v, ok = cur.Field(path.Segment(i))
		if !ok {
			return nil, false
		}
	}
	return v, true
}

// Set returns a new object with v installed at path. Intermediate
// children that exist as maps are preserved and overlaid; children of
// any other kind are replaced by a fresh nested object. Set panics on
// an empty path: the path is validated where user input enters the
// system, so an empty path here is a programming error.
func (o *ObjectValue) Set(path FieldPath, v value.Value) *ObjectValue {
	if path.Empty() {
		panic("objectvalue: set on empty field path")
	}
	name := path.First()
	if path.Len() == 1 {
		return o.setOverlay(name, overlay{value: v})
	}

	child := o.childObject(name)
	return o.setOverlay(name, overlay{value: child.Set(path.PopFirst(), v)})
}

// Delete returns a new object with the field at path removed. Deleting
// an absent field installs a tombstone whose effect is a no-op. A path
// that runs through a non-map value returns the receiver unchanged;
// primitives are never coerced into maps by a delete. Panics on an
// empty path, as Set does.
func (o *ObjectValue) Delete(path FieldPath) *ObjectValue {
	if path.Empty() {
		panic("objectvalue: delete on empty field path")
	}
	name := path.First()
	if path.Len() == 1 {
		return o.setOverlay(name, overlay{deleted: true})
	}

	existing, ok := o.Get(FieldPath{segments: path.segments[:1]})
	if !ok {
		return o
	}
	m, ok := existing.(value.Map)
	if !ok {
		return o
	}
	child := asObjectValue(m)
	return o.setOverlay(name, overlay{value: child.Delete(path.PopFirst())})
}

// childObject returns the existing child as an ObjectValue ready for
// recursive mutation: object children pass through, plain map children
// are promoted (preserving their entries as the new base), anything
// else is discarded for a fresh empty object.
func (o *ObjectValue) childObject(name string) *ObjectValue {
	existing, ok := o.Get(FieldPath{segments: []string{name}})
	if !ok {
		return EmptyObjectValue()
	}
	m, ok := existing.(value.Map)
	if !ok {
		return EmptyObjectValue()
	}
	return asObjectValue(m)
}

func asObjectValue(m value.Map) *ObjectValue {
	if obj, ok := m.(*ObjectValue); ok {
		return obj
	}
	return NewObjectValue(m)
}

func (o *ObjectValue) setOverlay(name string, ov overlay) *ObjectValue {
	return &ObjectValue{base: o.base, overlays: o.overlays.insert(name, ov)}
}

// Field returns the immediate child stored under name in the merged
// view. Implements value.Map.
func (o *ObjectValue) Field(name string) (value.Value, bool) {
	return o.Get(FieldPath{segments: []string{name}})
}

// Fields returns a lazy iterator over the merged (name, value) entries:
// base and overlay streams are both key-sorted, the smaller head is
// emitted at each step, the overlay wins ties, and tombstones hide
// their name from both streams. Implements value.Map.
func (o *ObjectValue) Fields() value.MapIter {
	return &mergedIter{base: o.base.Fields(), over: o.overlays.iter()}
}

type mergedIter struct {
	base value.MapIter
	over *overlayIter

	baseKey string
	baseVal value.Value
	baseOK  bool

	overKey string
	overOv  overlay
	overOK  bool
}

func (it *mergedIter) Next() (string, value.Value, bool) {
	for {
		if !it.baseOK {
			it.baseKey, it.baseVal, it.baseOK = it.base.Next()
		}
		if !it.overOK {
			it.overKey, it.overOv, it.overOK = it.over.next()
		}

		switch {
		case it.baseOK && it.overOK:
			switch {
			case it.baseKey < it.overKey:
				it.baseOK = false
				return it.baseKey, it.baseVal, true
			case it.baseKey == it.overKey:
				it.baseOK = false
				it.overOK = false
				if it.overOv.deleted {
					continue
				}
				return it.overKey, it.overOv.value, true
			default:
				it.overOK = false
				if it.overOv.deleted {
					continue
				}
				return it.overKey, it.overOv.value, true
			}
		case it.baseOK:
			it.baseOK = false
			return it.baseKey, it.baseVal, true
		case it.overOK:
			it.overOK = false
			if it.overOv.deleted {
				continue
			}
			return it.overKey, it.overOv.value, true
		default:
			return "", nil, false
		}
	}
}

// FieldMask returns the set of leaf paths present in the merged view.
// An empty nested map contributes the path of the map itself, so the
// object can be reconstructed exactly, empty maps included.
func (o *ObjectValue) FieldMask() FieldMask {
	return maskOfMap(o)
}

func maskOfMap(m value.Map) FieldMask {
	var paths []FieldPath
	for it := m.Fields(); ; {
		name, v, ok := it.Next()
		if !ok {
			break
		}
		current := FieldPath{segments: []string{name}}
		child, isMap := v.(value.Map)
		if !isMap {
			paths = append(paths, current)
			continue
		}
		nested := maskOfMap(child)
		if nested.Empty() {
			paths = append(paths, current)
			continue
		}
		for _, np := range nested.Paths() {
			paths = append(paths, current.AppendPath(np))
		}
	}
	return NewFieldMask(paths...)
}

// Compare orders the object against any other value via the shared
// comparator.
func (o *ObjectValue) Compare(other value.Value) int {
	return value.Compare(o, other)
}

// Equal reports comparator equivalence with another value.
func (o *ObjectValue) Equal(other value.Value) bool {
	return value.Compare(o, other) == 0
}

// Hash returns the value hash of the merged state.
func (o *ObjectValue) Hash() uint64 {
	return value.Hash(o)
}
