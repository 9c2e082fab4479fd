package model

// overlayMap is a persistent ordered map from child name to overlay
// state, implemented as an Okasaki-style red-black tree. Insert copies
// the search path and rebalances without touching existing nodes, so
// every prior version keeps structural sharing with the new one.
// Inserting an existing key replaces its overlay in place (again by
// path copy). There is no remove: a masked child is expressed by
// inserting a tombstone overlay, never by shrinking the map.
type overlayMap struct {
	root *overlayNode
}

type overlayNode struct {
	key   string
	ov    overlay
	red   bool
	left  *overlayNode
	right *overlayNode
}

var emptyOverlayMap = &overlayMap{}

// get returns the overlay stored under key.
func (m *overlayMap) get(key string) (overlay, bool) {
	n := m.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n.ov, true
		}
	}
	return overlay{}, false
}

// insert returns a new map with key bound to ov. The receiver is
// unchanged.
func (m *overlayMap) insert(key string, ov overlay) *overlayMap {
	n := m.root.insert(key, ov)
	if n.red {
		n = &overlayNode{key: n.key, ov: n.ov, red: false, left: n.left, right: n.right}
	}
	return &overlayMap{root: n}
}

func (n *overlayNode) insert(key string, ov overlay) *overlayNode {
	if n == nil {
		return &overlayNode{key: key, ov: ov, red: true}
	}
	switch {
	case key < n.key:
		return balance(n.red, n.key, n.ov, n.left.insert(key, ov), n.right)
	case key > n.key:
		return balance(n.red, n.key, n.ov, n.left, n.right.insert(key, ov))
	default:
		return &overlayNode{key: key, ov: ov, red: n.red, left: n.left, right: n.right}
	}
}

func isRed(n *overlayNode) bool { return n != nil && n.red }

// balance restores the red-black invariant after an insert, allocating
// fresh nodes for any rotation it performs.
func balance(red bool, key string, ov overlay, l, r *overlayNode) *overlayNode {
	if !red {
		if isRed(l) && isRed(l.left) {
			return &overlayNode{
				key: l.key, ov: l.ov, red: true,
				left:  blacken(l.left),
				right: &overlayNode{key: key, ov: ov, left: l.right, right: r},
			}
		}
		if isRed(l) && isRed(l.right) {
			lr := l.right
			return &overlayNode{
				key: lr.key, ov: lr.ov, red: true,
				left:  &overlayNode{key: l.key, ov: l.ov, left: l.left, right: lr.left},
				right: &overlayNode{key: key, ov: ov, left: lr.right, right: r},
			}
		}
		if isRed(r) && isRed(r.left) {
			rl := r.left
			return &overlayNode{
				key: rl.key, ov: rl.ov, red: true,
				left:  &overlayNode{key: key, ov: ov, left: l, right: rl.left},
				right: &overlayNode{key: r.key, ov: r.ov, left: rl.right, right: r.right},
			}
		}
		if isRed(r) && isRed(r.right) {
			return &overlayNode{
				key: r.key, ov: r.ov, red: true,
				left:  &overlayNode{key: key, ov: ov, left: l, right: r.left},
				right: blacken(r.right),
			}
		}
	}
	return &overlayNode{key: key, ov: ov, red: red, left: l, right: r}
}

func blacken(n *overlayNode) *overlayNode {
	return &overlayNode{key: n.key, ov: n.ov, red: false, left: n.left, right: n.right}
}

// overlayIter walks the tree in key order using an explicit stack.
type overlayIter struct {
	stack []*overlayNode
}

func (m *overlayMap) iter() *overlayIter {
	it := &overlayIter{}
	it.push(m.root)
	return it
}

func (it *overlayIter) push(n *overlayNode) {
	for n != nil {
		it.stack = append(it.stack, n)
		n = n.left
	}
}

func (it *overlayIter) next() (string, overlay, bool) {
	if len(it.stack) == 0 {
		return "", overlay{}, false
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.push(n.right)
	return n.key, n.ov, true
}
