package wgui

import (
	"encoding/binary"
	"hash/fnv"
)

// ID identifies one mounted component instance. IDs are stable across passes
// for the same position in the tree.
type ID uint64

// rootID is the identity of the root component.
const rootID ID = 0x9e3779b97f4a7c15

// keyedID derives the identity of a child mounted under an explicit key.
// The key alone decides the identity, so siblings can be reordered.
func keyedID(parent ID, key string) ID {
	h := fnv.New64a()
	var buf [9]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(parent))
	buf[8] = 'k'
	h.Write(buf[:])
	h.Write([]byte(key))
	return ID(h.Sum64())
}

// positionalID derives the identity of the n-th unkeyed child of parent.
func positionalID(parent ID, n int) ID {
	h := fnv.New64a()
	var buf [17]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(parent))
	buf[8] = 'p'
	binary.LittleEndian.PutUint64(buf[9:], uint64(n))
	h.Write(buf[:])
	return ID(h.Sum64())
}
