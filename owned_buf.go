package nbt

import (
	"encoding/binary"
	"fmt"
)

// Owned containers keep their children in a contiguous wire-format buffer.
// Fixed-size primitive values are stored inline, already encoded in the
// container's byte order, so writing a same-order document degenerates to
// copying the buffer. Variable-size values (arrays, strings, lists,
// compounds) occupy a fixed four-byte slot holding an index into the
// container's kids slice; the slot is the Go-safe stand-in for an owned
// pointer, and the garbage collector handles reclamation.

// slotSize is the width of a variable-size child slot in a container buffer.
const slotSize = 4

// ownedValueSize returns the inline footprint of a value of tag t inside a
// container buffer.
func ownedValueSize(t Tag) int {
	if t.IsPrimitive() {
		return t.PrimitiveSize()
	}
	return slotSize
}

// putSlot / getSlot encode child indexes. Slots are internal bookkeeping,
// not wire data, so their encoding is fixed little-endian regardless of the
// container's byte order.
func putSlot(b []byte, idx uint32) {
	binary.LittleEndian.PutUint32(b, idx)
}

func getSlot(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func appendSlot(dst []byte, idx uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, idx)
}

// kidStore holds a container's variable-size children. Removed slots are
// recycled through the free list so long-lived containers do not leak
// indexes.
type kidStore struct {
	kids []Owned
	free []uint32
}

// adopt stores v and returns its slot index.
func (s *kidStore) adopt(v Owned) uint32 {
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.kids[idx] = v
		return idx
	}
	s.kids = append(s.kids, v)
	return uint32(len(s.kids) - 1)
}

// take removes and returns the child at idx, recycling the slot.
func (s *kidStore) take(idx uint32) Owned {
	v := s.kids[idx]
	s.kids[idx] = Owned{}
	s.free = append(s.free, idx)
	return v
}

// at returns a pointer to the child at idx for in-place mutation.
func (s *kidStore) at(idx uint32) *Owned {
	return &s.kids[idx]
}

// appendScalarOwned appends the inline encoding of a primitive owned value.
func appendScalarOwned(dst []byte, v Owned, order ByteOrder) []byte {
	switch v.tag {
	case TagByte:
		return append(dst, uint8(v.num))
	case TagShort:
		return order.AppendUint16(dst, uint16(v.num))
	case TagInt, TagFloat:
		return order.AppendUint32(dst, uint32(v.num))
	default: // TagLong, TagDouble
		return order.AppendUint64(dst, v.num)
	}
}

// decodeScalarOwned decodes an inline primitive back into a standalone value.
func decodeScalarOwned(tag Tag, b []byte, order ByteOrder) Owned {
	switch tag {
	case TagByte:
		return Owned{tag: tag, num: uint64(b[0])}
	case TagShort:
		return Owned{tag: tag, num: uint64(order.Uint16(b))}
	case TagInt, TagFloat:
		return Owned{tag: tag, num: uint64(order.Uint32(b))}
	default: // TagLong, TagDouble
		return Owned{tag: tag, num: order.Uint64(b)}
	}
}

// splice removes data[off:off+n] in place.
func splice(data []byte, off, n int) []byte {
	return append(data[:off], data[off+n:]...)
}

// insertBytes makes room for val at off and copies it in.
func insertBytes(data []byte, off int, val []byte) []byte {
	data = append(data, val...)             // grow
	copy(data[off+len(val):], data[off:])   // shift tail up
	copy(data[off:], val)                   // place value
	return data
}

func tagMismatchPanic(list Tag, pushed Tag) {
	panic(fmt.Sprintf("nbt: cannot push %s into a list of %s", pushed, list))
}
