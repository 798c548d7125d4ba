package nbt

import (
	"fmt"
)

// OwnedList is an owned, mutable NBT list. All elements share one tag type;
// the list stores fixed-size elements inline in wire format and
// variable-size elements as slots pointing into its kid store.
//
// A default list has element tag End and length zero. The declared element
// tag of an empty list is only a suggestion: pushing the first element
// overwrites it.
type OwnedList struct {
	order ByteOrder
	data  []byte // elemTag(1) count(4) elements...
	kidStore
}

// NewList returns an empty list whose inline data uses the given byte order.
func NewList(order ByteOrder) *OwnedList {
	return &OwnedList{order: order, data: []byte{0, 0, 0, 0, 0}}
}

// Owned wraps the list in an Owned value so it can be inserted into a
// container, which then takes ownership.
func (l *OwnedList) Owned() Owned {
	return Owned{tag: TagList, list: l}
}

// Order returns the byte order of the list's inline data.
func (l *OwnedList) Order() ByteOrder {
	return l.order
}

// ElemTag returns the tag type shared by all elements.
func (l *OwnedList) ElemTag() Tag {
	return Tag(l.data[0])
}

// Len returns the number of elements.
func (l *OwnedList) Len() int {
	return int(l.order.Uint32(l.data[1:]))
}

// IsEmpty reports whether the list has no elements.
func (l *OwnedList) IsEmpty() bool {
	return l.Len() == 0
}

func (l *OwnedList) setLen(n int) {
	l.order.PutUint32(l.data[1:], uint32(n))
}

// elemOff returns the buffer offset of element i. All elements of a list
// have the same inline footprint, so this is a constant-stride computation.
func (l *OwnedList) elemOff(i int) int {
	return 5 + i*ownedValueSize(l.ElemTag())
}

// Get returns the element at index i. Variable-size results share storage
// with the list.
func (l *OwnedList) Get(i int) (Owned, bool) {
	if i < 0 || i >= l.Len() {
		return Owned{}, false
	}
	return l.elemAt(i), true
}

func (l *OwnedList) elemAt(i int) Owned {
	elem := l.ElemTag()
	off := l.elemOff(i)
	if elem.IsPrimitive() {
		if elem == TagEnd {
			return Owned{}
		}
		return decodeScalarOwned(elem, l.data[off:], l.order)
	}
	return l.kids[getSlot(l.data[off:])]
}

// GetMut returns a mutable view of the element at index i.
func (l *OwnedList) GetMut(i int) (ValueMut, bool) {
	if i < 0 || i >= l.Len() {
		return ValueMut{}, false
	}
	elem := l.ElemTag()
	off := l.elemOff(i)
	if elem.IsPrimitive() {
		sz := elem.PrimitiveSize()
		return ValueMut{tag: elem, order: l.order, buf: l.data[off : off+sz : off+sz]}, true
	}
	return ValueMut{tag: elem, order: l.order, kid: l.at(getSlot(l.data[off:]))}, true
}

// Push appends a value to the list.
//
// Pushing into an empty list adopts the value's tag as the list's element
// tag, overwriting whatever the header declared. Pushing a value whose tag
// does not match a non-empty list's element tag is a programmer error and
// panics.
func (l *OwnedList) Push(v Owned) {
	l.Insert(l.Len(), v)
}

// Insert inserts a value at index i, shifting later elements up. i may
// equal Len (append). It panics on a tag mismatch with a non-empty list and
// on an out-of-range index.
func (l *OwnedList) Insert(i int, v Owned) {
	n := l.Len()
	if i < 0 || i > n {
		panic(fmt.Sprintf("nbt: list insert index %d out of range [0..%d]", i, n))
	}
	if v.tag == TagEnd {
		panic("nbt: cannot push the absent value into a list")
	}
	if n == 0 {
		l.data[0] = byte(v.tag)
	} else if v.tag != l.ElemTag() {
		tagMismatchPanic(l.ElemTag(), v.tag)
	}

	var enc []byte
	if v.tag.IsPrimitive() {
		enc = appendScalarOwned(nil, v, l.order)
	} else {
		enc = appendSlot(nil, l.adopt(v))
	}
	l.data = insertBytes(l.data, l.elemOff(i), enc)
	l.setLen(n + 1)
}

// Pop removes and returns the last element, or ok=false when the list is
// empty.
func (l *OwnedList) Pop() (Owned, bool) {
	n := l.Len()
	if n == 0 {
		return Owned{}, false
	}
	return l.Remove(n - 1), true
}

// Remove removes and returns the element at index i, shifting later
// elements down. It panics if i is out of range.
func (l *OwnedList) Remove(i int) Owned {
	n := l.Len()
	if i < 0 || i >= n {
		panic(fmt.Sprintf("nbt: list remove index %d out of range [0..%d)", i, n))
	}
	elem := l.ElemTag()
	off := l.elemOff(i)
	sz := ownedValueSize(elem)

	var v Owned
	if elem.IsPrimitive() {
		if elem != TagEnd {
			v = decodeScalarOwned(elem, l.data[off:], l.order)
		}
	} else {
		v = l.take(getSlot(l.data[off:]))
	}
	l.data = splice(l.data, off, sz)
	l.setLen(n - 1)
	return v
}

// Iter returns an iterator over the elements of the list. The list must not
// be structurally mutated while iterating.
func (l *OwnedList) Iter() OwnedListIter {
	return OwnedListIter{list: l, remaining: l.Len()}
}

// OwnedListIter iterates over the elements of an OwnedList.
type OwnedListIter struct {
	list      *OwnedList
	index     int
	remaining int
}

// Next returns the next element, or ok=false when the list is exhausted.
func (it *OwnedListIter) Next() (Owned, bool) {
	if it.remaining == 0 {
		return Owned{}, false
	}
	it.remaining--
	v := it.list.elemAt(it.index)
	it.index++
	return v, true
}
