package nbt

import (
	"math"

	"github.com/scigolib/nbt/internal/mutf8"
)

// OwnedCompound is an owned, mutable NBT compound. Entries live in a
// contiguous wire-format buffer (tag, name length, name, value) terminated
// by the End sentinel; fixed-size values are inline, variable-size values
// occupy slots pointing into the kid store.
type OwnedCompound struct {
	order ByteOrder
	data  []byte // entries..., End
	kidStore
}

// NewCompound returns an empty compound whose inline data uses the given
// byte order.
func NewCompound(order ByteOrder) *OwnedCompound {
	return &OwnedCompound{order: order, data: []byte{0}}
}

// Owned wraps the compound in an Owned value so it can be inserted into a
// container, which then takes ownership.
func (c *OwnedCompound) Owned() Owned {
	return Owned{tag: TagCompound, comp: c}
}

// Order returns the byte order of the compound's inline data.
func (c *OwnedCompound) Order() ByteOrder {
	return c.order
}

// Len returns the number of entries. It walks the buffer once.
func (c *OwnedCompound) Len() int {
	n := 0
	for pos := 0; ; {
		tag := Tag(c.data[pos])
		if tag == TagEnd {
			return n
		}
		n++
		pos += 3 + int(c.order.Uint16(c.data[pos+1:])) + ownedValueSize(tag)
	}
}

// IsEmpty reports whether the compound has no entries.
func (c *OwnedCompound) IsEmpty() bool {
	return Tag(c.data[0]) == TagEnd
}

// find locates the entry with the given already-encoded name. It returns
// the offset of the entry's tag byte and of its value, or ok=false.
func (c *OwnedCompound) find(name []byte) (entryOff, valOff int, tag Tag, ok bool) {
	for pos := 0; ; {
		tag = Tag(c.data[pos])
		if tag == TagEnd {
			return 0, 0, TagEnd, false
		}
		nameLen := int(c.order.Uint16(c.data[pos+1:]))
		nameStart := pos + 3
		entryName := c.data[nameStart : nameStart+nameLen]
		valueStart := nameStart + nameLen
		if string(entryName) == string(name) {
			return pos, valueStart, tag, true
		}
		pos = valueStart + ownedValueSize(tag)
	}
}

// Get returns the value for the given key. Variable-size results share
// storage with the compound.
func (c *OwnedCompound) Get(key string) (Owned, bool) {
	_, valOff, tag, ok := c.find(mutf8.Encode(key))
	if !ok {
		return Owned{}, false
	}
	return c.valueAt(tag, valOff), true
}

func (c *OwnedCompound) valueAt(tag Tag, valOff int) Owned {
	if tag.IsPrimitive() {
		return decodeScalarOwned(tag, c.data[valOff:], c.order)
	}
	return c.kids[getSlot(c.data[valOff:])]
}

// GetMut returns a mutable view of the value for the given key.
func (c *OwnedCompound) GetMut(key string) (ValueMut, bool) {
	_, valOff, tag, ok := c.find(mutf8.Encode(key))
	if !ok {
		return ValueMut{}, false
	}
	if tag.IsPrimitive() {
		sz := tag.PrimitiveSize()
		return ValueMut{tag: tag, order: c.order, buf: c.data[valOff : valOff+sz : valOff+sz]}, true
	}
	return ValueMut{tag: tag, order: c.order, kid: c.at(getSlot(c.data[valOff:]))}, true
}

// Insert adds an entry, replacing any existing entry with the same key.
// It returns the replaced value, if any: inserting twice under one key
// leaves the compound as if only the second insert happened.
//
// Inserting the absent (End) value is a programmer error and panics.
func (c *OwnedCompound) Insert(key string, v Owned) (old Owned, replaced bool) {
	if v.tag == TagEnd {
		panic("nbt: cannot insert the absent value into a compound")
	}
	name := mutf8.Encode(key)
	if len(name) > math.MaxUint16 {
		panic("nbt: compound key exceeds the wire format's 16-bit name length")
	}
	old, replaced = c.removeEncoded(name)

	// Drop the trailing End sentinel, append the entry, re-push End.
	c.data = c.data[:len(c.data)-1]
	c.data = append(c.data, byte(v.tag))
	c.data = c.order.AppendUint16(c.data, uint16(len(name)))
	c.data = append(c.data, name...)
	if v.tag.IsPrimitive() {
		c.data = appendScalarOwned(c.data, v, c.order)
	} else {
		c.data = appendSlot(c.data, c.adopt(v))
	}
	c.data = append(c.data, byte(TagEnd))
	return old, replaced
}

// Remove deletes the entry with the given key and returns its value.
func (c *OwnedCompound) Remove(key string) (Owned, bool) {
	return c.removeEncoded(mutf8.Encode(key))
}

func (c *OwnedCompound) removeEncoded(name []byte) (Owned, bool) {
	entryOff, valOff, tag, ok := c.find(name)
	if !ok {
		return Owned{}, false
	}
	var v Owned
	if tag.IsPrimitive() {
		v = decodeScalarOwned(tag, c.data[valOff:], c.order)
	} else {
		v = c.take(getSlot(c.data[valOff:]))
	}
	c.data = splice(c.data, entryOff, valOff+ownedValueSize(tag)-entryOff)
	return v, true
}

// Iter returns an iterator over the entries of the compound. The compound
// must not be structurally mutated while iterating.
func (c *OwnedCompound) Iter() OwnedCompoundIter {
	return OwnedCompoundIter{comp: c}
}

// OwnedCompoundIter iterates over the entries of an OwnedCompound in
// insertion order.
type OwnedCompoundIter struct {
	comp *OwnedCompound
	pos  int
}

// Next returns the next entry's name and value, or ok=false after the final
// entry.
func (it *OwnedCompoundIter) Next() (String, Owned, bool) {
	c := it.comp
	tag := Tag(c.data[it.pos])
	if tag == TagEnd {
		return String{}, Owned{}, false
	}
	nameLen := int(c.order.Uint16(c.data[it.pos+1:]))
	nameStart := it.pos + 3
	name := String{raw: c.data[nameStart : nameStart+nameLen : nameStart+nameLen]}
	valOff := nameStart + nameLen
	v := c.valueAt(tag, valOff)
	it.pos = valOff + ownedValueSize(tag)
	return name, v, true
}
