package nbt

import (
	"math"

	"github.com/scigolib/nbt/internal/mutf8"
)

// Owned is a fully owned NBT value. Unlike the zero-copy Value, an Owned
// value carries its data with it and can be inserted into OwnedCompound and
// OwnedList containers, which take ownership of it.
//
// Scalar values hold their number directly. String and ByteArray values own
// a byte slice, the integer arrays own decoded element slices, and List and
// Compound values point at their container. Copying an Owned value of a
// variable-size kind shares the underlying storage, like copying a slice.
type Owned struct {
	tag  Tag
	num  uint64 // scalar bits for Byte..Double
	raw  []byte // String (MUTF-8) and ByteArray payload
	i32s []int32
	i64s []int64
	list *OwnedList
	comp *OwnedCompound
}

// NewByte returns an owned Byte value.
func NewByte(v int8) Owned {
	return Owned{tag: TagByte, num: uint64(uint8(v))}
}

// NewShort returns an owned Short value.
func NewShort(v int16) Owned {
	return Owned{tag: TagShort, num: uint64(uint16(v))}
}

// NewInt returns an owned Int value.
func NewInt(v int32) Owned {
	return Owned{tag: TagInt, num: uint64(uint32(v))}
}

// NewLong returns an owned Long value.
func NewLong(v int64) Owned {
	return Owned{tag: TagLong, num: uint64(v)}
}

// NewFloat returns an owned Float value.
func NewFloat(v float32) Owned {
	return Owned{tag: TagFloat, num: uint64(math.Float32bits(v))}
}

// NewDouble returns an owned Double value.
func NewDouble(v float64) Owned {
	return Owned{tag: TagDouble, num: math.Float64bits(v)}
}

// NewString returns an owned String value holding the MUTF-8 encoding of s.
func NewString(s string) Owned {
	return Owned{tag: TagString, raw: mutf8.Encode(s)}
}

// NewStringRaw returns an owned String value that takes ownership of
// already-encoded MUTF-8 bytes.
func NewStringRaw(b []byte) Owned {
	return Owned{tag: TagString, raw: b}
}

// NewByteArray returns an owned ByteArray value that takes ownership of b.
func NewByteArray(b []byte) Owned {
	return Owned{tag: TagByteArray, raw: b}
}

// NewIntArray returns an owned IntArray value that takes ownership of v.
func NewIntArray(v []int32) Owned {
	return Owned{tag: TagIntArray, i32s: v}
}

// NewLongArray returns an owned LongArray value that takes ownership of v.
func NewLongArray(v []int64) Owned {
	return Owned{tag: TagLongArray, i64s: v}
}

// TagType returns the value's NBT tag. The zero Owned reports TagEnd.
func (o Owned) TagType() Tag {
	return o.tag
}

// Exists reports whether the value is present (not the End / absent value).
func (o Owned) Exists() bool {
	return o.tag != TagEnd
}

// AsByte returns the value as an int8 if its tag is Byte.
func (o Owned) AsByte() (int8, bool) {
	if o.tag != TagByte {
		return 0, false
	}
	return int8(uint8(o.num)), true
}

// AsShort returns the value as an int16 if its tag is Short.
func (o Owned) AsShort() (int16, bool) {
	if o.tag != TagShort {
		return 0, false
	}
	return int16(uint16(o.num)), true
}

// AsInt returns the value as an int32 if its tag is Int.
func (o Owned) AsInt() (int32, bool) {
	if o.tag != TagInt {
		return 0, false
	}
	return int32(uint32(o.num)), true
}

// AsLong returns the value as an int64 if its tag is Long.
func (o Owned) AsLong() (int64, bool) {
	if o.tag != TagLong {
		return 0, false
	}
	return int64(o.num), true
}

// AsFloat returns the value as a float32 if its tag is Float.
func (o Owned) AsFloat() (float32, bool) {
	if o.tag != TagFloat {
		return 0, false
	}
	return math.Float32frombits(uint32(o.num)), true
}

// AsDouble returns the value as a float64 if its tag is Double.
func (o Owned) AsDouble() (float64, bool) {
	if o.tag != TagDouble {
		return 0, false
	}
	return math.Float64frombits(o.num), true
}

// AsString returns a view of the value's MUTF-8 bytes if its tag is String.
func (o Owned) AsString() (String, bool) {
	if o.tag != TagString {
		return String{}, false
	}
	return String{raw: o.raw}, true
}

// AsByteArray returns the byte array payload if the tag is ByteArray.
func (o Owned) AsByteArray() ([]byte, bool) {
	if o.tag != TagByteArray {
		return nil, false
	}
	return o.raw, true
}

// AsIntArray returns the int array elements if the tag is IntArray.
func (o Owned) AsIntArray() ([]int32, bool) {
	if o.tag != TagIntArray {
		return nil, false
	}
	return o.i32s, true
}

// AsLongArray returns the long array elements if the tag is LongArray.
func (o Owned) AsLongArray() ([]int64, bool) {
	if o.tag != TagLongArray {
		return nil, false
	}
	return o.i64s, true
}

// AsList returns the underlying list if the tag is List.
func (o Owned) AsList() (*OwnedList, bool) {
	if o.tag != TagList {
		return nil, false
	}
	return o.list, true
}

// AsCompound returns the underlying compound if the tag is Compound.
func (o Owned) AsCompound() (*OwnedCompound, bool) {
	if o.tag != TagCompound {
		return nil, false
	}
	return o.comp, true
}

// Get returns the entry named key if the value is a Compound, or the absent
// value otherwise. Like Value.Get, lookups chain.
func (o Owned) Get(key string) Owned {
	if o.tag != TagCompound || o.comp == nil {
		return Owned{}
	}
	v, _ := o.comp.Get(key)
	return v
}

// At returns the element at index i if the value is a List, or the absent
// value otherwise.
func (o Owned) At(i int) Owned {
	if o.tag != TagList || o.list == nil {
		return Owned{}
	}
	v, _ := o.list.Get(i)
	return v
}
