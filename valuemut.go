package nbt

import (
	"math"

	"github.com/scigolib/nbt/internal/mutf8"
)

// ValueMut is a mutable view into one value stored inside an owned
// container. For fixed-size primitives it aliases the slot in the parent's
// buffer, so Set and Update write straight through; for variable-size
// values it points at the owned child.
//
// A ValueMut has exclusive access to the value it points at: structurally
// mutating the parent container (insert, remove, push) invalidates it.
type ValueMut struct {
	tag   Tag
	order ByteOrder
	buf   []byte // primitive slot in the parent buffer
	kid   *Owned // variable-size child
}

// TagType returns the viewed value's NBT tag.
func (m ValueMut) TagType() Tag {
	return m.tag
}

// Value returns the viewed value as a standalone Owned value. Variable-size
// results share storage with the container.
func (m ValueMut) Value() Owned {
	if m.tag.IsPrimitive() {
		if m.tag == TagEnd {
			return Owned{}
		}
		return decodeScalarOwned(m.tag, m.buf, m.order)
	}
	return *m.kid
}

// AsByte returns the value as an int8 if its tag is Byte.
func (m ValueMut) AsByte() (int8, bool) {
	if m.tag != TagByte {
		return 0, false
	}
	return int8(m.buf[0]), true
}

// SetByte stores v if the viewed value is a Byte, reporting success.
func (m ValueMut) SetByte(v int8) bool {
	if m.tag != TagByte {
		return false
	}
	m.buf[0] = uint8(v)
	return true
}

// UpdateByte applies f to the current value if the viewed value is a Byte.
func (m ValueMut) UpdateByte(f func(int8) int8) bool {
	if m.tag != TagByte {
		return false
	}
	m.buf[0] = uint8(f(int8(m.buf[0])))
	return true
}

// AsShort returns the value as an int16 if its tag is Short.
func (m ValueMut) AsShort() (int16, bool) {
	if m.tag != TagShort {
		return 0, false
	}
	return int16(m.order.Uint16(m.buf)), true
}

// SetShort stores v if the viewed value is a Short, reporting success.
func (m ValueMut) SetShort(v int16) bool {
	if m.tag != TagShort {
		return false
	}
	m.order.PutUint16(m.buf, uint16(v))
	return true
}

// UpdateShort applies f to the current value if the viewed value is a Short.
func (m ValueMut) UpdateShort(f func(int16) int16) bool {
	if m.tag != TagShort {
		return false
	}
	m.order.PutUint16(m.buf, uint16(f(int16(m.order.Uint16(m.buf)))))
	return true
}

// AsInt returns the value as an int32 if its tag is Int.
func (m ValueMut) AsInt() (int32, bool) {
	if m.tag != TagInt {
		return 0, false
	}
	return int32(m.order.Uint32(m.buf)), true
}

// SetInt stores v if the viewed value is an Int, reporting success.
func (m ValueMut) SetInt(v int32) bool {
	if m.tag != TagInt {
		return false
	}
	m.order.PutUint32(m.buf, uint32(v))
	return true
}

// UpdateInt applies f to the current value if the viewed value is an Int.
func (m ValueMut) UpdateInt(f func(int32) int32) bool {
	if m.tag != TagInt {
		return false
	}
	m.order.PutUint32(m.buf, uint32(f(int32(m.order.Uint32(m.buf)))))
	return true
}

// AsLong returns the value as an int64 if its tag is Long.
func (m ValueMut) AsLong() (int64, bool) {
	if m.tag != TagLong {
		return 0, false
	}
	return int64(m.order.Uint64(m.buf)), true
}

// SetLong stores v if the viewed value is a Long, reporting success.
func (m ValueMut) SetLong(v int64) bool {
	if m.tag != TagLong {
		return false
	}
	m.order.PutUint64(m.buf, uint64(v))
	return true
}

// UpdateLong applies f to the current value if the viewed value is a Long.
func (m ValueMut) UpdateLong(f func(int64) int64) bool {
	if m.tag != TagLong {
		return false
	}
	m.order.PutUint64(m.buf, uint64(f(int64(m.order.Uint64(m.buf)))))
	return true
}

// AsFloat returns the value as a float32 if its tag is Float.
func (m ValueMut) AsFloat() (float32, bool) {
	if m.tag != TagFloat {
		return 0, false
	}
	return math.Float32frombits(m.order.Uint32(m.buf)), true
}

// SetFloat stores v if the viewed value is a Float, reporting success.
func (m ValueMut) SetFloat(v float32) bool {
	if m.tag != TagFloat {
		return false
	}
	m.order.PutUint32(m.buf, math.Float32bits(v))
	return true
}

// UpdateFloat applies f to the current value if the viewed value is a Float.
func (m ValueMut) UpdateFloat(f func(float32) float32) bool {
	if m.tag != TagFloat {
		return false
	}
	m.order.PutUint32(m.buf, math.Float32bits(f(math.Float32frombits(m.order.Uint32(m.buf)))))
	return true
}

// AsDouble returns the value as a float64 if its tag is Double.
func (m ValueMut) AsDouble() (float64, bool) {
	if m.tag != TagDouble {
		return 0, false
	}
	return math.Float64frombits(m.order.Uint64(m.buf)), true
}

// SetDouble stores v if the viewed value is a Double, reporting success.
func (m ValueMut) SetDouble(v float64) bool {
	if m.tag != TagDouble {
		return false
	}
	m.order.PutUint64(m.buf, math.Float64bits(v))
	return true
}

// UpdateDouble applies f to the current value if the viewed value is a Double.
func (m ValueMut) UpdateDouble(f func(float64) float64) bool {
	if m.tag != TagDouble {
		return false
	}
	m.order.PutUint64(m.buf, math.Float64bits(f(math.Float64frombits(m.order.Uint64(m.buf)))))
	return true
}

// AsList returns the underlying list for in-place mutation if the tag is
// List.
func (m ValueMut) AsList() (*OwnedList, bool) {
	if m.tag != TagList {
		return nil, false
	}
	return m.kid.list, true
}

// AsCompound returns the underlying compound for in-place mutation if the
// tag is Compound.
func (m ValueMut) AsCompound() (*OwnedCompound, bool) {
	if m.tag != TagCompound {
		return nil, false
	}
	return m.kid.comp, true
}

// AsByteArray returns the byte array payload if the tag is ByteArray.
// Mutating the returned slice's elements writes through; use SetByteArray
// to change its length.
func (m ValueMut) AsByteArray() ([]byte, bool) {
	if m.tag != TagByteArray {
		return nil, false
	}
	return m.kid.raw, true
}

// SetByteArray replaces the byte array payload, reporting success.
func (m ValueMut) SetByteArray(b []byte) bool {
	if m.tag != TagByteArray {
		return false
	}
	m.kid.raw = b
	return true
}

// AsIntArray returns the int array elements if the tag is IntArray.
func (m ValueMut) AsIntArray() ([]int32, bool) {
	if m.tag != TagIntArray {
		return nil, false
	}
	return m.kid.i32s, true
}

// SetIntArray replaces the int array elements, reporting success.
func (m ValueMut) SetIntArray(v []int32) bool {
	if m.tag != TagIntArray {
		return false
	}
	m.kid.i32s = v
	return true
}

// AsLongArray returns the long array elements if the tag is LongArray.
func (m ValueMut) AsLongArray() ([]int64, bool) {
	if m.tag != TagLongArray {
		return nil, false
	}
	return m.kid.i64s, true
}

// SetLongArray replaces the long array elements, reporting success.
func (m ValueMut) SetLongArray(v []int64) bool {
	if m.tag != TagLongArray {
		return false
	}
	m.kid.i64s = v
	return true
}

// AsString returns a view of the string's MUTF-8 bytes if the tag is String.
func (m ValueMut) AsString() (String, bool) {
	if m.tag != TagString {
		return String{}, false
	}
	return String{raw: m.kid.raw}, true
}

// SetString replaces the string contents, reporting success.
func (m ValueMut) SetString(s string) bool {
	if m.tag != TagString {
		return false
	}
	m.kid.raw = mutf8.Encode(s)
	return true
}
