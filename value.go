package nbt

import (
	"math"

	"github.com/scigolib/nbt/internal/core"
	"github.com/scigolib/nbt/internal/mutf8"
)

// Value is a zero-copy view of one NBT value inside a Document. The zero
// Value has tag End and represents absence: every failed lookup returns it,
// so lookups chain without error checks:
//
//	hp, ok := doc.Root().Get("player").Get("stats").Get("health").AsFloat()
//
// Values are cheap to copy and safe for concurrent use.
type Value struct {
	tag Tag
	doc *Document
	pos int // payload offset in doc.src
	mi  int // first child mark index (composites only)
}

// TagType returns the value's NBT tag. The zero Value reports TagEnd.
func (v Value) TagType() Tag {
	return v.tag
}

// Exists reports whether the value is present (not the End / absent value).
func (v Value) Exists() bool {
	return v.tag != TagEnd
}

// AsByte returns the value as an int8 if its tag is Byte.
func (v Value) AsByte() (int8, bool) {
	if v.tag != TagByte {
		return 0, false
	}
	return int8(v.doc.src[v.pos]), true
}

// AsShort returns the value as an int16 if its tag is Short.
func (v Value) AsShort() (int16, bool) {
	if v.tag != TagShort {
		return 0, false
	}
	return int16(v.doc.order.Uint16(v.doc.src[v.pos:])), true
}

// AsInt returns the value as an int32 if its tag is Int.
func (v Value) AsInt() (int32, bool) {
	if v.tag != TagInt {
		return 0, false
	}
	return int32(v.doc.order.Uint32(v.doc.src[v.pos:])), true
}

// AsLong returns the value as an int64 if its tag is Long.
func (v Value) AsLong() (int64, bool) {
	if v.tag != TagLong {
		return 0, false
	}
	return int64(v.doc.order.Uint64(v.doc.src[v.pos:])), true
}

// AsFloat returns the value as a float32 if its tag is Float.
func (v Value) AsFloat() (float32, bool) {
	if v.tag != TagFloat {
		return 0, false
	}
	return math.Float32frombits(v.doc.order.Uint32(v.doc.src[v.pos:])), true
}

// AsDouble returns the value as a float64 if its tag is Double.
func (v Value) AsDouble() (float64, bool) {
	if v.tag != TagDouble {
		return 0, false
	}
	return math.Float64frombits(v.doc.order.Uint64(v.doc.src[v.pos:])), true
}

// AsString returns a view of the value's MUTF-8 string if its tag is String.
func (v Value) AsString() (String, bool) {
	if v.tag != TagString {
		return String{}, false
	}
	n := int(v.doc.order.Uint16(v.doc.src[v.pos:]))
	start := v.pos + 2
	return String{raw: v.doc.src[start : start+n : start+n]}, true
}

// AsByteArray returns a view of the value's byte array if its tag is ByteArray.
func (v Value) AsByteArray() (ByteArray, bool) {
	if v.tag != TagByteArray {
		return ByteArray{}, false
	}
	n := int(v.doc.order.Uint32(v.doc.src[v.pos:]))
	start := v.pos + 4
	return ByteArray{raw: v.doc.src[start : start+n : start+n]}, true
}

// AsIntArray returns a view of the value's int array if its tag is IntArray.
func (v Value) AsIntArray() (IntArray, bool) {
	if v.tag != TagIntArray {
		return IntArray{}, false
	}
	n := int(v.doc.order.Uint32(v.doc.src[v.pos:]))
	start := v.pos + 4
	end := start + 4*n
	return IntArray{order: v.doc.order, raw: v.doc.src[start:end:end]}, true
}

// AsLongArray returns a view of the value's long array if its tag is LongArray.
func (v Value) AsLongArray() (LongArray, bool) {
	if v.tag != TagLongArray {
		return LongArray{}, false
	}
	n := int(v.doc.order.Uint32(v.doc.src[v.pos:]))
	start := v.pos + 4
	end := start + 8*n
	return LongArray{order: v.doc.order, raw: v.doc.src[start:end:end]}, true
}

// AsList returns a view of the value as a List if its tag is List.
func (v Value) AsList() (List, bool) {
	if v.tag != TagList {
		return List{}, false
	}
	return List{doc: v.doc, pos: v.pos, mi: v.mi}, true
}

// AsCompound returns a view of the value as a Compound if its tag is Compound.
func (v Value) AsCompound() (Compound, bool) {
	if v.tag != TagCompound {
		return Compound{}, false
	}
	return Compound{doc: v.doc, pos: v.pos, mi: v.mi}, true
}

// Get returns the entry named key if the value is a Compound, or the absent
// Value otherwise.
func (v Value) Get(key string) Value {
	c, ok := v.AsCompound()
	if !ok {
		return Value{}
	}
	return c.Get(key)
}

// At returns the element at index i if the value is a List, or the absent
// Value otherwise.
func (v Value) At(i int) Value {
	l, ok := v.AsList()
	if !ok {
		return Value{}
	}
	return l.At(i)
}

// String is a zero-copy view of an NBT string's MUTF-8 bytes.
type String struct {
	raw []byte
}

// Raw returns the raw MUTF-8 bytes. For most ASCII strings these are
// identical to UTF-8 bytes.
func (s String) Raw() []byte {
	return s.raw
}

// Len returns the string length in bytes (not characters).
func (s String) Len() int {
	return len(s.raw)
}

// Decode converts the MUTF-8 bytes to a Go string, substituting U+FFFD for
// malformed sequences.
func (s String) Decode() string {
	return mutf8.DecodeLossy(s.raw)
}

// DecodeStrict converts the MUTF-8 bytes to a Go string, failing with a
// StringDecodeError on the first malformed sequence.
func (s String) DecodeStrict() (string, error) {
	return mutf8.Decode(s.raw)
}

// Equal reports whether the string equals the MUTF-8 encoding of key.
func (s String) Equal(key string) bool {
	return string(s.raw) == string(mutf8.Encode(key))
}

// ByteArray is a zero-copy view of an NBT byte array.
type ByteArray struct {
	raw []byte
}

// Len returns the number of elements.
func (a ByteArray) Len() int { return len(a.raw) }

// At returns element i. It panics if i is out of range, like a slice index.
func (a ByteArray) At(i int) int8 { return int8(a.raw[i]) }

// Raw returns the underlying bytes without copying.
func (a ByteArray) Raw() []byte { return a.raw }

// Values returns a freshly allocated signed copy of the elements.
func (a ByteArray) Values() []int8 {
	out := make([]int8, len(a.raw))
	for i, b := range a.raw {
		out[i] = int8(b)
	}
	return out
}

// IntArray is a zero-copy view of an NBT int array. Elements are stored in
// the document's byte order and decoded on access.
type IntArray struct {
	order ByteOrder
	raw   []byte
}

// Len returns the number of elements.
func (a IntArray) Len() int { return len(a.raw) / 4 }

// At returns element i. It panics if i is out of range, like a slice index.
func (a IntArray) At(i int) int32 {
	return int32(a.order.Uint32(a.raw[i*4:]))
}

// Raw returns the wire-format element bytes without copying.
func (a IntArray) Raw() []byte { return a.raw }

// Values returns a freshly allocated decoded copy of the elements.
func (a IntArray) Values() []int32 {
	out := make([]int32, a.Len())
	for i := range out {
		out[i] = a.At(i)
	}
	return out
}

// LongArray is a zero-copy view of an NBT long array. Elements are stored in
// the document's byte order and decoded on access.
type LongArray struct {
	order ByteOrder
	raw   []byte
}

// Len returns the number of elements.
func (a LongArray) Len() int { return len(a.raw) / 8 }

// At returns element i. It panics if i is out of range, like a slice index.
func (a LongArray) At(i int) int64 {
	return int64(a.order.Uint64(a.raw[i*8:]))
}

// Raw returns the wire-format element bytes without copying.
func (a LongArray) Raw() []byte { return a.raw }

// Values returns a freshly allocated decoded copy of the elements.
func (a LongArray) Values() []int64 {
	out := make([]int64, a.Len())
	for i := range out {
		out[i] = a.At(i)
	}
	return out
}

// List is a zero-copy view of an NBT list. All elements share one tag type.
type List struct {
	doc *Document
	pos int // payload offset: element tag byte
	mi  int // first child mark index
}

// ElemTag returns the tag type shared by all elements.
func (l List) ElemTag() Tag {
	if l.doc == nil {
		return TagEnd
	}
	return Tag(l.doc.src[l.pos])
}

// Len returns the number of elements.
func (l List) Len() int {
	if l.doc == nil {
		return 0
	}
	return int(l.doc.order.Uint32(l.doc.src[l.pos+1:]))
}

// At returns the element at index i, or the absent Value when i is out of
// range. Access is O(1) for fixed-size element types and O(i) for
// variable-size ones.
func (l List) At(i int) Value {
	if l.doc == nil || i < 0 || i >= l.Len() {
		return Value{}
	}
	elem := l.ElemTag()
	start := l.pos + 5

	if sz := elem.PrimitiveSize(); sz > 0 {
		return makeValue(l.doc, elem, start+i*sz, 0)
	}

	switch elem {
	case TagEnd:
		return Value{}
	case TagList, TagCompound:
		// Walk i marks forward; each step skips one whole element subtree.
		pos, mi := start, l.mi
		for ; i > 0; i-- {
			pos = l.doc.marks[mi].End
			mi += int(l.doc.marks[mi].Next)
		}
		return makeValue(l.doc, elem, pos, mi)
	default:
		// Length-prefixed leaves: hop prefix by prefix.
		pos := start
		for ; i > 0; i-- {
			adv, _ := core.Span(l.doc.src, pos, elem, nil, 0, l.doc.order)
			pos += adv
		}
		return makeValue(l.doc, elem, pos, 0)
	}
}

// Typed element access for fixed-size element types. These skip the Value
// wrapper and read the payload at a constant stride; ok is false when the
// element tag does not match or the index is out of range.

// ByteAt returns element i of a Byte list.
func (l List) ByteAt(i int) (int8, bool) {
	if l.ElemTag() != TagByte || i < 0 || i >= l.Len() {
		return 0, false
	}
	return int8(l.doc.src[l.pos+5+i]), true
}

// ShortAt returns element i of a Short list.
func (l List) ShortAt(i int) (int16, bool) {
	if l.ElemTag() != TagShort || i < 0 || i >= l.Len() {
		return 0, false
	}
	return int16(l.doc.order.Uint16(l.doc.src[l.pos+5+i*2:])), true
}

// IntAt returns element i of an Int list.
func (l List) IntAt(i int) (int32, bool) {
	if l.ElemTag() != TagInt || i < 0 || i >= l.Len() {
		return 0, false
	}
	return int32(l.doc.order.Uint32(l.doc.src[l.pos+5+i*4:])), true
}

// LongAt returns element i of a Long list.
func (l List) LongAt(i int) (int64, bool) {
	if l.ElemTag() != TagLong || i < 0 || i >= l.Len() {
		return 0, false
	}
	return int64(l.doc.order.Uint64(l.doc.src[l.pos+5+i*8:])), true
}

// FloatAt returns element i of a Float list.
func (l List) FloatAt(i int) (float32, bool) {
	if l.ElemTag() != TagFloat || i < 0 || i >= l.Len() {
		return 0, false
	}
	return math.Float32frombits(l.doc.order.Uint32(l.doc.src[l.pos+5+i*4:])), true
}

// DoubleAt returns element i of a Double list.
func (l List) DoubleAt(i int) (float64, bool) {
	if l.ElemTag() != TagDouble || i < 0 || i >= l.Len() {
		return 0, false
	}
	return math.Float64frombits(l.doc.order.Uint64(l.doc.src[l.pos+5+i*8:])), true
}

// Iter returns an iterator over the elements of the list.
func (l List) Iter() ListIter {
	if l.doc == nil {
		return ListIter{}
	}
	return ListIter{
		doc:       l.doc,
		elem:      l.ElemTag(),
		remaining: l.Len(),
		pos:       l.pos + 5,
		mi:        l.mi,
	}
}

// ListIter iterates over the elements of a List, advancing the data cursor
// and the mark cursor together.
type ListIter struct {
	doc       *Document
	elem      Tag
	remaining int
	pos       int
	mi        int
}

// Next returns the next element, or ok=false when the list is exhausted.
func (it *ListIter) Next() (Value, bool) {
	if it.remaining == 0 {
		return Value{}, false
	}
	it.remaining--
	v := makeValue(it.doc, it.elem, it.pos, it.mi)
	adv, madv := core.Span(it.doc.src, it.pos, it.elem, it.doc.marks, it.mi, it.doc.order)
	it.pos += adv
	it.mi += madv
	return v, true
}

// Compound is a zero-copy view of an NBT compound: an ordered sequence of
// named entries.
type Compound struct {
	doc *Document
	pos int // payload offset: first entry's tag byte
	mi  int // first child mark index
}

// Get returns the value for the given key, or the absent Value when the key
// is not present. Lookup is a linear scan over the entries; the key is
// MUTF-8 encoded once and compared byte-wise.
func (c Compound) Get(key string) Value {
	if c.doc == nil {
		return Value{}
	}
	name := mutf8.Encode(key)
	src, order := c.doc.src, c.doc.order
	pos, mi := c.pos, c.mi
	for {
		tag := Tag(src[pos])
		pos++
		if tag == TagEnd {
			return Value{}
		}
		nameLen := int(order.Uint16(src[pos:]))
		pos += 2
		entryName := src[pos : pos+nameLen]
		pos += nameLen
		if string(entryName) == string(name) {
			return makeValue(c.doc, tag, pos, mi)
		}
		adv, madv := core.Span(src, pos, tag, c.doc.marks, mi, order)
		pos += adv
		mi += madv
	}
}

// Len returns the number of entries. It walks the compound once; prefer
// iterating when both the count and the entries are needed.
func (c Compound) Len() int {
	n := 0
	it := c.Iter()
	for _, _, ok := it.Next(); ok; _, _, ok = it.Next() {
		n++
	}
	return n
}

// Iter returns an iterator over the entries of the compound.
func (c Compound) Iter() CompoundIter {
	if c.doc == nil {
		return CompoundIter{done: true}
	}
	return CompoundIter{doc: c.doc, pos: c.pos, mi: c.mi}
}

// CompoundIter iterates over the entries of a Compound in document order.
type CompoundIter struct {
	doc  *Document
	pos  int
	mi   int
	done bool
}

// Next returns the next entry's name and value, or ok=false after the final
// entry.
func (it *CompoundIter) Next() (String, Value, bool) {
	if it.done {
		return String{}, Value{}, false
	}
	src, order := it.doc.src, it.doc.order
	tag := Tag(src[it.pos])
	if tag == TagEnd {
		it.done = true
		return String{}, Value{}, false
	}
	nameLen := int(order.Uint16(src[it.pos+1:]))
	nameStart := it.pos + 3
	name := String{raw: src[nameStart : nameStart+nameLen : nameStart+nameLen]}
	it.pos = nameStart + nameLen
	v := makeValue(it.doc, tag, it.pos, it.mi)
	adv, madv := core.Span(src, it.pos, tag, it.doc.marks, it.mi, order)
	it.pos += adv
	it.mi += madv
	return name, v, true
}
