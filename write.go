package nbt

import (
	"io"

	"github.com/scigolib/nbt/internal/core"
	"github.com/scigolib/nbt/internal/utils"
)

// The writer emits a complete document — tag byte, empty root name, payload —
// in the requested target byte order. When the source and target orders
// match, payloads are copied bytewise; otherwise every multi-byte field is
// rewritten in a recursive walk.

// AppendTo appends the value serialized as a complete document in the target
// byte order and returns the extended slice.
func (v Value) AppendTo(dst []byte, target ByteOrder) []byte {
	if v.tag == TagEnd {
		return append(dst, byte(TagEnd))
	}
	dst = append(dst, byte(v.tag), 0, 0)
	if v.doc.order == target {
		return append(dst, v.payloadBytes()...)
	}
	dst, _ = core.AppendValueSwapped(dst, v.doc.src, v.pos, v.tag, v.doc.order)
	return dst
}

// Bytes returns the value serialized as a complete document in the target
// byte order.
func (v Value) Bytes(target ByteOrder) []byte {
	return v.AppendTo(nil, target)
}

// WriteTo writes the value serialized as a complete document in the target
// byte order to w. The same-order path streams the payload directly from
// the source buffer.
func (v Value) WriteTo(w io.Writer, target ByteOrder) error {
	if v.tag == TagEnd {
		_, err := w.Write([]byte{byte(TagEnd)})
		return utils.WrapError("nbt: write failed", err)
	}
	if _, err := w.Write([]byte{byte(v.tag), 0, 0}); err != nil {
		return utils.WrapError("nbt: write failed", err)
	}
	if v.doc.order == target {
		_, err := w.Write(v.payloadBytes())
		return utils.WrapError("nbt: write failed", err)
	}
	buf := utils.GetBuffer(512)
	defer utils.ReleaseBuffer(buf)
	_, err := core.WriteValueSwapped(w, v.doc.src, v.pos, v.tag, v.doc.order, buf)
	return utils.WrapError("nbt: write failed", err)
}

// payloadBytes returns the value's wire payload. Composite ends come from
// the mark index; leaf ends from their length prefixes.
func (v Value) payloadBytes() []byte {
	if v.tag.IsComposite() {
		// The stored mark index points at the first child; the value's own
		// mark immediately precedes it.
		return v.doc.src[v.pos:v.doc.marks[v.mi-1].End]
	}
	adv, _ := core.Span(v.doc.src, v.pos, v.tag, nil, 0, v.doc.order)
	return v.doc.src[v.pos : v.pos+adv]
}

// AppendTo appends the owned value serialized as a complete document in the
// target byte order and returns the extended slice.
func (o Owned) AppendTo(dst []byte, target ByteOrder) []byte {
	if o.tag == TagEnd {
		return append(dst, byte(TagEnd))
	}
	dst = append(dst, byte(o.tag), 0, 0)
	return appendOwnedPayload(dst, o, target)
}

// Bytes returns the owned value serialized as a complete document in the
// target byte order.
func (o Owned) Bytes(target ByteOrder) []byte {
	return o.AppendTo(nil, target)
}

// WriteTo writes the owned value serialized as a complete document in the
// target byte order to w.
func (o Owned) WriteTo(w io.Writer, target ByteOrder) error {
	buf := utils.GetBuffer(0)
	defer utils.ReleaseBuffer(buf)
	out := o.AppendTo(buf[:0], target)
	_, err := w.Write(out)
	return utils.WrapError("nbt: write failed", err)
}

// appendOwnedPayload appends one owned value's payload in the target order.
func appendOwnedPayload(dst []byte, o Owned, target ByteOrder) []byte {
	switch o.tag {
	case TagByte, TagShort, TagInt, TagLong, TagFloat, TagDouble:
		return appendScalarOwned(dst, o, target)
	case TagString:
		dst = target.AppendUint16(dst, uint16(len(o.raw)))
		return append(dst, o.raw...)
	case TagByteArray:
		dst = target.AppendUint32(dst, uint32(len(o.raw)))
		return append(dst, o.raw...)
	case TagIntArray:
		dst = target.AppendUint32(dst, uint32(len(o.i32s)))
		for _, e := range o.i32s {
			dst = target.AppendUint32(dst, uint32(e))
		}
		return dst
	case TagLongArray:
		dst = target.AppendUint32(dst, uint32(len(o.i64s)))
		for _, e := range o.i64s {
			dst = target.AppendUint64(dst, uint64(e))
		}
		return dst
	case TagList:
		return appendListPayload(dst, o.list, target)
	case TagCompound:
		return appendCompoundPayload(dst, o.comp, target)
	default:
		return dst
	}
}

// appendListPayload appends a list payload. Same-order lists of fixed-size
// elements are a single buffer copy.
func appendListPayload(dst []byte, l *OwnedList, target ByteOrder) []byte {
	elem := l.ElemTag()
	if l.order == target {
		if elem.IsPrimitive() {
			return append(dst, l.data...)
		}
		// Header verbatim, slots expanded.
		dst = append(dst, l.data[:5]...)
		for off := 5; off < len(l.data); off += slotSize {
			dst = appendOwnedPayload(dst, l.kids[getSlot(l.data[off:])], target)
		}
		return dst
	}

	dst = append(dst, l.data[0])
	dst = target.AppendUint32(dst, uint32(l.Len()))
	if elem.IsPrimitive() {
		sz := elem.PrimitiveSize()
		for off := 5; off < len(l.data); off += sz {
			dst = appendField(dst, l.data[off:off+sz], false)
		}
		return dst
	}
	for off := 5; off < len(l.data); off += slotSize {
		dst = appendOwnedPayload(dst, l.kids[getSlot(l.data[off:])], target)
	}
	return dst
}

// appendCompoundPayload appends a compound payload. On the same-order path
// the buffer is copied in runs, pausing only to expand child slots.
func appendCompoundPayload(dst []byte, c *OwnedCompound, target ByteOrder) []byte {
	if c.order == target {
		runStart := 0
		pos := 0
		for {
			tag := Tag(c.data[pos])
			if tag == TagEnd {
				return append(dst, c.data[runStart:pos+1]...)
			}
			valOff := pos + 3 + int(c.order.Uint16(c.data[pos+1:]))
			if tag.IsPrimitive() {
				pos = valOff + tag.PrimitiveSize()
				continue
			}
			dst = append(dst, c.data[runStart:valOff]...)
			dst = appendOwnedPayload(dst, c.kids[getSlot(c.data[valOff:])], target)
			runStart = valOff + slotSize
			pos = runStart
		}
	}

	pos := 0
	for {
		tag := Tag(c.data[pos])
		dst = append(dst, byte(tag))
		pos++
		if tag == TagEnd {
			return dst
		}
		nameLen := int(c.order.Uint16(c.data[pos:]))
		dst = target.AppendUint16(dst, uint16(nameLen))
		pos += 2
		dst = append(dst, c.data[pos:pos+nameLen]...)
		pos += nameLen
		if tag.IsPrimitive() {
			sz := tag.PrimitiveSize()
			dst = appendField(dst, c.data[pos:pos+sz], false)
			pos += sz
			continue
		}
		dst = appendOwnedPayload(dst, c.kids[getSlot(c.data[pos:])], target)
		pos += slotSize
	}
}
