package core

import (
	"encoding/binary"
	"io"
)

// Endianness conversion is an unconditional byte reversal of every multi-byte
// field, so the rewriting walkers below take only the source order (needed to
// interpret counts and lengths during the walk) and emit the opposite order.
//
// They are called exclusively on payloads that BuildIndex already validated,
// so they perform no bounds checks of their own.

// append2 / append4 / append8 append one reversed field.
func append2(dst, src []byte) []byte {
	return append(dst, src[1], src[0])
}

func append4(dst, src []byte) []byte {
	return append(dst, src[3], src[2], src[1], src[0])
}

func append8(dst, src []byte) []byte {
	return append(dst, src[7], src[6], src[5], src[4], src[3], src[2], src[1], src[0])
}

// AppendValueSwapped appends one value's payload to dst with every multi-byte
// field byte-swapped, and returns the grown dst plus the cursor after the
// value in src.
func AppendValueSwapped(dst, src []byte, pos int, tag Tag, srcOrder binary.ByteOrder) ([]byte, int) {
	switch tag {
	case TagEnd:
		return dst, pos
	case TagByte:
		return append(dst, src[pos]), pos + 1
	case TagShort:
		return append2(dst, src[pos:]), pos + 2
	case TagInt, TagFloat:
		return append4(dst, src[pos:]), pos + 4
	case TagLong, TagDouble:
		return append8(dst, src[pos:]), pos + 8
	case TagByteArray:
		n := int(srcOrder.Uint32(src[pos:]))
		dst = append4(dst, src[pos:])
		return append(dst, src[pos+4:pos+4+n]...), pos + 4 + n
	case TagString:
		n := int(srcOrder.Uint16(src[pos:]))
		dst = append2(dst, src[pos:])
		return append(dst, src[pos+2:pos+2+n]...), pos + 2 + n
	case TagIntArray:
		n := int(srcOrder.Uint32(src[pos:]))
		dst = append4(dst, src[pos:])
		pos += 4
		for i := 0; i < n; i++ {
			dst = append4(dst, src[pos:])
			pos += 4
		}
		return dst, pos
	case TagLongArray:
		n := int(srcOrder.Uint32(src[pos:]))
		dst = append4(dst, src[pos:])
		pos += 4
		for i := 0; i < n; i++ {
			dst = append8(dst, src[pos:])
			pos += 8
		}
		return dst, pos
	case TagList:
		return AppendListSwapped(dst, src, pos, srcOrder)
	default: // TagCompound
		return AppendCompoundSwapped(dst, src, pos, srcOrder)
	}
}

// AppendListSwapped rewrites a List payload (element tag, count, elements).
func AppendListSwapped(dst, src []byte, pos int, srcOrder binary.ByteOrder) ([]byte, int) {
	elem := Tag(src[pos])
	count := int(srcOrder.Uint32(src[pos+1:]))
	dst = append(dst, src[pos])
	dst = append4(dst, src[pos+1:])
	pos += 5
	for i := 0; i < count; i++ {
		dst, pos = AppendValueSwapped(dst, src, pos, elem, srcOrder)
	}
	return dst, pos
}

// AppendCompoundSwapped rewrites a Compound payload entry by entry. Name
// lengths are swapped; name bytes are copied verbatim (MUTF-8 is
// byte-oriented).
func AppendCompoundSwapped(dst, src []byte, pos int, srcOrder binary.ByteOrder) ([]byte, int) {
	for {
		tag := Tag(src[pos])
		dst = append(dst, src[pos])
		pos++
		if tag == TagEnd {
			return dst, pos
		}
		nameLen := int(srcOrder.Uint16(src[pos:]))
		dst = append2(dst, src[pos:])
		pos += 2
		dst = append(dst, src[pos:pos+nameLen]...)
		pos += nameLen
		dst, pos = AppendValueSwapped(dst, src, pos, tag, srcOrder)
	}
}

// WriteValueSwapped is the streaming twin of AppendValueSwapped: it writes
// the swapped payload to w instead of growing a slice. Large leaf payloads
// are staged through buf, which must have non-zero capacity.
func WriteValueSwapped(w io.Writer, src []byte, pos int, tag Tag, srcOrder binary.ByteOrder, buf []byte) (int, error) {
	switch tag {
	case TagEnd:
		return pos, nil
	case TagByte, TagShort, TagInt, TagFloat, TagLong, TagDouble:
		out, next := AppendValueSwapped(buf[:0], src, pos, tag, srcOrder)
		if _, err := w.Write(out); err != nil {
			return 0, err
		}
		return next, nil
	case TagList:
		elem := Tag(src[pos])
		count := int(srcOrder.Uint32(src[pos+1:]))
		head := append(buf[:0], src[pos])
		head = append4(head, src[pos+1:])
		if _, err := w.Write(head); err != nil {
			return 0, err
		}
		pos += 5
		var err error
		for i := 0; i < count; i++ {
			if pos, err = WriteValueSwapped(w, src, pos, elem, srcOrder, buf); err != nil {
				return 0, err
			}
		}
		return pos, nil
	case TagCompound:
		for {
			t := Tag(src[pos])
			if t == TagEnd {
				if _, err := w.Write(src[pos : pos+1]); err != nil {
					return 0, err
				}
				return pos + 1, nil
			}
			nameLen := int(srcOrder.Uint16(src[pos+1:]))
			head := append(buf[:0], src[pos])
			head = append2(head, src[pos+1:])
			head = append(head, src[pos+3:pos+3+nameLen]...)
			if _, err := w.Write(head); err != nil {
				return 0, err
			}
			pos += 3 + nameLen
			var err error
			if pos, err = WriteValueSwapped(w, src, pos, t, srcOrder, buf); err != nil {
				return 0, err
			}
		}
	default:
		// Length-prefixed leaf: swap into the scratch buffer, then flush.
		out, next := AppendValueSwapped(buf[:0], src, pos, tag, srcOrder)
		if _, err := w.Write(out); err != nil {
			return 0, err
		}
		return next, nil
	}
}
