package core

import "encoding/binary"

// Skip advances a cursor past exactly one value of the given tag, with every
// read bounds-checked. It returns the cursor position after the value.
//
// Skip is the streaming scanner: it derives leaf sizes from their length
// prefixes and walks composites entry by entry. It never allocates and never
// reads past len(src).
func Skip(src []byte, pos int, tag Tag, order binary.ByteOrder) (int, error) {
	switch tag {
	case TagEnd:
		return pos, nil
	case TagByte:
		return checkedAdvance(src, pos, 1)
	case TagShort:
		return checkedAdvance(src, pos, 2)
	case TagInt, TagFloat:
		return checkedAdvance(src, pos, 4)
	case TagLong, TagDouble:
		return checkedAdvance(src, pos, 8)
	case TagByteArray:
		return skipLenPrefixed(src, pos, order, 1)
	case TagString:
		if pos+2 > len(src) {
			return 0, ErrEndOfFile
		}
		n := int(order.Uint16(src[pos:]))
		return checkedAdvance(src, pos+2, n)
	case TagIntArray:
		return skipLenPrefixed(src, pos, order, 4)
	case TagLongArray:
		return skipLenPrefixed(src, pos, order, 8)
	case TagList:
		return skipList(src, pos, order)
	case TagCompound:
		return skipCompound(src, pos, order)
	default:
		return 0, invalidTag(uint8(tag))
	}
}

// checkedAdvance moves pos forward by n, failing if that leaves src.
func checkedAdvance(src []byte, pos, n int) (int, error) {
	if n < 0 || pos+n > len(src) {
		return 0, ErrEndOfFile
	}
	return pos + n, nil
}

// skipLenPrefixed handles ByteArray / IntArray / LongArray payloads:
// a u32 element count followed by count fixed-size elements.
func skipLenPrefixed(src []byte, pos int, order binary.ByteOrder, elemSize int) (int, error) {
	if pos+4 > len(src) {
		return 0, ErrEndOfFile
	}
	count := int(order.Uint32(src[pos:]))
	if count < 0 {
		return 0, ErrEndOfFile
	}
	return checkedAdvance(src, pos+4, count*elemSize)
}

func skipList(src []byte, pos int, order binary.ByteOrder) (int, error) {
	if pos+5 > len(src) {
		return 0, ErrEndOfFile
	}
	elem := Tag(src[pos])
	if !elem.Valid() {
		return 0, invalidTag(uint8(elem))
	}
	count := int(order.Uint32(src[pos+1:]))
	if count < 0 {
		return 0, ErrEndOfFile
	}
	if elem == TagEnd && count > 0 {
		return 0, invalidTag(uint8(TagEnd))
	}
	pos += 5

	// Fixed-stride element types skip in one bounds check.
	if sz := elem.PrimitiveSize(); sz > 0 || elem == TagEnd {
		return checkedAdvance(src, pos, count*sz)
	}

	var err error
	for i := 0; i < count; i++ {
		pos, err = Skip(src, pos, elem, order)
		if err != nil {
			return 0, err
		}
	}
	return pos, nil
}

func skipCompound(src []byte, pos int, order binary.ByteOrder) (int, error) {
	for {
		if pos >= len(src) {
			return 0, ErrEndOfFile
		}
		tag := Tag(src[pos])
		pos++
		if tag == TagEnd {
			return pos, nil
		}
		if !tag.Valid() {
			return 0, invalidTag(uint8(tag))
		}
		if pos+2 > len(src) {
			return 0, ErrEndOfFile
		}
		nameLen := int(order.Uint16(src[pos:]))
		pos += 2
		var err error
		if pos, err = checkedAdvance(src, pos, nameLen); err != nil {
			return 0, err
		}
		if pos, err = Skip(src, pos, tag, order); err != nil {
			return 0, err
		}
	}
}
