package core

import "encoding/binary"

// Mark is the sidecar metadata the indexer records for one composite value
// (List or Compound): where its payload ends, and how many marks to step over
// to reach the mark of its next sibling.
//
// Marks are laid out in pre-order: a composite's own mark comes first,
// followed by the marks of all its descendants. Next is therefore the size of
// the composite's subtree in marks (itself included), so a navigator skipping
// the whole subtree advances the data cursor to End and the mark cursor by
// Next in O(1).
type Mark struct {
	End  int    // payload end offset in the source buffer
	Next uint32 // marks from this one to the next sibling's mark
}

// Index is the result of the zero-copy pre-scan: the root header fields plus
// one mark per composite value in document order. It copies no payload bytes.
type Index struct {
	Marks   []Mark
	RootTag Tag
	Payload int // offset of the root payload (after tag, name length, name)
}

// BuildIndex runs the single linear pre-scan over src, validating the whole
// document and emitting the mark array. Every read is bounds-checked; the
// scan aborts on the first invalid byte.
//
// Failure modes are ErrEndOfFile, InvalidTagError, and TrailingDataError
// (bytes left over after the root value).
func BuildIndex(src []byte, order binary.ByteOrder) (*Index, error) {
	if len(src) < 1 {
		return nil, ErrEndOfFile
	}
	rootTag := Tag(src[0])
	if !rootTag.Valid() {
		return nil, invalidTag(src[0])
	}
	if rootTag == TagEnd {
		// An End root has no name or payload.
		if len(src) > 1 {
			return nil, &TrailingDataError{Bytes: len(src) - 1}
		}
		return &Index{RootTag: TagEnd, Payload: 1}, nil
	}
	if len(src) < 3 {
		return nil, ErrEndOfFile
	}
	nameLen := int(order.Uint16(src[1:]))
	payload := 3 + nameLen
	if payload > len(src) {
		return nil, ErrEndOfFile
	}

	ix := &Index{RootTag: rootTag, Payload: payload}
	end, err := ix.walk(src, payload, rootTag, order)
	if err != nil {
		return nil, err
	}
	if end != len(src) {
		return nil, &TrailingDataError{Bytes: len(src) - end}
	}
	return ix, nil
}

// walk advances past one value like Skip, additionally pushing a mark for
// every composite payload it enters.
func (ix *Index) walk(src []byte, pos int, tag Tag, order binary.ByteOrder) (int, error) {
	switch tag {
	case TagList:
		return ix.walkList(src, pos, order)
	case TagCompound:
		return ix.walkCompound(src, pos, order)
	default:
		return Skip(src, pos, tag, order)
	}
}

func (ix *Index) walkList(src []byte, pos int, order binary.ByteOrder) (int, error) {
	own := len(ix.Marks)
	ix.Marks = append(ix.Marks, Mark{})

	if pos+5 > len(src) {
		return 0, ErrEndOfFile
	}
	elem := Tag(src[pos])
	if !elem.Valid() {
		return 0, invalidTag(uint8(elem))
	}
	count := int(order.Uint32(src[pos+1:]))
	if elem == TagEnd && count > 0 {
		return 0, invalidTag(uint8(TagEnd))
	}
	pos += 5

	var err error
	if sz := elem.PrimitiveSize(); sz > 0 || elem == TagEnd {
		if pos, err = checkedAdvance(src, pos, count*sz); err != nil {
			return 0, err
		}
	} else {
		for i := 0; i < count; i++ {
			if pos, err = ix.walk(src, pos, elem, order); err != nil {
				return 0, err
			}
		}
	}

	ix.Marks[own] = Mark{End: pos, Next: uint32(len(ix.Marks) - own)}
	return pos, nil
}

func (ix *Index) walkCompound(src []byte, pos int, order binary.ByteOrder) (int, error) {
	own := len(ix.Marks)
	ix.Marks = append(ix.Marks, Mark{})

	for {
		if pos >= len(src) {
			return 0, ErrEndOfFile
		}
		tag := Tag(src[pos])
		pos++
		if tag == TagEnd {
			break
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
		if pos, err = ix.walk(src, pos, tag, order); err != nil {
			return 0, err
		}
	}

	ix.Marks[own] = Mark{End: pos, Next: uint32(len(ix.Marks) - own)}
	return pos, nil
}

// Span returns the size of one already-indexed value and the number of marks
// its subtree occupies. pos is the value's payload offset; mi is the mark
// cursor, pointing at the value's own mark when the value is composite.
//
// Span trusts the index: it is only called on documents BuildIndex accepted,
// so no bounds checks are repeated here.
func Span(src []byte, pos int, tag Tag, marks []Mark, mi int, order binary.ByteOrder) (advance, markAdvance int) {
	switch tag {
	case TagEnd:
		return 0, 0
	case TagByte:
		return 1, 0
	case TagShort:
		return 2, 0
	case TagInt, TagFloat:
		return 4, 0
	case TagLong, TagDouble:
		return 8, 0
	case TagByteArray:
		return 4 + int(order.Uint32(src[pos:])), 0
	case TagString:
		return 2 + int(order.Uint16(src[pos:])), 0
	case TagIntArray:
		return 4 + int(order.Uint32(src[pos:]))*4, 0
	case TagLongArray:
		return 4 + int(order.Uint32(src[pos:]))*8, 0
	default: // List, Compound
		m := marks[mi]
		return m.End - pos, int(m.Next)
	}
}
