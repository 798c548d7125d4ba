package nbt

import (
	"bufio"
	"errors"
	"io"

	"github.com/scigolib/nbt/internal/utils"
)

// ReadOwned parses wire bytes into an owned tree, keeping the source byte
// order for the tree's inline data.
func ReadOwned(src []byte, order ByteOrder) (Owned, error) {
	return ReadOwnedAs(src, order, order)
}

// ReadOwnedBE parses a Java Edition (big-endian) document into an owned tree.
func ReadOwnedBE(src []byte) (Owned, error) {
	return ReadOwnedAs(src, JavaEdition, JavaEdition)
}

// ReadOwnedLE parses a Bedrock Edition (little-endian) document into an owned tree.
func ReadOwnedLE(src []byte) (Owned, error) {
	return ReadOwnedAs(src, BedrockEdition, BedrockEdition)
}

// ReadOwnedAs parses wire bytes in srcOrder into an owned tree whose inline
// data uses dstOrder, byte-swapping every multi-byte field at read time when
// the orders differ.
func ReadOwnedAs(src []byte, srcOrder, dstOrder ByteOrder) (Owned, error) {
	p := &ownedParser{src: src, so: srcOrder, to: dstOrder, same: srcOrder == dstOrder}

	if len(src) < 1 {
		return Owned{}, ErrEndOfFile
	}
	rootTag := Tag(src[0])
	if !rootTag.Valid() {
		return Owned{}, &InvalidTagError{Tag: src[0]}
	}
	if rootTag == TagEnd {
		if len(src) > 1 {
			return Owned{}, &TrailingDataError{Bytes: len(src) - 1}
		}
		return Owned{}, nil
	}
	if len(src) < 3 {
		return Owned{}, ErrEndOfFile
	}
	nameLen := int(srcOrder.Uint16(src[1:]))
	p.pos = 3
	if err := p.need(nameLen); err != nil {
		return Owned{}, err
	}
	p.pos += nameLen

	v, err := p.value(rootTag)
	if err != nil {
		return Owned{}, err
	}
	if p.pos != len(src) {
		return Owned{}, &TrailingDataError{Bytes: len(src) - p.pos}
	}
	return v, nil
}

// ownedParser is the recursive-descent state for parsing a byte slice into
// the owned representation.
type ownedParser struct {
	src    []byte
	pos    int
	so, to ByteOrder
	same   bool
}

func (p *ownedParser) need(n int) error {
	if n < 0 || p.pos+n > len(p.src) {
		return ErrEndOfFile
	}
	return nil
}

func (p *ownedParser) value(tag Tag) (Owned, error) {
	switch tag {
	case TagByte, TagShort, TagInt, TagLong, TagFloat, TagDouble:
		sz := tag.PrimitiveSize()
		if err := p.need(sz); err != nil {
			return Owned{}, err
		}
		v := decodeScalarOwned(tag, p.src[p.pos:], p.so)
		p.pos += sz
		return v, nil
	case TagByteArray:
		b, err := p.lenPrefixed(1)
		if err != nil {
			return Owned{}, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return Owned{tag: TagByteArray, raw: out}, nil
	case TagString:
		if err := p.need(2); err != nil {
			return Owned{}, err
		}
		n := int(p.so.Uint16(p.src[p.pos:]))
		p.pos += 2
		if err := p.need(n); err != nil {
			return Owned{}, err
		}
		out := make([]byte, n)
		copy(out, p.src[p.pos:])
		p.pos += n
		return Owned{tag: TagString, raw: out}, nil
	case TagIntArray:
		b, err := p.lenPrefixed(4)
		if err != nil {
			return Owned{}, err
		}
		out := make([]int32, len(b)/4)
		for i := range out {
			out[i] = int32(p.so.Uint32(b[i*4:]))
		}
		return Owned{tag: TagIntArray, i32s: out}, nil
	case TagLongArray:
		b, err := p.lenPrefixed(8)
		if err != nil {
			return Owned{}, err
		}
		out := make([]int64, len(b)/8)
		for i := range out {
			out[i] = int64(p.so.Uint64(b[i*8:]))
		}
		return Owned{tag: TagLongArray, i64s: out}, nil
	case TagList:
		l, err := p.list()
		if err != nil {
			return Owned{}, err
		}
		return Owned{tag: TagList, list: l}, nil
	case TagCompound:
		c, err := p.compound()
		if err != nil {
			return Owned{}, err
		}
		return Owned{tag: TagCompound, comp: c}, nil
	default:
		return Owned{}, &InvalidTagError{Tag: uint8(tag)}
	}
}

// lenPrefixed consumes a u32 element count plus count elements of elemSize
// bytes and returns the raw element bytes.
func (p *ownedParser) lenPrefixed(elemSize int) ([]byte, error) {
	if err := p.need(4); err != nil {
		return nil, err
	}
	count := int(p.so.Uint32(p.src[p.pos:]))
	p.pos += 4
	total := count * elemSize
	if err := p.need(total); err != nil {
		return nil, err
	}
	b := p.src[p.pos : p.pos+total]
	p.pos += total
	return b, nil
}

func (p *ownedParser) compound() (*OwnedCompound, error) {
	c := NewCompound(p.to)
	c.data = c.data[:0]
	for {
		if err := p.need(1); err != nil {
			return nil, err
		}
		tag := Tag(p.src[p.pos])
		p.pos++
		if tag == TagEnd {
			c.data = append(c.data, byte(TagEnd))
			return c, nil
		}
		if !tag.Valid() {
			return nil, &InvalidTagError{Tag: uint8(tag)}
		}
		if err := p.need(2); err != nil {
			return nil, err
		}
		nameLen := int(p.so.Uint16(p.src[p.pos:]))
		p.pos += 2
		if err := p.need(nameLen); err != nil {
			return nil, err
		}
		name := p.src[p.pos : p.pos+nameLen]
		p.pos += nameLen

		c.data = append(c.data, byte(tag))
		c.data = p.to.AppendUint16(c.data, uint16(nameLen))
		c.data = append(c.data, name...)

		if tag.IsPrimitive() {
			sz := tag.PrimitiveSize()
			if err := p.need(sz); err != nil {
				return nil, err
			}
			c.data = appendField(c.data, p.src[p.pos:p.pos+sz], p.same)
			p.pos += sz
			continue
		}
		child, err := p.value(tag)
		if err != nil {
			return nil, err
		}
		c.data = appendSlot(c.data, c.adopt(child))
	}
}

func (p *ownedParser) list() (*OwnedList, error) {
	if err := p.need(5); err != nil {
		return nil, err
	}
	elem := Tag(p.src[p.pos])
	if !elem.Valid() {
		return nil, &InvalidTagError{Tag: uint8(elem)}
	}
	count := int(p.so.Uint32(p.src[p.pos+1:]))
	if elem == TagEnd && count > 0 {
		return nil, &InvalidTagError{Tag: uint8(TagEnd)}
	}
	p.pos += 5

	l := NewList(p.to)
	l.data = l.data[:0]
	l.data = append(l.data, byte(elem))
	l.data = p.to.AppendUint32(l.data, uint32(count))

	if elem.IsPrimitive() {
		total := count * elem.PrimitiveSize()
		if err := p.need(total); err != nil {
			return nil, err
		}
		payload := p.src[p.pos : p.pos+total]
		p.pos += total
		if p.same || elem == TagByte {
			l.data = append(l.data, payload...)
		} else {
			sz := elem.PrimitiveSize()
			for off := 0; off < total; off += sz {
				l.data = appendField(l.data, payload[off:off+sz], false)
			}
		}
		return l, nil
	}

	for i := 0; i < count; i++ {
		child, err := p.value(elem)
		if err != nil {
			return nil, err
		}
		l.data = appendSlot(l.data, l.adopt(child))
	}
	return l, nil
}

// appendField appends one fixed-size wire field, reversing it when the
// source and destination orders differ.
func appendField(dst, field []byte, same bool) []byte {
	if same || len(field) == 1 {
		return append(dst, field...)
	}
	for i := len(field) - 1; i >= 0; i-- {
		dst = append(dst, field[i])
	}
	return dst
}

// ReadOwnedFrom parses a document from r into an owned tree whose inline
// data uses dstOrder, byte-swapping at read time when the orders differ.
// Unlike the slice entry points it cannot detect trailing data; it stops
// after the root value.
//
// For lists of fixed-size elements the whole payload is read with a single
// io.ReadFull and swapped in place when needed.
func ReadOwnedFrom(r io.Reader, srcOrder, dstOrder ByteOrder) (Owned, error) {
	p := &streamParser{
		br:   bufio.NewReader(r),
		so:   srcOrder,
		to:   dstOrder,
		same: srcOrder == dstOrder,
	}

	rootTag, err := p.readTag()
	if err != nil {
		return Owned{}, err
	}
	if rootTag == TagEnd {
		return Owned{}, nil
	}
	nameLen, err := p.readU16()
	if err != nil {
		return Owned{}, err
	}
	if err := p.discard(int(nameLen)); err != nil {
		return Owned{}, err
	}
	return p.value(rootTag)
}

// ReadOwnedFromBE parses a Java Edition document from r. See ReadOwnedFrom.
func ReadOwnedFromBE(r io.Reader) (Owned, error) {
	return ReadOwnedFrom(r, JavaEdition, JavaEdition)
}

// ReadOwnedFromLE parses a Bedrock Edition document from r. See ReadOwnedFrom.
func ReadOwnedFromLE(r io.Reader) (Owned, error) {
	return ReadOwnedFrom(r, BedrockEdition, BedrockEdition)
}

// streamParser is the recursive-descent state for parsing from a buffered
// reader.
type streamParser struct {
	br     *bufio.Reader
	so, to ByteOrder
	same   bool
	tmp    [8]byte
}

// ioErr maps reader failures onto the parse error taxonomy: any flavor of
// EOF mid-value means the document was truncated.
func ioErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrEndOfFile
	}
	return utils.WrapError("nbt: read failed", err)
}

func (p *streamParser) readTag() (Tag, error) {
	b, err := p.br.ReadByte()
	if err != nil {
		return TagEnd, ioErr(err)
	}
	t := Tag(b)
	if !t.Valid() {
		return TagEnd, &InvalidTagError{Tag: b}
	}
	return t, nil
}

func (p *streamParser) readU16() (uint16, error) {
	if _, err := io.ReadFull(p.br, p.tmp[:2]); err != nil {
		return 0, ioErr(err)
	}
	return p.so.Uint16(p.tmp[:2]), nil
}

func (p *streamParser) readU32() (uint32, error) {
	if _, err := io.ReadFull(p.br, p.tmp[:4]); err != nil {
		return 0, ioErr(err)
	}
	return p.so.Uint32(p.tmp[:4]), nil
}

func (p *streamParser) discard(n int) error {
	if _, err := p.br.Discard(n); err != nil {
		return ioErr(err)
	}
	return nil
}

// readPayload reads exactly n bytes, guarding n against absurd counts so a
// corrupt length prefix cannot trigger a huge allocation before ReadFull
// notices the truncation.
func (p *streamParser) readPayload(n int) ([]byte, error) {
	if err := utils.ValidateBufferSize(uint64(n), utils.MaxPayloadSize, "nbt payload"); err != nil {
		return nil, utils.WrapError("nbt: length prefix rejected", err)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(p.br, b); err != nil {
		return nil, ioErr(err)
	}
	return b, nil
}

func (p *streamParser) value(tag Tag) (Owned, error) {
	switch tag {
	case TagByte, TagShort, TagInt, TagLong, TagFloat, TagDouble:
		sz := tag.PrimitiveSize()
		if _, err := io.ReadFull(p.br, p.tmp[:sz]); err != nil {
			return Owned{}, ioErr(err)
		}
		return decodeScalarOwned(tag, p.tmp[:sz], p.so), nil
	case TagByteArray:
		count, err := p.readU32()
		if err != nil {
			return Owned{}, err
		}
		b, err := p.readPayload(int(count))
		if err != nil {
			return Owned{}, err
		}
		return Owned{tag: TagByteArray, raw: b}, nil
	case TagString:
		n, err := p.readU16()
		if err != nil {
			return Owned{}, err
		}
		b, err := p.readPayload(int(n))
		if err != nil {
			return Owned{}, err
		}
		return Owned{tag: TagString, raw: b}, nil
	case TagIntArray:
		count, err := p.readU32()
		if err != nil {
			return Owned{}, err
		}
		b, err := p.readPayload(int(count) * 4)
		if err != nil {
			return Owned{}, err
		}
		out := make([]int32, count)
		for i := range out {
			out[i] = int32(p.so.Uint32(b[i*4:]))
		}
		return Owned{tag: TagIntArray, i32s: out}, nil
	case TagLongArray:
		count, err := p.readU32()
		if err != nil {
			return Owned{}, err
		}
		b, err := p.readPayload(int(count) * 8)
		if err != nil {
			return Owned{}, err
		}
		out := make([]int64, count)
		for i := range out {
			out[i] = int64(p.so.Uint64(b[i*8:]))
		}
		return Owned{tag: TagLongArray, i64s: out}, nil
	case TagList:
		l, err := p.list()
		if err != nil {
			return Owned{}, err
		}
		return Owned{tag: TagList, list: l}, nil
	default: // TagCompound
		c, err := p.compound()
		if err != nil {
			return Owned{}, err
		}
		return Owned{tag: TagCompound, comp: c}, nil
	}
}

func (p *streamParser) compound() (*OwnedCompound, error) {
	c := NewCompound(p.to)
	c.data = c.data[:0]
	for {
		b, err := p.br.ReadByte()
		if err != nil {
			return nil, ioErr(err)
		}
		tag := Tag(b)
		if tag == TagEnd {
			c.data = append(c.data, byte(TagEnd))
			return c, nil
		}
		if !tag.Valid() {
			return nil, &InvalidTagError{Tag: b}
		}
		nameLen, err := p.readU16()
		if err != nil {
			return nil, err
		}
		name, err := p.readPayload(int(nameLen))
		if err != nil {
			return nil, err
		}

		c.data = append(c.data, byte(tag))
		c.data = p.to.AppendUint16(c.data, nameLen)
		c.data = append(c.data, name...)

		if tag.IsPrimitive() {
			sz := tag.PrimitiveSize()
			if _, err := io.ReadFull(p.br, p.tmp[:sz]); err != nil {
				return nil, ioErr(err)
			}
			c.data = appendField(c.data, p.tmp[:sz], p.same)
			continue
		}
		child, err := p.value(tag)
		if err != nil {
			return nil, err
		}
		c.data = appendSlot(c.data, c.adopt(child))
	}
}

func (p *streamParser) list() (*OwnedList, error) {
	b, err := p.br.ReadByte()
	if err != nil {
		return nil, ioErr(err)
	}
	elem := Tag(b)
	if !elem.Valid() {
		return nil, &InvalidTagError{Tag: b}
	}
	count, err := p.readU32()
	if err != nil {
		return nil, err
	}
	if elem == TagEnd && count > 0 {
		return nil, &InvalidTagError{Tag: uint8(TagEnd)}
	}

	l := NewList(p.to)
	l.data = l.data[:0]
	l.data = append(l.data, byte(elem))
	l.data = p.to.AppendUint32(l.data, count)

	if elem.IsPrimitive() {
		sz := elem.PrimitiveSize()
		payload, err := p.readPayload(int(count) * sz)
		if err != nil {
			return nil, err
		}
		if !p.same && sz > 1 {
			swapInPlace(payload, sz)
		}
		l.data = append(l.data, payload...)
		return l, nil
	}

	for i := 0; i < int(count); i++ {
		child, err := p.value(elem)
		if err != nil {
			return nil, err
		}
		l.data = appendSlot(l.data, l.adopt(child))
	}
	return l, nil
}

// swapInPlace reverses every stride-sized field of b in place.
func swapInPlace(b []byte, stride int) {
	for off := 0; off < len(b); off += stride {
		for i, j := off, off+stride-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
	}
}
