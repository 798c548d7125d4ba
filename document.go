package nbt

import (
	"github.com/scigolib/nbt/internal/core"
	"github.com/scigolib/nbt/internal/utils"
)

// Document is a zero-copy parsed NBT document: the source bytes plus the
// sidecar mark index built by a single pre-scan. It copies no payload bytes;
// every Value handed out navigates the source buffer directly.
//
// A Document is immutable after Read and safe for concurrent use.
type Document struct {
	src     []byte
	marks   []core.Mark
	order   ByteOrder
	rootTag Tag
	payload int
}

// Read parses src into a zero-copy Document with the given byte order.
// The returned Document borrows src: the caller must not modify src while
// the Document or any Value derived from it is in use.
//
// Read validates the entire document up front; navigation afterwards cannot
// fail on malformed input.
func Read(src []byte, order ByteOrder) (*Document, error) {
	ix, err := core.BuildIndex(src, order)
	if err != nil {
		return nil, utils.WrapError("document index failed", err)
	}
	return &Document{
		src:     src,
		marks:   ix.Marks,
		order:   order,
		rootTag: ix.RootTag,
		payload: ix.Payload,
	}, nil
}

// ReadBE parses a Java Edition (big-endian) document. See Read.
func ReadBE(src []byte) (*Document, error) {
	return Read(src, JavaEdition)
}

// ReadLE parses a Bedrock Edition (little-endian) document. See Read.
func ReadLE(src []byte) (*Document, error) {
	return Read(src, BedrockEdition)
}

// ReadShared parses src like Read but copies the bytes into a buffer owned
// by the Document, so the returned root Value stays valid regardless of what
// the caller later does with src. Values from a shared document may be
// retained and passed between goroutines freely.
func ReadShared(src []byte, order ByteOrder) (Value, error) {
	owned := make([]byte, len(src))
	copy(owned, src)
	doc, err := Read(owned, order)
	if err != nil {
		return Value{}, err
	}
	return doc.Root(), nil
}

// ReadSharedBE parses a Java Edition document into a shared Value. See ReadShared.
func ReadSharedBE(src []byte) (Value, error) {
	return ReadShared(src, JavaEdition)
}

// ReadSharedLE parses a Bedrock Edition document into a shared Value. See ReadShared.
func ReadSharedLE(src []byte) (Value, error) {
	return ReadShared(src, BedrockEdition)
}

// Order returns the document's byte order.
func (d *Document) Order() ByteOrder {
	return d.order
}

// RootName returns the raw MUTF-8 bytes of the root tag's name. The root
// name is almost always empty in practice.
func (d *Document) RootName() String {
	if d.rootTag == TagEnd {
		return String{}
	}
	return String{raw: d.src[3 : d.payload : d.payload]}
}

// Root returns the root value of the document.
func (d *Document) Root() Value {
	if d.rootTag == TagEnd {
		return Value{}
	}
	return makeValue(d, d.rootTag, d.payload, 0)
}

// makeValue builds a Value view. mi is the mark cursor positioned at the
// value's own mark when the value is composite; the stored index points at
// the first child mark instead, matching what iteration needs.
func makeValue(d *Document, tag Tag, pos, mi int) Value {
	if tag.IsComposite() {
		mi++
	}
	return Value{tag: tag, doc: d, pos: pos, mi: mi}
}
