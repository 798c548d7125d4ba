// Package nbt provides a pure Go implementation of the Named Binary Tag
// (NBT) binary format used by Minecraft. It supports both Java Edition
// (big-endian) and Bedrock Edition (little-endian) documents through three
// coordinated representations of a parsed tree:
//
//   - a zero-copy indexed view (Document / Value) that navigates nested
//     containers without copying payload bytes,
//   - a fully owned, mutable tree (Owned / OwnedList / OwnedCompound),
//   - a reflection-based struct decoder (Unmarshal).
//
// The two tree forms share one endianness-aware writer that emits either
// byte order; the struct decoder only reads.
package nbt

import (
	"encoding/binary"

	"github.com/scigolib/nbt/internal/core"
)

// Tag identifies the type of an NBT value.
type Tag = core.Tag

// NBT tag types as defined by the wire format.
const (
	TagEnd       = core.TagEnd
	TagByte      = core.TagByte
	TagShort     = core.TagShort
	TagInt       = core.TagInt
	TagLong      = core.TagLong
	TagFloat     = core.TagFloat
	TagDouble    = core.TagDouble
	TagByteArray = core.TagByteArray
	TagString    = core.TagString
	TagList      = core.TagList
	TagCompound  = core.TagCompound
	TagIntArray  = core.TagIntArray
	TagLongArray = core.TagLongArray
)

// ByteOrder is the byte order of an NBT document. It is satisfied by
// binary.BigEndian and binary.LittleEndian; the named dialects below cover
// both in practice.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// JavaEdition and BedrockEdition name the byte orders of the two NBT
// dialects. Every entry point taking a ByteOrder accepts either.
var (
	JavaEdition    ByteOrder = binary.BigEndian
	BedrockEdition ByteOrder = binary.LittleEndian
)
