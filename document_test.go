package nbt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The concrete documents below follow the Java Edition (big-endian) wire
// format unless stated otherwise.

func TestReadEmptyCompoundRoot(t *testing.T) {
	src := []byte{0x0A, 0x00, 0x00, 0x00}
	doc, err := ReadBE(src)
	require.NoError(t, err)

	root := doc.Root()
	require.Equal(t, TagCompound, root.TagType())

	c, ok := root.AsCompound()
	require.True(t, ok)
	require.Equal(t, 0, c.Len())
	require.False(t, c.Get("anything").Exists())
}

func TestReadSingleInt(t *testing.T) {
	src := []byte{0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2A}
	doc, err := ReadBE(src)
	require.NoError(t, err)

	v, ok := doc.Root().AsInt()
	require.True(t, ok)
	require.Equal(t, int32(42), v)

	_, ok = doc.Root().AsLong()
	require.False(t, ok)
}

func TestReadNamedNestedCompound(t *testing.T) {
	src := []byte{
		0x0A, 0x00, 0x00,
		0x0A, 0x00, 0x03, 'n', 's', 't',
		0x03, 0x00, 0x01, 'x', 0x00, 0x00, 0x00, 0x05,
		0x00,
		0x00,
	}
	doc, err := ReadBE(src)
	require.NoError(t, err)

	v, ok := doc.Root().Get("nst").Get("x").AsInt()
	require.True(t, ok)
	require.Equal(t, int32(5), v)

	// Chained lookups absorb absence instead of failing.
	require.False(t, doc.Root().Get("nst").Get("missing").Exists())
	require.False(t, doc.Root().Get("no").Get("x").Exists())
	require.False(t, doc.Root().At(0).Exists())
}

func TestReadListOfInts(t *testing.T) {
	src := []byte{
		0x09, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x0A, 0x00, 0x00, 0x00, 0x14,
	}
	doc, err := ReadBE(src)
	require.NoError(t, err)

	l, ok := doc.Root().AsList()
	require.True(t, ok)
	require.Equal(t, 2, l.Len())
	require.Equal(t, TagInt, l.ElemTag())

	v0, ok := doc.Root().At(0).AsInt()
	require.True(t, ok)
	require.Equal(t, int32(10), v0)

	v1, ok := doc.Root().At(1).AsInt()
	require.True(t, ok)
	require.Equal(t, int32(20), v1)

	require.False(t, doc.Root().At(2).Exists())
	require.False(t, doc.Root().At(-1).Exists())
}

func TestListIterAndCompositeElements(t *testing.T) {
	// List of two compounds: {"id": 1b} and {"id": 2b}.
	src := []byte{
		0x09, 0x00, 0x00,
		0x0A, 0x00, 0x00, 0x00, 0x02,
		0x01, 0x00, 0x02, 'i', 'd', 0x01, 0x00,
		0x01, 0x00, 0x02, 'i', 'd', 0x02, 0x00,
	}
	doc, err := ReadBE(src)
	require.NoError(t, err)

	l, ok := doc.Root().AsList()
	require.True(t, ok)
	require.Equal(t, TagCompound, l.ElemTag())
	require.Equal(t, 2, l.Len())

	// Random access walks the mark chain.
	id, ok := l.At(1).Get("id").AsByte()
	require.True(t, ok)
	require.Equal(t, int8(2), id)

	// Iteration yields the same elements in order.
	it := l.Iter()
	var ids []int8
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		b, ok := v.Get("id").AsByte()
		require.True(t, ok)
		ids = append(ids, b)
	}
	require.Equal(t, []int8{1, 2}, ids)
}

func TestListTypedGetters(t *testing.T) {
	src := []byte{
		0x09, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x0A, 0xFF, 0xFF, 0xFF, 0xF6,
	}
	doc, err := ReadBE(src)
	require.NoError(t, err)
	l, ok := doc.Root().AsList()
	require.True(t, ok)

	n, ok := l.IntAt(0)
	require.True(t, ok)
	require.Equal(t, int32(10), n)

	n, ok = l.IntAt(1)
	require.True(t, ok)
	require.Equal(t, int32(-10), n)

	_, ok = l.IntAt(2)
	require.False(t, ok)
	_, ok = l.LongAt(0) // wrong element tag
	require.False(t, ok)
	_, ok = l.DoubleAt(0)
	require.False(t, ok)
}

func TestCompoundIter(t *testing.T) {
	src := []byte{
		0x0A, 0x00, 0x00,
		0x03, 0x00, 0x01, 'x', 0x00, 0x00, 0x00, 0x0A,
		0x03, 0x00, 0x01, 'y', 0x00, 0x00, 0x00, 0x14,
		0x08, 0x00, 0x04, 'n', 'a', 'm', 'e', 0x00, 0x05, 'S', 't', 'e', 'v', 'e',
		0x00,
	}
	doc, err := ReadBE(src)
	require.NoError(t, err)

	c, ok := doc.Root().AsCompound()
	require.True(t, ok)
	require.Equal(t, 3, c.Len())

	it := c.Iter()
	names := []string{}
	for name, _, ok := it.Next(); ok; name, _, ok = it.Next() {
		names = append(names, name.Decode())
	}
	require.Equal(t, []string{"x", "y", "name"}, names)

	s, ok := c.Get("name").AsString()
	require.True(t, ok)
	require.Equal(t, "Steve", s.Decode())
}

func TestArrayViews(t *testing.T) {
	src := []byte{
		0x0A, 0x00, 0x00,
		0x07, 0x00, 0x01, 'b', 0x00, 0x00, 0x00, 0x03, 0x01, 0xFF, 0x03,
		0x0B, 0x00, 0x01, 'i', 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x07, 0xFF, 0xFF, 0xFF, 0xFF,
		0x0C, 0x00, 0x01, 'l', 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x09,
		0x00,
	}
	doc, err := ReadBE(src)
	require.NoError(t, err)
	root := doc.Root()

	ba, ok := root.Get("b").AsByteArray()
	require.True(t, ok)
	require.Equal(t, 3, ba.Len())
	require.Equal(t, int8(-1), ba.At(1))
	require.Equal(t, []int8{1, -1, 3}, ba.Values())
	require.Equal(t, []byte{0x01, 0xFF, 0x03}, ba.Raw())

	ia, ok := root.Get("i").AsIntArray()
	require.True(t, ok)
	require.Equal(t, 2, ia.Len())
	require.Equal(t, int32(7), ia.At(0))
	require.Equal(t, []int32{7, -1}, ia.Values())

	la, ok := root.Get("l").AsLongArray()
	require.True(t, ok)
	require.Equal(t, []int64{9}, la.Values())
}

func TestReadLittleEndianDocument(t *testing.T) {
	src := []byte{
		0x0A, 0x00, 0x00,
		0x03, 0x01, 0x00, 'x', 0x05, 0x00, 0x00, 0x00,
		0x00,
	}
	doc, err := ReadLE(src)
	require.NoError(t, err)

	v, ok := doc.Root().Get("x").AsInt()
	require.True(t, ok)
	require.Equal(t, int32(5), v)
}

func TestReadShared(t *testing.T) {
	src := []byte{0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2A}
	root, err := ReadSharedBE(src)
	require.NoError(t, err)

	// Clobbering the caller's buffer must not affect a shared value.
	for i := range src {
		src[i] = 0xEE
	}
	v, ok := root.AsInt()
	require.True(t, ok)
	require.Equal(t, int32(42), v)
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
	}{
		{"empty", nil},
		{"truncated header", []byte{0x0A}},
		{"invalid root tag", []byte{0x0D, 0x00, 0x00}},
		{"unterminated compound", []byte{0x0A, 0x00, 0x00}},
		{"trailing garbage", []byte{0x0A, 0x00, 0x00, 0x00, 0x01}},
		{"list count past end", []byte{0x09, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x09, 0x01}},
		{"string past end", []byte{0x08, 0x00, 0x00, 0x00, 0x10, 'a'}},
		{"end list with elements", []byte{0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBE(tt.src)
			require.Error(t, err)
		})
	}
}

func TestDocumentRootName(t *testing.T) {
	src := []byte{0x0A, 0x00, 0x02, 'h', 'i', 0x00}
	doc, err := ReadBE(src)
	require.NoError(t, err)
	require.Equal(t, "hi", doc.RootName().Decode())
	require.Equal(t, TagCompound, doc.Root().TagType())
}
