package nbt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleDocBE is a document exercising every tag kind, in big-endian.
func sampleDocBE() []byte {
	return []byte{
		0x0A, 0x00, 0x00, // root Compound, empty name
		0x01, 0x00, 0x01, 'b', 0x80, // Byte "b" = -128
		0x02, 0x00, 0x01, 's', 0x01, 0x00, // Short "s" = 256
		0x03, 0x00, 0x01, 'i', 0x00, 0x00, 0x00, 0x2A, // Int "i" = 42
		0x04, 0x00, 0x01, 'l', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, // Long "l" = 256
		0x05, 0x00, 0x01, 'f', 0x3F, 0x80, 0x00, 0x00, // Float "f" = 1.0
		0x06, 0x00, 0x01, 'd', 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Double "d" = 2.0
		0x07, 0x00, 0x02, 'b', 'a', 0x00, 0x00, 0x00, 0x03, 0x01, 0x02, 0x03, // ByteArray
		0x08, 0x00, 0x02, 's', 't', 0x00, 0x02, 'h', 'i', // String "hi"
		0x09, 0x00, 0x02, 'l', 'i', 0x03, 0x00, 0x00, 0x00, 0x02, // List of Int
		0x00, 0x00, 0x00, 0x0A, 0x00, 0x00, 0x00, 0x14,
		0x0A, 0x00, 0x02, 'c', 'p', // nested Compound
		0x03, 0x00, 0x01, 'x', 0x00, 0x00, 0x00, 0x05,
		0x00,
		0x0B, 0x00, 0x02, 'i', 'a', 0x00, 0x00, 0x00, 0x02, // IntArray
		0x00, 0x00, 0x00, 0x07, 0xFF, 0xFF, 0xFF, 0xFF,
		0x0C, 0x00, 0x02, 'l', 'a', 0x00, 0x00, 0x00, 0x01, // LongArray
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x09,
		0x00, // End of root
	}
}

func TestValueWriteSameOrderRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
	}{
		{"empty compound", []byte{0x0A, 0x00, 0x00, 0x00}},
		{"single int", []byte{0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2A}},
		{"list of ints", []byte{
			0x09, 0x00, 0x00,
			0x03, 0x00, 0x00, 0x00, 0x02,
			0x00, 0x00, 0x00, 0x0A, 0x00, 0x00, 0x00, 0x14,
		}},
		{"every tag kind", sampleDocBE()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ReadBE(tt.src)
			require.NoError(t, err)

			// Same-order output is byte-for-byte identical to the input.
			require.Equal(t, tt.src, doc.Root().Bytes(JavaEdition))

			var buf bytes.Buffer
			require.NoError(t, doc.Root().WriteTo(&buf, JavaEdition))
			require.Equal(t, tt.src, buf.Bytes())
		})
	}
}

func TestValueWriteCrossEndian(t *testing.T) {
	src := sampleDocBE()
	doc, err := ReadBE(src)
	require.NoError(t, err)

	le := doc.Root().Bytes(BedrockEdition)
	require.NotEqual(t, src, le)

	// The little-endian rendition parses into the same logical tree.
	leDoc, err := ReadLE(le)
	require.NoError(t, err)

	v, ok := leDoc.Root().Get("i").AsInt()
	require.True(t, ok)
	require.Equal(t, int32(42), v)

	short, ok := leDoc.Root().Get("s").AsShort()
	require.True(t, ok)
	require.Equal(t, int16(256), short)

	f, ok := leDoc.Root().Get("f").AsFloat()
	require.True(t, ok)
	require.Equal(t, float32(1.0), f)

	s, ok := leDoc.Root().Get("st").AsString()
	require.True(t, ok)
	require.Equal(t, "hi", s.Decode())

	n, ok := leDoc.Root().Get("li").At(1).AsInt()
	require.True(t, ok)
	require.Equal(t, int32(20), n)

	ia, ok := leDoc.Root().Get("ia").AsIntArray()
	require.True(t, ok)
	require.Equal(t, []int32{7, -1}, ia.Values())

	// And converting back to big-endian restores the original bytes.
	require.Equal(t, src, leDoc.Root().Bytes(JavaEdition))
}

func TestValueWriteCrossEndianStreaming(t *testing.T) {
	src := sampleDocBE()
	doc, err := ReadBE(src)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Root().WriteTo(&buf, BedrockEdition))
	require.Equal(t, doc.Root().Bytes(BedrockEdition), buf.Bytes())
}

func TestOwnedWriteRoundTrip(t *testing.T) {
	src := sampleDocBE()
	owned, err := ReadOwnedBE(src)
	require.NoError(t, err)

	// The owned tree writes back the original bytes on the same-order path.
	require.Equal(t, src, owned.Bytes(JavaEdition))

	var buf bytes.Buffer
	require.NoError(t, owned.WriteTo(&buf, JavaEdition))
	require.Equal(t, src, buf.Bytes())
}

func TestOwnedWriteCrossEndian(t *testing.T) {
	src := sampleDocBE()
	owned, err := ReadOwnedBE(src)
	require.NoError(t, err)

	le := owned.Bytes(BedrockEdition)

	// Cross-order output of the owned tree matches the zero-copy writer's.
	doc, err := ReadBE(src)
	require.NoError(t, err)
	require.Equal(t, doc.Root().Bytes(BedrockEdition), le)

	back, err := ReadOwnedLE(le)
	require.NoError(t, err)
	require.Equal(t, src, back.Bytes(JavaEdition))
}

func TestBuiltOwnedWrite(t *testing.T) {
	items := NewList(JavaEdition)
	items.Push(NewInt(10))
	items.Push(NewInt(20))

	root := NewCompound(JavaEdition)
	root.Insert("items", items.Owned())
	root.Insert("owner", NewString("Steve"))

	out := root.Owned().Bytes(JavaEdition)

	doc, err := ReadBE(out)
	require.NoError(t, err)
	n, ok := doc.Root().Get("items").At(1).AsInt()
	require.True(t, ok)
	require.Equal(t, int32(20), n)
	s, ok := doc.Root().Get("owner").AsString()
	require.True(t, ok)
	require.Equal(t, "Steve", s.Decode())
}

func TestMixedOrderContainers(t *testing.T) {
	// A little-endian list nested in a big-endian compound still writes a
	// coherent document in either target order.
	inner := NewList(BedrockEdition)
	inner.Push(NewShort(513))

	root := NewCompound(JavaEdition)
	root.Insert("l", inner.Owned())

	be := root.Owned().Bytes(JavaEdition)
	doc, err := ReadBE(be)
	require.NoError(t, err)
	n, ok := doc.Root().Get("l").At(0).AsShort()
	require.True(t, ok)
	require.Equal(t, int16(513), n)

	le := root.Owned().Bytes(BedrockEdition)
	docLE, err := ReadLE(le)
	require.NoError(t, err)
	n, ok = docLE.Root().Get("l").At(0).AsShort()
	require.True(t, ok)
	require.Equal(t, int16(513), n)
}

func TestWriteAbsentValue(t *testing.T) {
	require.Equal(t, []byte{0x00}, Value{}.Bytes(JavaEdition))
	require.Equal(t, []byte{0x00}, Owned{}.Bytes(JavaEdition))
}
