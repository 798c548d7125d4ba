package nbt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadOwnedBasics(t *testing.T) {
	src := []byte{
		0x0A, 0x00, 0x00,
		0x03, 0x00, 0x01, 'x', 0x00, 0x00, 0x00, 0x05,
		0x08, 0x00, 0x01, 's', 0x00, 0x02, 'h', 'i',
		0x00,
	}
	owned, err := ReadOwnedBE(src)
	require.NoError(t, err)

	c, ok := owned.AsCompound()
	require.True(t, ok)
	require.Equal(t, 2, c.Len())

	n, ok := owned.Get("x").AsInt()
	require.True(t, ok)
	require.Equal(t, int32(5), n)

	s, ok := owned.Get("s").AsString()
	require.True(t, ok)
	require.Equal(t, "hi", s.Decode())
}

func TestReadOwnedEndRoot(t *testing.T) {
	owned, err := ReadOwnedBE([]byte{0x00})
	require.NoError(t, err)
	require.False(t, owned.Exists())
}

func TestReadOwnedCrossEndian(t *testing.T) {
	src := sampleDocBE()

	// Parse big-endian input into a little-endian owned tree.
	owned, err := ReadOwnedAs(src, JavaEdition, BedrockEdition)
	require.NoError(t, err)

	n, ok := owned.Get("i").AsInt()
	require.True(t, ok)
	require.Equal(t, int32(42), n)

	short, ok := owned.Get("s").AsShort()
	require.True(t, ok)
	require.Equal(t, int16(256), short)

	// Its same-order write target is now little-endian.
	le := owned.Bytes(BedrockEdition)
	doc, err := ReadLE(le)
	require.NoError(t, err)
	v, ok := doc.Root().Get("d").AsDouble()
	require.True(t, ok)
	require.Equal(t, 2.0, v)

	// And the logical tree survives the full BE -> LE -> BE trip.
	require.Equal(t, src, owned.Bytes(JavaEdition))
}

func TestReadOwnedErrors(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
	}{
		{"empty", nil},
		{"invalid root tag", []byte{0x0D, 0x00, 0x00}},
		{"truncated name", []byte{0x03, 0x00, 0x04, 'a'}},
		{"truncated int", []byte{0x03, 0x00, 0x00, 0x00}},
		{"unterminated compound", []byte{0x0A, 0x00, 0x00, 0x03, 0x00, 0x01, 'x', 0x00, 0x00, 0x00, 0x05}},
		{"trailing bytes", []byte{0x0A, 0x00, 0x00, 0x00, 0xAA}},
		{"bad tag in compound", []byte{0x0A, 0x00, 0x00, 0x63, 0x00, 0x00, 0x00}},
		{"end list with count", []byte{0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOwnedBE(tt.src)
			require.Error(t, err)
		})
	}
}

func TestReadOwnedFromReader(t *testing.T) {
	src := sampleDocBE()
	owned, err := ReadOwnedFromBE(bytes.NewReader(src))
	require.NoError(t, err)

	// The streamed parse writes back the identical document.
	require.Equal(t, src, owned.Bytes(JavaEdition))
}

func TestReadOwnedFromReaderCrossEndian(t *testing.T) {
	src := sampleDocBE()
	owned, err := ReadOwnedFrom(bytes.NewReader(src), JavaEdition, BedrockEdition)
	require.NoError(t, err)

	n, ok := owned.Get("li").At(0).AsInt()
	require.True(t, ok)
	require.Equal(t, int32(10), n)

	require.Equal(t, src, owned.Bytes(JavaEdition))
}

func TestReadOwnedFromReaderTruncated(t *testing.T) {
	src := sampleDocBE()
	for _, cut := range []int{1, 3, 10, len(src) / 2, len(src) - 1} {
		_, err := ReadOwnedFromBE(bytes.NewReader(src[:cut]))
		require.Error(t, err, "cut at %d", cut)
		require.ErrorIs(t, err, ErrEndOfFile)
	}
}

func TestReadOwnedFromReaderHugeLengthPrefix(t *testing.T) {
	// A corrupt 2GB byte-array length must be rejected before allocation.
	src := []byte{0x07, 0x00, 0x00, 0x7F, 0xFF, 0xFF, 0xFF, 0x01}
	_, err := ReadOwnedFromBE(bytes.NewReader(src))
	require.Error(t, err)
}

func TestReadOwnedListPayloadSwap(t *testing.T) {
	// List of shorts, big-endian source, little-endian destination: the
	// payload is read in one piece and swapped in place.
	src := []byte{
		0x09, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00, 0x03,
		0x01, 0x00, 0x02, 0x00, 0x03, 0x00, // 256, 512, 768
	}
	owned, err := ReadOwnedFrom(bytes.NewReader(src), JavaEdition, BedrockEdition)
	require.NoError(t, err)

	l, ok := owned.AsList()
	require.True(t, ok)
	require.Equal(t, 3, l.Len())
	for i, want := range []int16{256, 512, 768} {
		v, ok := l.Get(i)
		require.True(t, ok)
		n, _ := v.AsShort()
		require.Equal(t, want, n, "element %d", i)
	}
}
