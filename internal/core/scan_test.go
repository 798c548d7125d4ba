package core

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSkipPrimitives(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		data []byte
		want int
	}{
		{"byte", TagByte, []byte{0x7F}, 1},
		{"short", TagShort, []byte{0x01, 0x02}, 2},
		{"int", TagInt, []byte{0, 0, 0, 42}, 4},
		{"long", TagLong, []byte{0, 0, 0, 0, 0, 0, 0, 1}, 8},
		{"float", TagFloat, []byte{0x3F, 0x80, 0, 0}, 4},
		{"double", TagDouble, []byte{0x40, 0, 0, 0, 0, 0, 0, 0}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Skip(tt.data, 0, tt.tag, binary.BigEndian)
			require.NoError(t, err)
			require.Equal(t, tt.want, next)
		})
	}
}

func TestSkipVariableSize(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		data []byte
		want int
	}{
		{"empty string", TagString, []byte{0, 0}, 2},
		{"string", TagString, []byte{0, 3, 'a', 'b', 'c'}, 5},
		{"byte array", TagByteArray, []byte{0, 0, 0, 2, 1, 2}, 6},
		{"int array", TagIntArray, []byte{0, 0, 0, 1, 0, 0, 0, 9}, 8},
		{"long array", TagLongArray, []byte{0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 9}, 12},
		{"empty list", TagList, []byte{0, 0, 0, 0, 0}, 5},
		{"int list", TagList, []byte{3, 0, 0, 0, 2, 0, 0, 0, 1, 0, 0, 0, 2}, 13},
		{"string list", TagList, []byte{8, 0, 0, 0, 2, 0, 1, 'a', 0, 1, 'b'}, 11},
		{"empty compound", TagCompound, []byte{0}, 1},
		{"compound with int", TagCompound, []byte{3, 0, 1, 'x', 0, 0, 0, 5, 0}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Skip(tt.data, 0, tt.tag, binary.BigEndian)
			require.NoError(t, err)
			require.Equal(t, tt.want, next)
		})
	}
}

func TestSkipLittleEndianLengths(t *testing.T) {
	// Length prefixes follow the document byte order.
	next, err := Skip([]byte{3, 0, 'a', 'b', 'c'}, 0, TagString, binary.LittleEndian)
	require.NoError(t, err)
	require.Equal(t, 5, next)

	next, err = Skip([]byte{2, 0, 0, 0, 1, 2}, 0, TagByteArray, binary.LittleEndian)
	require.NoError(t, err)
	require.Equal(t, 6, next)
}

func TestSkipErrors(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		data []byte
	}{
		{"truncated int", TagInt, []byte{0, 0}},
		{"truncated string payload", TagString, []byte{0, 5, 'a'}},
		{"truncated string length", TagString, []byte{0}},
		{"truncated array", TagByteArray, []byte{0, 0, 0, 9, 1}},
		{"truncated list header", TagList, []byte{3, 0, 0}},
		{"truncated list payload", TagList, []byte{3, 0, 0, 0, 2, 0, 0, 0, 1}},
		{"unterminated compound", TagCompound, []byte{3, 0, 1, 'x', 0, 0, 0, 5}},
		{"empty compound input", TagCompound, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Skip(tt.data, 0, tt.tag, binary.BigEndian)
			require.ErrorIs(t, err, ErrEndOfFile)
		})
	}
}

func TestSkipInvalidTags(t *testing.T) {
	var tagErr *InvalidTagError

	// Tag byte beyond LongArray.
	_, err := Skip([]byte{1, 2, 3}, 0, Tag(13), binary.BigEndian)
	require.Error(t, err)
	require.True(t, errors.As(err, &tagErr))
	require.Equal(t, uint8(13), tagErr.Tag)

	// List of End with a non-zero count.
	_, err = Skip([]byte{0, 0, 0, 0, 2}, 0, TagList, binary.BigEndian)
	require.Error(t, err)
	require.True(t, errors.As(err, &tagErr))
	require.Equal(t, uint8(TagEnd), tagErr.Tag)

	// Invalid tag inside a compound entry.
	_, err = Skip([]byte{99, 0, 0, 0}, 0, TagCompound, binary.BigEndian)
	require.Error(t, err)
	require.True(t, errors.As(err, &tagErr))
	require.Equal(t, uint8(99), tagErr.Tag)
}

func TestSkipListOfEndZeroCount(t *testing.T) {
	// An End-typed list with count = 0 is the canonical empty list.
	next, err := Skip([]byte{0, 0, 0, 0, 0}, 0, TagList, binary.BigEndian)
	require.NoError(t, err)
	require.Equal(t, 5, next)
}
