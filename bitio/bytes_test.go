package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteReaderIntegers(t *testing.T) {
	var bb ByteBuf
	r := NewByteReader(&bb, []byte{0x01, 0x02, 0x03, 0x04})

	v16, ok := r.ReadU16LE()
	require.True(t, ok)
	require.Equal(t, uint16(0x0201), v16)

	v16be, ok := r.ReadU16BE()
	require.True(t, ok)
	require.Equal(t, uint16(0x0304), v16be)
}

func TestByteReaderCarriesPendingAcrossChunks(t *testing.T) {
	var bb ByteBuf
	r := NewByteReader(&bb, []byte{0x01})
	_, ok := r.ReadU32LE()
	require.False(t, ok)

	bb.pending = append(bb.pending, r.Chunk()...)
	r2 := NewByteReader(&bb, []byte{0x02, 0x03, 0x04})
	v, ok := r2.ReadU32LE()
	require.True(t, ok)
	require.Equal(t, uint32(0x04030201), v)
}

func TestByteReaderConsumeChunkNulTerminated(t *testing.T) {
	var bb ByteBuf
	r := NewByteReader(&bb, []byte("name\x00rest"))

	name := ConsumeChunk(r, func(avail []byte) (string, []byte) {
		for i, b := range avail {
			if b == 0 {
				return string(avail[:i]), avail[i+1:]
			}
		}
		return "", avail
	})

	require.Equal(t, "name", name)
	require.Equal(t, []byte("rest"), bb.pending)
}
