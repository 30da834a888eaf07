package flate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// decodeOneShot feeds the whole input in a single Input call and returns
// the fully decoded bytes, requiring that the stream finished without
// error and consumed everything.
func decodeOneShot(t *testing.T, input []byte) []byte {
	t.Helper()
	f := NewInflater()
	sink := &ByteSink{}
	rest, recv, result := f.Input(input, sink)
	require.NoError(t, result.Err)
	require.True(t, result.Done)
	require.Empty(t, rest)
	require.Same(t, sink, recv)
	return sink.Bytes
}

// decodeByteAtATime feeds input one byte at a time, exercising suspend and
// resume at every possible boundary, and returns the decoded bytes.
func decodeByteAtATime(t *testing.T, input []byte) []byte {
	t.Helper()
	f := NewInflater()
	var recv Receiver = &ByteSink{}
	for i, b := range input {
		var result Result
		var rest []byte
		rest, recv, result = f.Input([]byte{b}, recv)
		require.NoError(t, result.Err, "byte %d", i)
		require.Empty(t, rest, "byte %d", i)
	}
	require.True(t, f.HasFinished())
	return recv.(*ByteSink).Bytes
}

func TestStoredBlockSingleByte(t *testing.T) {
	input := []byte{0x01, 0x01, 0x00, 0xFE, 0xFF, 0x2A}
	require.Equal(t, []byte{0x2A}, decodeOneShot(t, input))
	require.Equal(t, []byte{0x2A}, decodeByteAtATime(t, input))
}

func TestStoredBlockAcrossTwoBlocks(t *testing.T) {
	input := []byte{
		0x00, 0x06, 0x00, 0xF9, 0xFF, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66,
		0x01, 0x04, 0x00, 0xFB, 0xFF, 0x4D, 0x58, 0x63, 0x6E,
	}
	want := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x4D, 0x58, 0x63, 0x6E}
	require.Equal(t, want, decodeOneShot(t, input))
	require.Equal(t, want, decodeByteAtATime(t, input))
}

func TestFixedHuffmanBackReference(t *testing.T) {
	input := []byte{0x93, 0xD3, 0x02, 0x02, 0x0D, 0x00}
	want := []byte{30, 42, 42, 42, 42, 40}
	require.Equal(t, want, decodeOneShot(t, input))
	require.Equal(t, want, decodeByteAtATime(t, input))
}

func TestDynamicHuffman24Bytes(t *testing.T) {
	input := []byte{
		0x0D, 0xC5, 0xB1, 0x01, 0x00, 0x00, 0x08, 0xC2, 0xB0, 0x52, 0xF8,
		0xFF, 0x66, 0xCD, 0x92, 0xAC, 0x01, 0xDC, 0x8C, 0x62, 0xFD, 0x49, 0x0F,
	}
	want := []byte{1, 4, 3, 1, 0, 0, 0, 2, 4, 4, 2, 1, 2, 2, 0, 2, 3, 2, 2, 1, 2, 0, 1, 3}
	require.Equal(t, want, decodeOneShot(t, input))
	require.Equal(t, want, decodeByteAtATime(t, input))
}

func TestStoredBlockLengthZero(t *testing.T) {
	// BFINAL=1, BTYPE=00, LEN=0, NLEN=0xFFFF, no data bytes.
	input := []byte{0x01, 0x00, 0x00, 0xFF, 0xFF}
	require.Empty(t, decodeOneShot(t, input))
}

func TestStoredBlockLengthMismatchErrors(t *testing.T) {
	input := []byte{0x01, 0x01, 0x00, 0x00, 0x00, 0x2A}
	f := NewInflater()
	_, _, result := f.Input(input, &ByteSink{})
	require.Error(t, result.Err)
	require.IsType(t, LengthMismatchError{}, result.Err)
	require.True(t, result.Done)
}

func TestBadBlockTypeErrors(t *testing.T) {
	// BFINAL=1, BTYPE=11 (reserved): byte 0b111 = 0x07.
	input := []byte{0x07}
	f := NewInflater()
	_, _, result := f.Input(input, &ByteSink{})
	require.Error(t, result.Err)
	require.IsType(t, BadBlockTypeError{}, result.Err)
}

func TestTruncatedInputNeedsMoreAtEveryOffset(t *testing.T) {
	input := []byte{0x93, 0xD3, 0x02, 0x02, 0x0D, 0x00}
	for n := 0; n < len(input); n++ {
		f := NewInflater()
		rest, _, result := f.Input(input[:n], &ByteSink{})
		require.Empty(t, rest)
		require.NoError(t, result.Err)
		require.False(t, result.Done, "n=%d", n)
	}
}

func TestEmptyInputNeedsMore(t *testing.T) {
	f := NewInflater()
	rest, _, result := f.Input(nil, &ByteSink{})
	require.Empty(t, rest)
	require.False(t, result.Done)
	require.NoError(t, result.Err)
}

func TestErrorLatchesAcrossCalls(t *testing.T) {
	f := NewInflater()
	_, recv, result := f.Input([]byte{0x07}, &ByteSink{})
	require.Error(t, result.Err)

	rest, _, result2 := f.Input([]byte{0xAA, 0xBB}, recv)
	require.Equal(t, []byte{0xAA, 0xBB}, rest)
	require.Equal(t, result.Err, result2.Err)
	require.True(t, result2.Done)
}

func TestCheckpointResumesIndependently(t *testing.T) {
	input := []byte{
		0x00, 0x06, 0x00, 0xF9, 0xFF, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66,
		0x01, 0x04, 0x00, 0xFB, 0xFF, 0x4D, 0x58, 0x63, 0x6E,
	}
	f := NewInflater(WithCheckpoints(true))
	var recv Receiver = &ByteSink{}
	rest, recv, result := f.Input(input[:11], recv)
	require.Empty(t, rest)
	require.False(t, result.Done)

	cp := f.Checkpoint()
	soFar := append([]byte(nil), recv.(*ByteSink).Bytes...)

	// Resume the original and a checkpoint-restored clone with the same
	// remaining bytes and independent sinks seeded from the common prefix;
	// both must agree on the rest of the stream.
	fB := cp.Restore()

	recvA := &ByteSink{Bytes: append([]byte(nil), soFar...)}
	_, recvA2, resA := f.Input(input[11:], recvA)
	require.NoError(t, resA.Err)
	require.True(t, resA.Done)

	recvB := &ByteSink{Bytes: append([]byte(nil), soFar...)}
	_, recvB2, resB := fB.Input(input[11:], recvB)
	require.NoError(t, resB.Err)
	require.True(t, resB.Done)

	require.Equal(t, recvA2.(*ByteSink).Bytes, recvB2.(*ByteSink).Bytes)
}

func TestBytesConsumedAndProduced(t *testing.T) {
	input := []byte{0x01, 0x01, 0x00, 0xFE, 0xFF, 0x2A}
	f := NewInflater()
	_, _, result := f.Input(input, &ByteSink{})
	require.NoError(t, result.Err)
	require.True(t, result.Done)
	require.Equal(t, uint64(len(input)), f.BytesConsumed())
	require.Equal(t, uint64(1), f.BytesProduced())
}
