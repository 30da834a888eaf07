package zlib

import (
	"testing"

	"github.com/jonjohnsonjr/inflate/flate"
	"github.com/stretchr/testify/require"
)

func decodeOneShot(t *testing.T, input []byte) ([]byte, flate.Result) {
	t.Helper()
	d := NewDecoder()
	sink := &flate.ByteSink{}
	_, recv, result := d.Input(input, sink)
	return recv.(*flate.ByteSink).Bytes, result
}

func TestZlibWrapsShortSequence(t *testing.T) {
	input := []byte{0x78, 0x9C, 0x63, 0x64, 0x62, 0x06, 0x00, 0x00, 0x0D, 0x00, 0x07}
	got, result := decodeOneShot(t, input)
	require.NoError(t, result.Err)
	require.True(t, result.Done)
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestZlibCorruptAdlerChecksum(t *testing.T) {
	input := []byte{0x78, 0x9C, 0x63, 0x62, 0x66, 0x65, 0xE7, 0x06, 0x00, 0x00, 0x43, 0xE0, 0x1D}
	_, result := decodeOneShot(t, input)
	require.Error(t, result.Err)
	require.True(t, result.Done)
	require.IsType(t, BadDataChecksumError{}, result.Err)
}

func TestZlibByteAtATime(t *testing.T) {
	input := []byte{0x78, 0x9C, 0x63, 0x64, 0x62, 0x06, 0x00, 0x00, 0x0D, 0x00, 0x07}
	d := NewDecoder()
	var recv flate.Receiver = &flate.ByteSink{}
	var result flate.Result
	for _, b := range input {
		_, recv, result = d.Input([]byte{b}, recv)
	}
	require.NoError(t, result.Err)
	require.True(t, result.Done)
	require.Equal(t, []byte{1, 2, 3}, recv.(*flate.ByteSink).Bytes)
}

func TestBadCompressionMethod(t *testing.T) {
	// CMF = 0x77 -> CM = 7, not 8.
	d := NewDecoder()
	_, _, result := d.Input([]byte{0x77, 0x85}, &flate.ByteSink{})
	require.Error(t, result.Err)
	require.IsType(t, BadCompressionMethodError{}, result.Err)
}

func TestWindowTooLong(t *testing.T) {
	// CMF = 0xF8: CM=8, CINFO=15 -> window 1<<23, far past 32768.
	// FLG chosen so (CMF*256+FLG) % 31 == 0 isn't required to observe
	// WindowTooLong since that check runs first.
	d := NewDecoder()
	_, _, result := d.Input([]byte{0xF8, 0x00}, &flate.ByteSink{})
	require.Error(t, result.Err)
	require.IsType(t, WindowTooLongError{}, result.Err)
}

func TestBadHeaderChecksum(t *testing.T) {
	d := NewDecoder()
	_, _, result := d.Input([]byte{0x78, 0x9D}, &flate.ByteSink{})
	require.Error(t, result.Err)
	require.IsType(t, BadHeaderChecksumError{}, result.Err)
}

func TestDictionaryUsedRejected(t *testing.T) {
	// 0x78 0xBB: CM=8, and FDICT bit set with a checksum-valid FLG.
	d := NewDecoder()
	_, _, result := d.Input([]byte{0x78, 0xBB}, &flate.ByteSink{})
	require.Error(t, result.Err)
	require.IsType(t, DictionaryUsedError{}, result.Err)
}

func TestHeaderSplitAcrossChunks(t *testing.T) {
	input := []byte{0x78, 0x9C, 0x63, 0x64, 0x62, 0x06, 0x00, 0x00, 0x0D, 0x00, 0x07}
	d := NewDecoder()
	var recv flate.Receiver = &flate.ByteSink{}
	rest, recv, result := d.Input(input[:1], recv)
	require.Empty(t, rest)
	require.False(t, result.Done)

	_, recv, result = d.Input(input[1:], recv)
	require.NoError(t, result.Err)
	require.True(t, result.Done)
	require.Equal(t, []byte{1, 2, 3}, recv.(*flate.ByteSink).Bytes)
}
