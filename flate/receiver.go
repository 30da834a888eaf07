package flate

import "github.com/jonjohnsonjr/inflate/checksum"

// Receiver consumes a run of decoded bytes and returns the receiver that
// should be used for the next run. Returning a (possibly new) value instead
// of mutating in place lets the caller thread ownership of the sink through
// every Inflater.Input call rather than have the decoder store it, so a
// checksum tee can fork into two receivers without either of them needing
// interior mutability.
//
// Implementations must not retain p beyond the call: it may be backed by
// the sliding window's internal buffer and is only valid until Receive
// returns.
type Receiver interface {
	Receive(p []byte) Receiver
}

// ByteSink accumulates every received byte into Bytes. It's the receiver a
// caller reaches for when it just wants the whole decoded stream in memory.
type ByteSink struct {
	Bytes []byte
}

// Receive appends p to the sink and returns the same sink.
func (s *ByteSink) Receive(p []byte) Receiver {
	s.Bytes = append(s.Bytes, p...)
	return s
}

// Discard is a Receiver that drops everything it's given, for callers that
// only care about side effects (e.g. validating a checksum) and not the
// decoded bytes themselves.
type Discard struct{}

// Receive does nothing and returns the same Discard value.
func (Discard) Receive(p []byte) Receiver {
	return Discard{}
}

// Fork delivers every run to A and then to B, in that order, and returns
// an updated Fork wrapping whatever each returned. zlib/gzip framing uses
// this to tee the inflated body to both the caller's sink and a running
// checksum.
type Fork struct {
	A, B Receiver
}

// Receive forwards p to A then B and returns the updated pair.
func (f Fork) Receive(p []byte) Receiver {
	return Fork{A: f.A.Receive(p), B: f.B.Receive(p)}
}

// Adler32Sink folds every received run into an Adler-32 accumulator.
type Adler32Sink struct {
	Hash *checksum.Adler32
}

// Receive folds p into the checksum and returns the same sink.
func (s Adler32Sink) Receive(p []byte) Receiver {
	s.Hash.Update(p)
	return s
}

// CRC32Sink folds every received run into a CRC-32 accumulator.
type CRC32Sink struct {
	Hash *checksum.CRC32
}

// Receive folds p into the checksum and returns the same sink.
func (s CRC32Sink) Receive(p []byte) Receiver {
	s.Hash.Update(p)
	return s
}
