// Package gzip implements RFC 1952 framing around the flate package's
// DEFLATE decoder: a variable-length header (magic, flags, optional
// extra/name/comment/header-checksum fields), the compressed body, and an
// 8-byte trailer of CRC-32 and ISIZE.
package gzip

import (
	"github.com/jonjohnsonjr/inflate/bitio"
	"github.com/jonjohnsonjr/inflate/checksum"
	"github.com/jonjohnsonjr/inflate/flate"
)

type phase int

const (
	phaseHeader phase = iota
	phaseBody
	phaseTrailer
	phaseDone
	phaseErrored
)

// Decoder decodes a single gzip member. (Concatenated members, a gzip
// feature some tools rely on, are explicitly out of scope here.)
type Decoder struct {
	phase phase

	byteBuf  bitio.ByteBuf
	hdr      *headerReader
	inflater *flate.Inflater
	crc      *checksum.CRC32

	err error

	// Header is populated once the header phase completes.
	Header Header
}

// NewDecoder returns a Decoder ready to read a fresh gzip member.
func NewDecoder(opts ...flate.Option) *Decoder {
	return &Decoder{
		hdr:      newHeaderReader(),
		inflater: flate.NewInflater(opts...),
		crc:      checksum.NewCRC32(),
	}
}

// Input behaves like flate.Inflater.Input, driving the gzip header, body,
// and trailer in sequence.
func (d *Decoder) Input(chunk []byte, recv flate.Receiver) (rest []byte, recv2 flate.Receiver, result flate.Result) {
	if d.err != nil {
		return chunk, recv, flate.Result{Err: d.err, Done: true}
	}
	if d.phase == phaseDone {
		return chunk, recv, flate.Result{Done: true}
	}

	for {
		switch d.phase {
		case phaseHeader:
			r := bitio.NewByteReader(&d.byteBuf, chunk)
			err := d.hdr.run(r)
			if err == errNeedMore {
				r.Unread()
				return nil, recv, flate.Result{}
			}
			if err != nil {
				d.fail(err)
				return r.Chunk(), recv, flate.Result{Err: err, Done: true}
			}
			d.Header = d.hdr.Header
			chunk = r.Chunk()
			d.phase = phaseBody

		case phaseBody:
			teed := flate.Fork{A: recv, B: flate.CRC32Sink{Hash: d.crc}}
			rst, out, fres := d.inflater.Input(chunk, teed)
			fork := out.(flate.Fork)
			recv = fork.A
			if fres.Err != nil {
				werr := InflateError{Err: fres.Err}
				d.fail(werr)
				return rst, recv, flate.Result{Err: werr, Done: true}
			}
			if !fres.Done {
				return rst, recv, flate.Result{}
			}
			chunk = rst
			d.phase = phaseTrailer

		case phaseTrailer:
			r := bitio.NewByteReader(&d.byteBuf, chunk)
			if !r.HasBytes(8) {
				r.Unread()
				return nil, recv, flate.Result{}
			}
			wantCRC, _ := r.ReadU32LE()
			wantSize, _ := r.ReadU32LE()
			gotCRC := d.crc.Sum32()
			gotSize := uint32(d.inflater.BytesProduced())
			if wantCRC != gotCRC {
				verr := BadDataChecksumError{Want: wantCRC, Got: gotCRC}
				d.fail(verr)
				return r.Chunk(), recv, flate.Result{Err: verr, Done: true}
			}
			if wantSize != gotSize {
				verr := BadDataSizeError{Want: wantSize, Got: gotSize}
				d.fail(verr)
				return r.Chunk(), recv, flate.Result{Err: verr, Done: true}
			}
			chunk = r.Chunk()
			d.phase = phaseDone
			return chunk, recv, flate.Result{Done: true}

		case phaseDone, phaseErrored:
			return chunk, recv, flate.Result{Err: d.err, Done: true}
		}
	}
}

func (d *Decoder) fail(err error) {
	d.err = err
	d.phase = phaseErrored
}

// HasFinished reports whether the stream reached a terminal state.
func (d *Decoder) HasFinished() bool {
	return d.phase == phaseDone || d.phase == phaseErrored
}
