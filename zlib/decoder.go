// Package zlib implements RFC 1950 framing around the flate package's
// DEFLATE decoder: a 2-byte header, the compressed body, and a 4-byte
// big-endian Adler-32 trailer.
package zlib

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

// Decoder decodes a single zlib stream.
type Decoder struct {
	phase phase

	byteBuf  bitio.ByteBuf
	inflater *flate.Inflater
	adler    *checksum.Adler32

	err error
}

// NewDecoder returns a Decoder ready to read a fresh zlib stream. opts are
// forwarded to the underlying flate.Inflater.
func NewDecoder(opts ...flate.Option) *Decoder {
	return &Decoder{
		inflater: flate.NewInflater(opts...),
		adler:    checksum.NewAdler32(),
	}
}

// Input behaves like flate.Inflater.Input, but drives the zlib header,
// body, and trailer in sequence.
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
			if !r.HasBytes(2) {
				r.Unread()
				return nil, recv, flate.Result{}
			}
			cmf, _ := r.ReadByte()
			flg, _ := r.ReadByte()
			if verr := d.validateHeader(cmf, flg); verr != nil {
				d.fail(verr)
				return r.Chunk(), recv, flate.Result{Err: verr, Done: true}
			}
			chunk = r.Chunk()
			d.phase = phaseBody

		case phaseBody:
			teed := flate.Fork{A: recv, B: flate.Adler32Sink{Hash: d.adler}}
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
			if !r.HasBytes(4) {
				r.Unread()
				return nil, recv, flate.Result{}
			}
			want, _ := r.ReadU32BE()
			got := d.adler.Sum32()
			if want != got {
				verr := BadDataChecksumError{Want: want, Got: got}
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

func (d *Decoder) validateHeader(cmf, flg byte) error {
	cm := cmf & 0x0F
	if cm != 8 {
		return BadCompressionMethodError{CM: cm}
	}
	cinfo := cmf >> 4
	if uint(1)<<(8+uint(cinfo)) > 32768 {
		return WindowTooLongError{CInfo: cinfo}
	}
	if (uint16(cmf)*256+uint16(flg))%31 != 0 {
		return BadHeaderChecksumError{CMF: cmf, FLG: flg}
	}
	if flg&0x20 != 0 {
		return DictionaryUsedError{}
	}
	return nil
}

func (d *Decoder) fail(err error) {
	d.err = err
	d.phase = phaseErrored
}

// HasFinished reports whether the stream reached a terminal state.
func (d *Decoder) HasFinished() bool {
	return d.phase == phaseDone || d.phase == phaseErrored
}
