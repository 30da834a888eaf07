// Package flate implements a streaming, resumable decoder for the DEFLATE
// bitstream (RFC 1951). An Inflater can be fed arbitrarily sized chunks of
// compressed input — a single byte at a time is fine — and suspends and
// resumes at any bit boundary with no loss of state.
package flate

import "github.com/jonjohnsonjr/inflate/bitio"

type phase int

const (
	phaseBlockHeader phase = iota
	phaseStored
	phaseFixed
	phaseDynamicHeader
	phaseDynamic
	phaseDone
	phaseErrored
)

// Result reports the outcome of a single Inflater.Input call.
type Result struct {
	// Err is set once the stream is unrecoverably malformed. Every
	// subsequent Input call returns the same Err without consuming
	// anything further.
	Err error
	// Done is true once the final DEFLATE block has been fully decoded,
	// or once Err is set.
	Done bool
}

// Inflater decodes a single DEFLATE stream (RFC 1951 §3.2.3's sequence of
// blocks terminated by BFINAL). Its zero value is not usable; construct one
// with NewInflater.
type Inflater struct {
	cfg config

	bitBuf bitio.BitBuf
	window Window

	phase     phase
	lastBlock bool

	stored     storedBlock
	compressed compressedBlock
	dynHeader  dynHeader

	err      error
	consumed uint64
}

// NewInflater returns an Inflater ready to decode a fresh DEFLATE stream.
func NewInflater(opts ...Option) *Inflater {
	f := &Inflater{}
	for _, opt := range opts {
		opt(&f.cfg)
	}
	return f
}

// Input feeds chunk to the decoder and threads recv through every byte it
// manages to decode from it. It consumes as much of chunk as the current
// input allows:
//
//   - If the stream isn't finished and chunk ran out mid-field, rest is
//     empty and result.Done is false: call Input again with more data.
//   - If the stream finished (or errored) partway through chunk, rest is
//     the unconsumed suffix and result.Done is true.
//
// recv2, the returned receiver, is whatever chain of Receive calls recv
// produced; pass it back into the next Input call to keep threading it.
func (f *Inflater) Input(chunk []byte, recv Receiver) (rest []byte, recv2 Receiver, result Result) {
	if f.err != nil {
		return chunk, recv, Result{Err: f.err, Done: true}
	}
	if f.phase == phaseDone {
		return chunk, recv, Result{Done: true}
	}

	before := len(chunk)
	var leftover []byte
	out := bitio.WithBuf(&f.bitBuf, chunk, func(br *bitio.BitReader) Receiver {
		r := f.run(br, recv)
		leftover = br.Chunk()
		return r
	})
	f.consumed += uint64(before - len(leftover))

	return leftover, out, Result{Err: f.err, Done: f.HasFinished()}
}

// run drives the block-sequencing state machine until either input runs
// out or the stream reaches a terminal state.
func (f *Inflater) run(br *bitio.BitReader, recv Receiver) Receiver {
	for {
		switch f.phase {
		case phaseBlockHeader:
			if !br.HasBits(3) {
				return recv
			}
			final, _ := br.ReadBits(1)
			btype, _ := br.ReadBits(2)
			f.lastBlock = final == 1
			switch btype {
			case 0:
				f.stored.reset()
				f.phase = phaseStored
			case 1:
				f.compressed.reset(fixedLitLenTree, nil)
				f.phase = phaseFixed
			case 2:
				f.dynHeader.reset()
				f.phase = phaseDynamicHeader
			default:
				f.fail(BadBlockTypeError{Type: int(btype)})
				return recv
			}

		case phaseStored:
			r, done, err := f.stored.run(br, &f.window, recv)
			recv = r
			if err != nil {
				if err == errNeedMore {
					return recv
				}
				f.fail(err)
				return recv
			}
			if done {
				f.phase = f.nextPhase()
			}

		case phaseFixed, phaseDynamic:
			r, done, err := f.compressed.run(br, &f.window, recv)
			recv = r
			if err != nil {
				if err == errNeedMore {
					return recv
				}
				f.fail(err)
				return recv
			}
			if done {
				f.phase = f.nextPhase()
			}

		case phaseDynamicHeader:
			err := f.dynHeader.run(br)
			if err != nil {
				if err == errNeedMore {
					return recv
				}
				f.fail(err)
				return recv
			}
			f.compressed.reset(f.dynHeader.LitLen, f.dynHeader.Dist)
			f.phase = phaseDynamic

		case phaseDone, phaseErrored:
			return recv
		}
	}
}

func (f *Inflater) nextPhase() phase {
	if f.lastBlock {
		return phaseDone
	}
	return phaseBlockHeader
}

func (f *Inflater) fail(err error) {
	f.err = err
	f.phase = phaseErrored
}

// HasFinished reports whether the stream has reached a terminal state,
// either because every block has been decoded or because it errored.
func (f *Inflater) HasFinished() bool {
	return f.phase == phaseDone || f.phase == phaseErrored
}

// BytesConsumed returns the total number of input bytes consumed across
// every Input call so far. A byte counts once it has left its chunk, even if
// some of its bits are still held in the bit residue.
func (f *Inflater) BytesConsumed() uint64 {
	return f.consumed
}

// BytesProduced returns the total number of decoded bytes emitted to a
// receiver so far.
func (f *Inflater) BytesProduced() uint64 {
	return f.window.totalEmitted
}
