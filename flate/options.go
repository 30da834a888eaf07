package flate

// Option configures an Inflater at construction time, following the same
// functional-options shape pbzip2's reader package uses for its decoder.
type Option func(*config)

type config struct {
	checkpoints bool
}

// WithCheckpoints enables Inflater.Checkpoint. It's opt-in and off by
// default: most callers never need to rewind a decoder mid-stream, and
// turning it on buys nothing by itself (Checkpoint is always a cheap value
// copy) beyond documenting, at the call site, that the caller intends to
// keep checkpoints around and should be able to rely on Checkpoint not
// being a silent no-op.
func WithCheckpoints(enabled bool) Option {
	return func(c *config) {
		c.checkpoints = enabled
	}
}

// Checkpoint is a snapshot of an Inflater's full resumable state: bit/byte
// residues, sliding window contents, and whichever block sub-decoder is
// active. It holds no references to the chunk that was being processed
// when it was taken — only what's needed to pick decoding back up from
// that exact point given the rest of the stream.
type Checkpoint struct {
	state Inflater
	valid bool
}

// Checkpoint captures the Inflater's current state. It panics if the
// Inflater wasn't constructed with WithCheckpoints(true), since a silently
// empty Checkpoint would be a worse failure mode than a clear one.
func (f *Inflater) Checkpoint() Checkpoint {
	if !f.cfg.checkpoints {
		panic("flate: Checkpoint called without WithCheckpoints(true)")
	}
	return Checkpoint{state: *f, valid: true}
}

// Restore returns a new Inflater resuming exactly from where Checkpoint was
// taken.
func (c Checkpoint) Restore() *Inflater {
	if !c.valid {
		panic("flate: Restore called on a zero-value Checkpoint")
	}
	state := c.state
	return &state
}
