package bitio

// ByteBuf carries whole bytes that a framing stage couldn't yet use because
// a multi-byte field straddled a chunk boundary. It's the byte-aligned
// sibling of BitBuf, used by the zlib/gzip header and trailer stages which
// never need bit-level access.
type ByteBuf struct {
	pending []byte
}

// ByteReader reads bytes out of a ByteBuf residue followed by a borrowed
// input chunk.
type ByteReader struct {
	bb    *ByteBuf
	chunk []byte
	pos   int
}

// NewByteReader opens a byte-reading view over bb and chunk.
func NewByteReader(bb *ByteBuf, chunk []byte) *ByteReader {
	return &ByteReader{bb: bb, chunk: chunk}
}

// Chunk returns the portion of the input chunk not yet consumed.
func (r *ByteReader) Chunk() []byte {
	return r.chunk[r.pos:]
}

func (r *ByteReader) available() int {
	return len(r.bb.pending) + len(r.chunk) - r.pos
}

// HasBytes reports whether n bytes are available without blocking.
func (r *ByteReader) HasBytes(n int) bool {
	return r.available() >= n
}

func (r *ByteReader) byteAt(i int) byte {
	if i < len(r.bb.pending) {
		return r.bb.pending[i]
	}
	return r.chunk[r.pos+i-len(r.bb.pending)]
}

func (r *ByteReader) advance(n int) {
	if k := len(r.bb.pending); k > 0 {
		if n < k {
			r.bb.pending = r.bb.pending[n:]
			return
		}
		r.bb.pending = nil
		n -= k
	}
	r.pos += n
}

// ReadByte reads a single byte.
func (r *ByteReader) ReadByte() (byte, bool) {
	if r.available() < 1 {
		return 0, false
	}
	b := r.byteAt(0)
	r.advance(1)
	return b, true
}

// ReadU16LE reads a 16-bit little-endian integer.
func (r *ByteReader) ReadU16LE() (uint16, bool) {
	if r.available() < 2 {
		return 0, false
	}
	v := uint16(r.byteAt(0)) | uint16(r.byteAt(1))<<8
	r.advance(2)
	return v, true
}

// ReadU32LE reads a 32-bit little-endian integer.
func (r *ByteReader) ReadU32LE() (uint32, bool) {
	if r.available() < 4 {
		return 0, false
	}
	v := uint32(r.byteAt(0)) | uint32(r.byteAt(1))<<8 | uint32(r.byteAt(2))<<16 | uint32(r.byteAt(3))<<24
	r.advance(4)
	return v, true
}

// ReadU16BE reads a 16-bit big-endian integer.
func (r *ByteReader) ReadU16BE() (uint16, bool) {
	if r.available() < 2 {
		return 0, false
	}
	v := uint16(r.byteAt(0))<<8 | uint16(r.byteAt(1))
	r.advance(2)
	return v, true
}

// ReadU32BE reads a 32-bit big-endian integer.
func (r *ByteReader) ReadU32BE() (uint32, bool) {
	if r.available() < 4 {
		return 0, false
	}
	v := uint32(r.byteAt(0))<<24 | uint32(r.byteAt(1))<<16 | uint32(r.byteAt(2))<<8 | uint32(r.byteAt(3))
	r.advance(4)
	return v, true
}

// Unread parks whatever part of the current input chunk hasn't been
// consumed back into the ByteBuf residue and marks it as consumed from this
// reader's point of view. Callers that discover they can't satisfy a
// HasBytes precondition use this to suspend cleanly: the unread bytes
// reappear at the front of the next ByteReader opened over the same
// ByteBuf.
func (r *ByteReader) Unread() {
	if rest := r.chunk[r.pos:]; len(rest) > 0 {
		r.bb.pending = append(r.bb.pending, rest...)
	}
	r.pos = len(r.chunk)
}

// ConsumeChunk hands body the full run of currently-available bytes (pending
// residue followed by chunk). body returns its result plus, optionally, a
// tail of unconsumed bytes to carry forward as the new residue (nil means
// everything was consumed). This lets a stage delegate bulk scanning (e.g.
// a NUL-terminated gzip field name) without the caller worrying about where
// exactly the chunk ended.
func ConsumeChunk[T any](r *ByteReader, body func(available []byte) (result T, rest []byte)) T {
	var combined []byte
	if len(r.bb.pending) > 0 {
		combined = make([]byte, 0, len(r.bb.pending)+len(r.chunk)-r.pos)
		combined = append(combined, r.bb.pending...)
		combined = append(combined, r.chunk[r.pos:]...)
	} else {
		combined = r.chunk[r.pos:]
	}

	result, rest := body(combined)
	if rest != nil {
		r.bb.pending = append([]byte(nil), rest...)
	} else {
		r.bb.pending = nil
	}
	r.pos = len(r.chunk)
	return result
}
