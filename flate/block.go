package flate

import (
	"github.com/jonjohnsonjr/inflate/bitio"
	"github.com/jonjohnsonjr/inflate/huffman"
)

// decodeSymbol walks tree one bit at a time via w, consuming only as many
// bits as are available. It returns done=false (with a nil error) rather
// than blocking when input runs dry mid-code — the caller is expected to
// treat that as "need more input" and resume later with the same w, which
// is exactly what makes Huffman decoding safe to suspend at an arbitrary
// bit boundary.
func decodeSymbol(br *bitio.BitReader, tree *huffman.Tree, w *huffman.Walker) (sym int, done bool, err error) {
	for {
		if !br.HasBits(1) {
			return 0, false, nil
		}
		bit, _ := br.ReadBits(1)
		sym, done, err = tree.Step(w, bit)
		if err != nil {
			return 0, false, err
		}
		if done {
			return sym, true, nil
		}
	}
}

// storedBlock implements RFC 1951 §4.F: a byte-aligned, uncompressed
// passthrough block.
type storedBlock struct {
	haveLen   bool
	remaining int
}

func (s *storedBlock) reset() {
	*s = storedBlock{}
}

// run reads LEN/NLEN on first entry, then copies s.remaining bytes to the
// window in whatever chunks the input offers, resuming at exactly the byte
// granularity the spec requires.
func (s *storedBlock) run(br *bitio.BitReader, win *Window, recv Receiver) (Receiver, bool, error) {
	if !s.haveLen {
		br.SkipToByte()
		if !br.HasBytes(4) {
			return recv, false, errNeedMore
		}
		lenLo, _ := br.ReadU16LE()
		nlenLo, _ := br.ReadU16LE()
		if nlenLo != ^lenLo {
			return recv, false, LengthMismatchError{Len: lenLo, NLen: nlenLo}
		}
		s.remaining = int(lenLo)
		s.haveLen = true
	}

	for s.remaining > 0 {
		chunk := br.ReadByteChunk(s.remaining)
		if len(chunk) == 0 {
			return recv, false, errNeedMore
		}
		recv = win.EmitLiteralChunk(chunk, recv)
		s.remaining -= len(chunk)
	}
	return recv, true, nil
}

type cbPhase int

const (
	cbLitlenCode cbPhase = iota
	cbLenExtra
	cbDistCode
	cbDistExtra
)

// compressedBlock is the shared litlen/length/distance engine RFC 1951
// §3.2.5 describes, used by both fixed and dynamic blocks: only the trees
// (and, for fixed blocks, the straight 5-bit distance read) differ.
type compressedBlock struct {
	litlen *huffman.Tree
	dist   *huffman.Tree // nil means fixed block: distance is a raw 5-bit reversed read.

	phase   cbPhase
	walker  huffman.Walker
	lenSym  int
	length  int
	distSym int
}

func (c *compressedBlock) reset(litlen, dist *huffman.Tree) {
	*c = compressedBlock{litlen: litlen, dist: dist}
}

// run advances the block as far as available input allows, emitting
// literals and back-references to win/recv as it goes. It returns
// done=true once the end-of-block symbol (256) is decoded.
func (c *compressedBlock) run(br *bitio.BitReader, win *Window, recv Receiver) (Receiver, bool, error) {
	for {
		switch c.phase {
		case cbLitlenCode:
			sym, ok, err := decodeSymbol(br, c.litlen, &c.walker)
			if err != nil {
				return recv, false, err
			}
			if !ok {
				return recv, false, errNeedMore
			}
			switch {
			case sym < 256:
				recv = win.EmitLiteral(byte(sym), recv)
			case sym == 256:
				return recv, true, nil
			case sym <= 285:
				idx := sym - 257
				c.lenSym = sym
				if lengthExtra[idx] == 0 {
					c.length = lengthBase[idx]
					c.phase = cbDistCode
				} else {
					c.phase = cbLenExtra
				}
			default:
				return recv, false, BadLitlenCodeError{Code: sym}
			}

		case cbLenExtra:
			idx := c.lenSym - 257
			n := uint(lengthExtra[idx])
			if !br.HasBits(n) {
				return recv, false, errNeedMore
			}
			extra, _ := br.ReadBits(n)
			c.length = lengthBase[idx] + int(extra)
			c.phase = cbDistCode

		case cbDistCode:
			var sym int
			if c.dist == nil {
				if !br.HasBits(5) {
					return recv, false, errNeedMore
				}
				v, _ := br.ReadRevBits(5)
				sym = int(v)
			} else {
				s, ok, err := decodeSymbol(br, c.dist, &c.walker)
				if err != nil {
					return recv, false, err
				}
				if !ok {
					return recv, false, errNeedMore
				}
				sym = s
			}
			if sym > 29 {
				return recv, false, BadDistCodeError{Code: sym}
			}
			c.distSym = sym
			if distExtra[sym] == 0 {
				r, err := win.BackReference(distBase[sym], c.length, recv)
				if err != nil {
					return recv, false, err
				}
				recv = r
				c.phase = cbLitlenCode
			} else {
				c.phase = cbDistExtra
			}

		case cbDistExtra:
			n := uint(distExtra[c.distSym])
			if !br.HasBits(n) {
				return recv, false, errNeedMore
			}
			extra, _ := br.ReadBits(n)
			dist := distBase[c.distSym] + int(extra)
			r, err := win.BackReference(dist, c.length, recv)
			if err != nil {
				return recv, false, err
			}
			recv = r
			c.phase = cbLitlenCode
		}
	}
}
