package flate

import (
	"github.com/jonjohnsonjr/inflate/bitio"
	"github.com/jonjohnsonjr/inflate/huffman"
)

type dynPhase int

const (
	dynCounts dynPhase = iota
	dynClLengths
	dynCodeLengths
	dynCodeLengthExtra
	dynDone
)

// dynHeader decodes a dynamic block's Huffman header (RFC 1951 §3.2.7):
// HLIT/HDIST/HCLEN, the meta-tree describing how the real code lengths are
// RLE-compressed, then the litlen and distance code-length vectors
// themselves — at which point it builds both trees and hands them to the
// compressed-block engine.
type dynHeader struct {
	phase dynPhase

	hlit, hdist, hclen int
	clIdx              int
	clLengths          [19]int

	metaTree *huffman.Tree
	walker   huffman.Walker

	lengths    []int
	lenIdx     int
	havePrev   bool
	prevLen    int
	pendingSym int

	LitLen *huffman.Tree
	Dist   *huffman.Tree
}

func (d *dynHeader) reset() {
	*d = dynHeader{}
}

// run advances the dynamic-header decode as far as the available input
// allows. It returns errNeedMore when it runs out of bits mid-field; any
// other error is a terminal decode failure. On success (err == nil) d.LitLen
// and d.Dist are ready to use and d.phase == dynDone.
func (d *dynHeader) run(br *bitio.BitReader) error {
	for {
		switch d.phase {
		case dynCounts:
			if !br.HasBits(14) {
				return errNeedMore
			}
			hlit, _ := br.ReadBits(5)
			hdist, _ := br.ReadBits(5)
			hclen, _ := br.ReadBits(4)
			d.hlit = int(hlit) + 257
			d.hdist = int(hdist) + 1
			d.hclen = int(hclen) + 4
			d.phase = dynClLengths

		case dynClLengths:
			for d.clIdx < d.hclen {
				if !br.HasBits(3) {
					return errNeedMore
				}
				v, _ := br.ReadBits(3)
				d.clLengths[codeLengthOrder[d.clIdx]] = int(v)
				d.clIdx++
			}
			tree, err := huffman.Build(d.clLengths[:])
			if err != nil {
				return err
			}
			d.metaTree = tree
			d.lengths = make([]int, d.hlit+d.hdist)
			d.phase = dynCodeLengths

		case dynCodeLengths:
			for d.lenIdx < len(d.lengths) {
				sym, done, err := decodeSymbol(br, d.metaTree, &d.walker)
				if err != nil {
					return err
				}
				if !done {
					return errNeedMore
				}
				if sym >= 16 {
					d.pendingSym = sym
					d.phase = dynCodeLengthExtra
					break
				}
				d.lengths[d.lenIdx] = sym
				d.lenIdx++
				d.havePrev = true
				d.prevLen = sym
			}
			if d.lenIdx >= len(d.lengths) {
				d.phase = dynDone
			}

		case dynCodeLengthExtra:
			if err := d.applyRepeat(br); err != nil {
				return err
			}
			d.phase = dynCodeLengths

		case dynDone:
			if d.LitLen == nil {
				litLengths := d.lengths[:d.hlit]
				distLengths := d.lengths[d.hlit:]
				lt, err := huffman.Build(litLengths)
				if err != nil {
					return err
				}
				dt, err := huffman.Build(distLengths)
				if err != nil {
					return err
				}
				d.LitLen = lt
				d.Dist = dt
			}
			return nil
		}
	}
}

// applyRepeat handles meta-codes 16 (repeat previous length), 17 (zero run,
// short), and 18 (zero run, long), each of which needs its own fixed count
// of extra bits before the repeat count is known.
func (d *dynHeader) applyRepeat(br *bitio.BitReader) error {
	var extraBits uint
	var base int
	switch d.pendingSym {
	case 16:
		extraBits, base = 2, 3
	case 17:
		extraBits, base = 3, 3
	case 18:
		extraBits, base = 7, 11
	default:
		return BadMetaCodeError{Code: d.pendingSym}
	}

	if !br.HasBits(extraBits) {
		return errNeedMore
	}
	extra, _ := br.ReadBits(extraBits)
	count := base + int(extra)

	if d.pendingSym == 16 && !d.havePrev {
		return MetaCopyAtStartError{}
	}

	remaining := len(d.lengths) - d.lenIdx
	if count > remaining {
		return MetaRepeatTooLongError{Value: d.pendingSym, Requested: count, Remaining: remaining}
	}

	var fill int
	if d.pendingSym == 16 {
		fill = d.prevLen
	} else {
		fill = 0
	}
	for i := 0; i < count; i++ {
		d.lengths[d.lenIdx] = fill
		d.lenIdx++
	}
	if count > 0 {
		d.havePrev = true
		d.prevLen = fill
	}
	return nil
}
