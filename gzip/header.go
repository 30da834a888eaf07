package gzip

import (
	"github.com/jonjohnsonjr/inflate/bitio"
	"github.com/jonjohnsonjr/inflate/checksum"
)

// Header holds the gzip member header fields a caller might want to
// inspect (RFC 1952 §2.3). FNAME and FCOMMENT are exposed both as raw
// bytes and as a best-effort ISO-8859-1 decode: the RFC declares them
// ISO-8859-1, but since every byte value 0..255 is a valid ISO-8859-1 code
// point (and maps one-to-one onto the same-numbered Unicode code point),
// the decode never fails even on non-ASCII input.
type Header struct {
	MTime uint32
	XFL   byte
	OS    byte

	Extra []byte // raw, concatenated (SI1, SI2, LEN, data) sub-fields, or nil if FEXTRA absent

	HasName    bool
	NameRaw    []byte
	Name       string
	HasComment bool
	CommentRaw []byte
	Comment    string
}

func latin1ToString(b []byte) string {
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return string(rs)
}

type hdrPhase int

const (
	hdrMagicCM hdrPhase = iota
	hdrFlagsAndTime
	hdrExtraLen
	hdrExtraSub
	hdrName
	hdrComment
	hdrHCRC
	hdrDone
)

const (
	flagFTEXT    = 1 << 0
	flagFHCRC    = 1 << 1
	flagFEXTRA   = 1 << 2
	flagFNAME    = 1 << 3
	flagFCOMMENT = 1 << 4
)

// headerReader decodes a gzip member header incrementally, suspending
// cleanly at any field boundary (and, for FEXTRA/FNAME/FCOMMENT, at any
// byte within a field).
type headerReader struct {
	phase hdrPhase
	flg   byte
	hcrc  *checksum.CRC32

	extraRemaining int
	extraBuf       []byte
	subNeedHeader  bool
	subLen         int

	nameBuf    []byte
	commentBuf []byte

	Header Header
}

func newHeaderReader() *headerReader {
	return &headerReader{hcrc: checksum.NewCRC32(), subNeedHeader: true}
}

// run advances header decoding as far as r's available bytes allow. It
// returns errNeedMore on a clean suspend, any other error as terminal, and
// nil once h.phase == hdrDone and h.Header is populated.
func (h *headerReader) run(r *bitio.ByteReader) error {
	for {
		switch h.phase {
		case hdrMagicCM:
			if !r.HasBytes(3) {
				return errNeedMore
			}
			b0, _ := r.ReadByte()
			b1, _ := r.ReadByte()
			cm, _ := r.ReadByte()
			if b0 != 0x1F || b1 != 0x8B {
				return BadMagicNumberError{Got: [2]byte{b0, b1}}
			}
			if cm != 8 {
				return BadCompressionMethodError{CM: cm}
			}
			h.hcrc.Update([]byte{b0, b1, cm})
			h.phase = hdrFlagsAndTime

		case hdrFlagsAndTime:
			if !r.HasBytes(7) {
				return errNeedMore
			}
			flg, _ := r.ReadByte()
			if flg&(0x20|0x40|0x80) != 0 {
				for bit := 5; bit <= 7; bit++ {
					if flg&(1<<uint(bit)) != 0 {
						return ReservedFlagUsedError{Bit: bit}
					}
				}
			}
			mtime, _ := r.ReadU32LE()
			xfl, _ := r.ReadByte()
			os, _ := r.ReadByte()
			h.flg = flg
			h.Header.MTime = mtime
			h.Header.XFL = xfl
			h.Header.OS = os
			h.hcrc.Update([]byte{
				flg,
				byte(mtime), byte(mtime >> 8), byte(mtime >> 16), byte(mtime >> 24),
				xfl, os,
			})
			h.phase = hdrExtraLen

		case hdrExtraLen:
			if h.flg&flagFEXTRA == 0 {
				h.phase = hdrName
				continue
			}
			if !r.HasBytes(2) {
				return errNeedMore
			}
			xlen, _ := r.ReadU16LE()
			h.hcrc.Update([]byte{byte(xlen), byte(xlen >> 8)})
			h.extraRemaining = int(xlen)
			h.phase = hdrExtraSub

		case hdrExtraSub:
			for h.extraRemaining > 0 {
				if h.subNeedHeader {
					if h.extraRemaining < 4 {
						return TrailingExtraBytesError{Remaining: h.extraRemaining}
					}
					if !r.HasBytes(4) {
						return errNeedMore
					}
					si1, _ := r.ReadByte()
					si2, _ := r.ReadByte()
					length, _ := r.ReadU16LE()
					h.hcrc.Update([]byte{si1, si2, byte(length), byte(length >> 8)})
					h.extraBuf = append(h.extraBuf, si1, si2, byte(length), byte(length>>8))
					h.extraRemaining -= 4
					h.subLen = int(length)
					h.subNeedHeader = false
				}
				if h.subLen > h.extraRemaining {
					return ExtraTooLongError{}
				}
				if !r.HasBytes(h.subLen) {
					return errNeedMore
				}
				data := make([]byte, h.subLen)
				for i := range data {
					data[i], _ = r.ReadByte()
				}
				h.hcrc.Update(data)
				h.extraBuf = append(h.extraBuf, data...)
				h.extraRemaining -= h.subLen
				h.subLen = 0
				h.subNeedHeader = true
			}
			if h.extraRemaining != 0 {
				return TrailingExtraBytesError{Remaining: h.extraRemaining}
			}
			h.Header.Extra = h.extraBuf
			h.phase = hdrName

		case hdrName:
			if h.flg&flagFNAME == 0 {
				h.phase = hdrComment
				continue
			}
			done, err := h.readNulTerminated(r, &h.nameBuf)
			if err != nil || !done {
				return err
			}
			h.Header.HasName = true
			h.Header.NameRaw = h.nameBuf
			h.Header.Name = latin1ToString(h.nameBuf)
			h.phase = hdrComment

		case hdrComment:
			if h.flg&flagFCOMMENT == 0 {
				h.phase = hdrHCRC
				continue
			}
			done, err := h.readNulTerminated(r, &h.commentBuf)
			if err != nil || !done {
				return err
			}
			h.Header.HasComment = true
			h.Header.CommentRaw = h.commentBuf
			h.Header.Comment = latin1ToString(h.commentBuf)
			h.phase = hdrHCRC

		case hdrHCRC:
			if h.flg&flagFHCRC == 0 {
				h.phase = hdrDone
				continue
			}
			if !r.HasBytes(2) {
				return errNeedMore
			}
			want, _ := r.ReadU16LE()
			got := uint16(h.hcrc.Sum32())
			if want != got {
				return BadHeaderChecksumError{Want: want, Got: got}
			}
			h.phase = hdrDone

		case hdrDone:
			return nil
		}
	}
}

// readNulTerminated accumulates bytes from r into *buf until a NUL
// terminator is found (consumed but not included), folding every consumed
// byte (including the terminator) into the running header checksum.
func (h *headerReader) readNulTerminated(r *bitio.ByteReader, buf *[]byte) (done bool, err error) {
	avail := r.Chunk()
	idx := -1
	for i, b := range avail {
		if b == 0 {
			idx = i
			break
		}
	}
	if idx < 0 {
		*buf = append(*buf, avail...)
		h.hcrc.Update(avail)
		for range avail {
			r.ReadByte()
		}
		return false, errNeedMore
	}
	*buf = append(*buf, avail[:idx]...)
	h.hcrc.Update(avail[:idx+1])
	for i := 0; i <= idx; i++ {
		r.ReadByte()
	}
	return true, nil
}
