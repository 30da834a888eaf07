package checksum

// ieeePoly is the reflected form of the CRC-32 polynomial gzip uses (RFC
// 1952 §8), the same IEEE 802.3 polynomial as Ethernet and zip. Reflected
// means the table is built and consumed LSB-first, which happens to match
// the natural direction DEFLATE's own bit-reversal tricks use elsewhere in
// this module (see bitio.ReadRevBits) — unlike bzip2's CRC-32, which runs
// MSB-first and needs the bits reversed going in and out (the technique
// cosnicolaou-pbzip2's internal/bzip2/crc.go uses via bits.Reverse8/32).
// gzip's variant needs no such reversal, since the table itself already
// encodes the reflection.
const ieeePoly = 0xEDB88320

var crc32Table [256]uint32

func init() {
	for i := range crc32Table {
		c := uint32(i)
		for range 8 {
			if c&1 != 0 {
				c = ieeePoly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		crc32Table[i] = c
	}
}

// CRC32 accumulates the gzip trailer's CRC-32 (RFC 1952 §8) over a sequence
// of byte slices. Its zero value is ready to use: the checksum of the empty
// sequence is 0, and Sum32 of the zero value correctly reports 0.
type CRC32 struct {
	crc uint32
}

// NewCRC32 returns a CRC32 accumulator in its initial state.
func NewCRC32() *CRC32 {
	return &CRC32{}
}

// Update folds p into the running checksum.
func (h *CRC32) Update(p []byte) {
	crc := h.crc ^ 0xFFFFFFFF
	for _, b := range p {
		crc = crc32Table[byte(crc)^b] ^ (crc >> 8)
	}
	h.crc = crc ^ 0xFFFFFFFF
}

// Sum32 returns the accumulated CRC-32.
func (h *CRC32) Sum32() uint32 {
	return h.crc
}

// Reset returns the accumulator to its initial state.
func (h *CRC32) Reset() {
	h.crc = 0
}
