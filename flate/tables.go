package flate

import "github.com/jonjohnsonjr/inflate/huffman"

// lengthBase and lengthExtra implement the length-code table of RFC 1951
// §3.2.5, indexed by (litlen symbol - 257).
var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtra = [29]int{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase and distExtra implement the distance-code table of RFC 1951
// §3.2.5, indexed by distance symbol (0..29).
var distBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtra = [30]int{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// codeLengthOrder is the order HCLEN's 3-bit code lengths are written in,
// chosen by the format so that the most commonly present codes (16, 17,
// 18, 0 — repeat and zero-run markers) come first and can be omitted from
// the back when absent (RFC 1951 §3.2.7).
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// fixedLitLenTree implements the fixed literal/length alphabet of RFC 1951
// §3.2.6, which needs a tree since its codes span three different lengths
// (7, 8, 9 bits). The fixed distance alphabet's codes are all exactly 5 bits
// and, once bit-reversed, equal the symbol number directly, so no tree is
// built for it: compressedBlock reads it inline.
var fixedLitLenTree *huffman.Tree

func init() {
	lengths := make([]int, 288)
	for i := 0; i < 144; i++ {
		lengths[i] = 8
	}
	for i := 144; i < 256; i++ {
		lengths[i] = 9
	}
	for i := 256; i < 280; i++ {
		lengths[i] = 7
	}
	for i := 280; i < 288; i++ {
		lengths[i] = 8
	}
	tree, err := huffman.Build(lengths)
	if err != nil {
		panic("flate: fixed literal/length tree failed to build: " + err.Error())
	}
	fixedLitLenTree = tree
}
