package fst

// Header layout, little-endian throughout.
//
//	offset 0 : u64 root_offset   (back-patched at Finish; 0 during build)
//	offset 8 : u8  has_output    (0 = set, 1 = map)
//	offset 9 : canonical empty-final node, then the rest of the node stream
const (
	headerRootOffsetPos = 0
	headerHasOutputPos  = 8
	headerSize          = 9
)

// Discriminator byte bit layout for an encoded node.
const (
	flagIsFinal        byte = 1 << 0
	flagTransKindMask  byte = 0b0000_0110
	flagTransKindZero  byte = 0b0000_0000
	flagTransKindOne   byte = 0b0000_0010
	flagTransKindMany  byte = 0b0000_0100
	flagHasFinalOutput byte = 1 << 3
)

// transKind classifies the number of outgoing transitions a node carries,
// matching the 2-bit field at bits 1..2 of the discriminator byte.
type transKind int

const (
	transKindZero transKind = iota
	transKindOne
	transKindMany
)

// minManyTransCount is the smallest transition count that uses the
// "many" encoding (trans_kind == 10, count byte follows).
const minManyTransCount = 2

// maxManyTransCount is the largest transition count representable by the
// single count byte that follows a "many" discriminator.
const maxManyTransCount = 255

// binarySearchThreshold is the transition count at or above which
// find_input must use binary search instead of a linear scan (spec.md
// §4.2: below 8, linear is mandated as branch-predictor friendly).
const binarySearchThreshold = 8
