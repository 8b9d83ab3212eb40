package fst

import (
	"encoding/binary"
	"fmt"
)

// Transition is one outgoing edge of a node: reading input_byte from this
// node adds output_delta to the running output accumulator and moves to
// the node at target_offset.
type Transition struct {
	Input  byte
	Output uint64
	Target uint64
}

// transSize returns the on-disk size in bytes of one transition triple.
func transSize(hasOutput bool) int {
	if hasOutput {
		return 1 + 8 + 8
	}
	return 1 + 8
}

// encodeNode writes one node to w in the wire format from spec.md §4.1 and
// returns the file offset its discriminator byte was written at.
//
// transitions must already be sorted strictly ascending by Input; callers
// (the Builder) are responsible for that invariant.
func encodeNode(w *outputStream, isFinal bool, finalOutput uint64, transitions []Transition, hasOutput bool) (uint64, error) {
	offset := w.TotalBytesWritten()

	buf, err := nodePayload(isFinal, finalOutput, transitions, hasOutput)
	if err != nil {
		return 0, err
	}

	if err := w.Write(buf); err != nil {
		return 0, fmt.Errorf("fst: writing node at offset %d: %w", offset, err)
	}
	return offset, nil
}

// nodePayload builds the exact on-disk byte sequence for a node, without
// writing it anywhere. The Builder's dedup cache uses this same byte
// sequence as its structural fingerprint, so two nodes that would encode
// identically always compare equal — there is no hash-collision risk.
func nodePayload(isFinal bool, finalOutput uint64, transitions []Transition, hasOutput bool) ([]byte, error) {
	hasFinalOutput := isFinal && hasOutput && finalOutput != 0

	disc := byte(0)
	if isFinal {
		disc |= flagIsFinal
	}
	switch {
	case len(transitions) == 0:
		disc |= flagTransKindZero
	case len(transitions) == 1:
		disc |= flagTransKindOne
	default:
		disc |= flagTransKindMany
	}
	if hasFinalOutput {
		disc |= flagHasFinalOutput
	}

	buf := make([]byte, 0, 1+8+1+len(transitions)*(1+8+8))
	buf = append(buf, disc)

	if hasFinalOutput {
		buf = binary.LittleEndian.AppendUint64(buf, finalOutput)
	}

	switch {
	case len(transitions) == 0:
		// nothing further
	case len(transitions) == 1:
		buf = appendTransition(buf, transitions[0], hasOutput)
	default:
		if len(transitions) > maxManyTransCount {
			return nil, fmt.Errorf("fst: node has %d transitions, max %d: %w", len(transitions), maxManyTransCount, WriteError)
		}
		buf = append(buf, byte(len(transitions)))
		for _, t := range transitions {
			buf = appendTransition(buf, t, hasOutput)
		}
	}
	return buf, nil
}

func appendTransition(buf []byte, t Transition, hasOutput bool) []byte {
	buf = append(buf, t.Input)
	if hasOutput {
		buf = binary.LittleEndian.AppendUint64(buf, t.Output)
	}
	buf = binary.LittleEndian.AppendUint64(buf, t.Target)
	return buf
}

// DecodedNode is a read-only view of one node materialized from an mmap
// slice. It is cheap to construct (one discriminator byte decode); the
// transition list is accessed on demand by index, never copied out.
type DecodedNode struct {
	data        []byte
	hasOutput   bool
	isFinal     bool
	finalOutput uint64
	transCount  int
	transStart  int // byte index into data where the transition list begins
}

// decodeNode reads the node whose discriminator byte sits at offset within
// data, interpreting transition outputs only if hasOutput is set (map
// mode).
func decodeNode(data []byte, offset uint64, hasOutput bool) (DecodedNode, error) {
	if offset >= uint64(len(data)) {
		return DecodedNode{}, fmt.Errorf("fst: node offset %d out of bounds: %w", offset, FormatError)
	}
	pos := int(offset)
	disc := data[pos]
	pos++

	isFinal := disc&flagIsFinal != 0
	kind := (disc & flagTransKindMask) >> 1
	hasFinalOutput := hasOutput && disc&flagHasFinalOutput != 0

	if kind > 2 {
		return DecodedNode{}, fmt.Errorf("fst: node at offset %d has invalid trans kind %d: %w", offset, kind, FormatError)
	}

	var finalOutput uint64
	if hasFinalOutput {
		if pos+8 > len(data) {
			return DecodedNode{}, fmt.Errorf("fst: node at offset %d: truncated final output: %w", offset, FormatError)
		}
		finalOutput = binary.LittleEndian.Uint64(data[pos : pos+8])
		pos += 8
	}

	var transCount int
	switch kind {
	case 0:
		transCount = 0
	case 1:
		transCount = 1
	case 2:
		if pos >= len(data) {
			return DecodedNode{}, fmt.Errorf("fst: node at offset %d: truncated trans count: %w", offset, FormatError)
		}
		transCount = int(data[pos])
		pos++
		if transCount < minManyTransCount {
			return DecodedNode{}, fmt.Errorf("fst: node at offset %d: many-trans count %d below minimum: %w", offset, transCount, FormatError)
		}
	}

	tSize := transSize(hasOutput)
	if pos+transCount*tSize > len(data) {
		return DecodedNode{}, fmt.Errorf("fst: node at offset %d: truncated transition list: %w", offset, FormatError)
	}

	return DecodedNode{
		data:        data,
		hasOutput:   hasOutput,
		isFinal:     isFinal,
		finalOutput: finalOutput,
		transCount:  transCount,
		transStart:  pos,
	}, nil
}

// IsFinal reports whether the node represents the end of an inserted key.
func (n DecodedNode) IsFinal() bool { return n.isFinal }

// FinalOutput is the output contribution stored at the node itself, valid
// only when IsFinal is true.
func (n DecodedNode) FinalOutput() uint64 { return n.finalOutput }

// TransCount returns the number of outgoing transitions.
func (n DecodedNode) TransCount() int { return n.transCount }

// Transition decodes and returns the i-th outgoing transition, in
// ascending Input order.
func (n DecodedNode) Transition(i int) Transition {
	tSize := transSize(n.hasOutput)
	pos := n.transStart + i*tSize
	t := Transition{Input: n.data[pos]}
	pos++
	if n.hasOutput {
		t.Output = binary.LittleEndian.Uint64(n.data[pos : pos+8])
		pos += 8
	}
	t.Target = binary.LittleEndian.Uint64(n.data[pos : pos+8])
	return t
}

// FindInput locates the transition for input byte b. If found, it returns
// its index and true. Otherwise it returns the index of the first
// transition whose Input is greater than b (the sorted insertion point)
// and false.
//
// Below binarySearchThreshold transitions, a linear scan is used (mandated
// by spec.md §4.2 as branch-predictor friendly for small fan-out); at or
// above it, binary search is used.
func (n DecodedNode) FindInput(b byte) (int, bool) {
	if n.transCount < binarySearchThreshold {
		for i := 0; i < n.transCount; i++ {
			in := n.inputAt(i)
			if in == b {
				return i, true
			}
			if in > b {
				return i, false
			}
		}
		return n.transCount, false
	}

	lo, hi := 0, n.transCount
	for lo < hi {
		mid := (lo + hi) / 2
		in := n.inputAt(mid)
		switch {
		case in == b:
			return mid, true
		case in < b:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// inputAt reads only the input byte of the i-th transition, without
// decoding its output/target fields.
func (n DecodedNode) inputAt(i int) byte {
	tSize := transSize(n.hasOutput)
	return n.data[n.transStart+i*tSize]
}
