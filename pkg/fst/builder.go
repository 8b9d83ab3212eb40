package fst

import (
	"encoding/binary"
	"fmt"

	"github.com/orchidfst/fst/pkg/fs"
)

// Mode selects whether a Builder produces a map (keys carry u64 values) or
// a set (values are implicitly 0, not stored).
type Mode bool

const (
	ModeSet Mode = false
	ModeMap Mode = true
)

// spineFrame is one still-open node of the build-time spine. The spine is
// an arena ([]spineFrame) of still-open nodes, rather than mutually-owning
// pointers, per spec.md §9's redesign note. spine[i]'s last transition
// logically targets spine[i+1]; freezing pops from the tail.
type spineFrame struct {
	isFinal     bool
	finalOutput uint64
	trans       []Transition
}

// Builder performs streaming FST construction: it accepts keys in
// non-decreasing lexicographic order, maintains the spine of open nodes,
// and freezes (serializes) shared suffixes through the dedup cache as
// soon as a key diverges from the current spine.
type Builder struct {
	out       *outputStream
	hasOutput bool
	dedup     *dedupCache
	spine     []spineFrame
	lastKey   []byte
	finished  bool
}

// NewBuilder prepares f (an empty, writable file) to receive a streamed
// FST build. dedupCacheBytes bounds the memory used for suffix sharing;
// a larger budget finds more sharing opportunities but never changes
// correctness (spec.md §4.1, §5).
func NewBuilder(f fs.File, mode Mode, dedupCacheBytes uint64) (*Builder, error) {
	out := newOutputStream(f)
	hasOutput := bool(mode)

	header := make([]byte, headerSize)
	if hasOutput {
		header[headerHasOutputPos] = 1
	}
	if err := out.Write(header); err != nil {
		return nil, err
	}

	dedup := newDedupCache(dedupCacheBytes)

	// Immediately freeze the canonical empty-final, no-transition,
	// no-output terminal node, so that every trivial final branch
	// encountered later dedups to this one offset.
	payload, err := nodePayload(true, 0, nil, hasOutput)
	if err != nil {
		return nil, err
	}
	offset := out.TotalBytesWritten()
	if err := out.Write(payload); err != nil {
		return nil, err
	}
	dedup.Put(payload, offset)

	return &Builder{
		out:       out,
		hasOutput: hasOutput,
		dedup:     dedup,
		spine:     []spineFrame{{}},
	}, nil
}

// Insert adds key with value to the FST under construction. key must be
// lexicographically greater than or equal to every previously inserted
// key; re-inserting the same key overwrites the value it was last
// assigned. value is ignored (treated as 0) in set mode.
func (b *Builder) Insert(key []byte, value uint64) error {
	if b.finished {
		return fmt.Errorf("fst: insert after finish: %w", ErrClosed)
	}
	if !b.hasOutput {
		value = 0
	}

	nodeIdx := 0
	keyPos := 0
	for keyPos < len(key) {
		frame := &b.spine[nodeIdx]
		if len(frame.trans) == 0 {
			break
		}
		last := &frame.trans[len(frame.trans)-1]
		kb := key[keyPos]

		if kb < last.Input {
			return fmt.Errorf("fst: key byte 0x%02x at position %d precedes previous byte 0x%02x: %w", kb, keyPos, last.Input, OrderViolation)
		}
		if kb > last.Input {
			break
		}

		// Shared-prefix output pushing (spec.md §4.1 step 1): push the
		// minimum of the new value and the existing edge output down
		// onto the edge, and redistribute any excess onto the child's
		// final output and its own outgoing edges, so the edge keeps the
		// smallest common value and the remainder travels deeper where
		// suffix sharing can still apply.
		prefixValue := value
		if last.Output < prefixValue {
			prefixValue = last.Output
		}
		value -= prefixValue
		addPrefixValue := last.Output - prefixValue
		last.Output = prefixValue

		if addPrefixValue > 0 {
			child := &b.spine[nodeIdx+1]
			if child.isFinal {
				child.finalOutput += addPrefixValue
			}
			for i := range child.trans {
				child.trans[i].Output += addPrefixValue
			}
		}

		keyPos++
		nodeIdx++
	}

	if keyPos == len(key) {
		frame := &b.spine[nodeIdx]
		frame.isFinal = true
		frame.finalOutput = value
		b.lastKey = append(b.lastKey[:0], key...)
		return nil
	}

	// Divergence: the spine below nodeIdx is no longer on the path of any
	// future key (keys only increase), so freeze it now and reuse or
	// write its offset into nodeIdx's (until now open) last transition.
	if nodeIdx+1 < len(b.spine) {
		childOffset, err := b.freezeFrom(nodeIdx + 1)
		if err != nil {
			return err
		}
		frame := &b.spine[nodeIdx]
		frame.trans[len(frame.trans)-1].Target = childOffset
		b.spine = b.spine[:nodeIdx+1]
	}

	for ; keyPos < len(key); keyPos++ {
		frame := &b.spine[nodeIdx]
		frame.trans = append(frame.trans, Transition{Input: key[keyPos]})
		b.spine = append(b.spine, spineFrame{})
		nodeIdx++
	}

	tail := &b.spine[nodeIdx]
	tail.isFinal = true
	tail.finalOutput = value
	b.lastKey = append(b.lastKey[:0], key...)
	return nil
}

// freezeFrom serializes spine[start:] depth-first, tail first, patching
// each parent's newly-fixed last-transition target as it goes, and
// returns the offset spine[start] was written (or deduped) at.
func (b *Builder) freezeFrom(start int) (uint64, error) {
	for i := len(b.spine) - 1; i > start; i-- {
		offset, err := b.freezeNode(b.spine[i])
		if err != nil {
			return 0, err
		}
		parent := &b.spine[i-1]
		parent.trans[len(parent.trans)-1].Target = offset
	}
	return b.freezeNode(b.spine[start])
}

// freezeNode writes frame to the output stream, or reuses an earlier
// identical node's offset from the dedup cache.
func (b *Builder) freezeNode(frame spineFrame) (uint64, error) {
	payload, err := nodePayload(frame.isFinal, frame.finalOutput, frame.trans, b.hasOutput)
	if err != nil {
		return 0, err
	}
	if offset, ok := b.dedup.Get(payload); ok {
		return offset, nil
	}
	offset := b.out.TotalBytesWritten()
	if err := b.out.Write(payload); err != nil {
		return 0, fmt.Errorf("fst: writing node at offset %d: %w", offset, err)
	}
	b.dedup.Put(payload, offset)
	return offset, nil
}

// Finish freezes every remaining spine node and back-patches the root
// offset into the header. No further Insert calls are permitted
// afterwards.
func (b *Builder) Finish() error {
	if b.finished {
		return fmt.Errorf("fst: finish called twice: %w", ErrClosed)
	}
	rootOffset, err := b.freezeFrom(0)
	if err != nil {
		return err
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], rootOffset)
	if err := b.out.WriteAt(headerRootOffsetPos, buf[:]); err != nil {
		return err
	}
	if err := b.out.Flush(); err != nil {
		return err
	}
	b.finished = true
	return nil
}
