package fst

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/orchidfst/fst/pkg/fst/automaton"
)

// BoundKind tags the three shapes a range endpoint can take.
type BoundKind int

const (
	BoundUnbounded BoundKind = iota
	BoundIncluded
	BoundExcluded
)

// Bound is one endpoint of a range query: Unbounded, Included(bytes), or
// Excluded(bytes).
type Bound struct {
	Kind  BoundKind
	Bytes []byte
}

// Unbounded returns the endpoint that imposes no restriction.
func Unbounded() Bound { return Bound{Kind: BoundUnbounded} }

// Included returns an endpoint that admits b itself.
func Included(b []byte) Bound { return Bound{Kind: BoundIncluded, Bytes: b} }

// Excluded returns an endpoint that does not admit b itself: as a max
// bound it admits keys below b, as a min bound keys above b.
func Excluded(b []byte) Bound { return Bound{Kind: BoundExcluded, Bytes: b} }

// IsEmpty reports whether the bound carries no bytes at all (Unbounded).
func (b Bound) IsEmpty() bool { return b.Kind == BoundUnbounded }

// IsInclusive reports whether the endpoint itself belongs to the range.
// Unbounded is treated as inclusive of the empty key on the min side.
func (b Bound) IsInclusive() bool { return b.Kind != BoundExcluded }

// exceededByMax reports whether cur has walked past a max bound: strictly
// past an Included endpoint, or at-or-past an Excluded one.
func exceededByMax(cur []byte, max Bound) bool {
	switch max.Kind {
	case BoundUnbounded:
		return false
	case BoundIncluded:
		return bytes.Compare(cur, max.Bytes) > 0
	case BoundExcluded:
		return bytes.Compare(cur, max.Bytes) >= 0
	default:
		return false
	}
}

// Reader opens a built FST file for querying via memory-mapped reads. It
// is immutable once opened: any number of Iterators may walk it
// concurrently, each holding its own traversal stack, as long as the
// Reader is not closed while they are in use (spec.md §5).
type Reader struct {
	fd         int
	data       []byte
	hasOutput  bool
	rootOffset uint64
}

// Open mmaps path and validates its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fst: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("fst: stat %s: %w", path, err)
	}
	size := info.Size()
	if size < headerSize {
		return nil, fmt.Errorf("fst: %s is %d bytes, shorter than the %d-byte header: %w", path, size, headerSize, FormatError)
	}

	fd, err := syscall.Open(path, syscall.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("fst: syscall open %s: %w", path, err)
	}

	data, err := syscall.Mmap(fd, 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("fst: mmap %s: %w", path, err)
	}

	r := &Reader{
		fd:         fd,
		data:       data,
		hasOutput:  data[headerHasOutputPos] != 0,
		rootOffset: binary.LittleEndian.Uint64(data[headerRootOffsetPos : headerRootOffsetPos+8]),
	}
	if r.rootOffset >= uint64(len(data)) {
		syscall.Munmap(data)
		syscall.Close(fd)
		return nil, fmt.Errorf("fst: %s: root offset %d out of bounds: %w", path, r.rootOffset, FormatError)
	}
	return r, nil
}

// Close unmaps the file. Any Iterator still walking this Reader becomes
// unsafe to use after Close returns.
func (r *Reader) Close() error {
	if r.data == nil {
		return nil
	}
	err := syscall.Munmap(r.data)
	r.data = nil
	if cerr := syscall.Close(r.fd); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("fst: close: %w", err)
	}
	return nil
}

// HasOutput reports whether the FST was built in map mode (true) or set
// mode (false).
func (r *Reader) HasOutput() bool { return r.hasOutput }

// root decodes the root node.
func (r *Reader) root() (DecodedNode, error) {
	return r.node(r.rootOffset)
}

func (r *Reader) node(offset uint64) (DecodedNode, error) {
	return decodeNode(r.data, offset, r.hasOutput)
}

// Range returns an Iterator over every key k with min <= k <= max (bound
// semantics per Included/Excluded), unfiltered.
func (r *Reader) Range(min, max Bound) (*Iterator, error) {
	return newIterator(r, min, max, automaton.Always())
}

// Match returns an Iterator equivalent to Range composed with an exact
// match against s.
func (r *Reader) Match(min, max Bound, s string) (*Iterator, error) {
	aut, err := automaton.Str(s)
	if err != nil {
		return nil, fmt.Errorf("fst: match %q: %w", s, err)
	}
	return newIterator(r, min, max, aut)
}

// Prefix returns an Iterator over every key having p as a UTF-8
// code-point prefix, within [min,max].
func (r *Reader) Prefix(min, max Bound, p string) (*Iterator, error) {
	aut, err := automaton.Prefix(p)
	if err != nil {
		return nil, fmt.Errorf("fst: prefix %q: %w", p, err)
	}
	return newIterator(r, min, max, aut)
}

// Fuzzy returns an unbounded Iterator over every key within editDistance
// of s (Levenshtein, or Damerau-Levenshtein when useDamerau is set). When
// sharedPrefixLen > 0, a PrefixAutomaton over the first sharedPrefixLen
// UTF-8 code points of s is intersected in, pruning the search to keys
// sharing that literal prefix.
func (r *Reader) Fuzzy(s string, editDistance, sharedPrefixLen int, useDamerau bool) (*Iterator, error) {
	var fuzzy automaton.Automaton
	var err error
	if useDamerau {
		fuzzy, err = automaton.Damerau(s, editDistance)
	} else {
		fuzzy, err = automaton.Levenshtein(s, editDistance)
	}
	if err != nil {
		return nil, fmt.Errorf("fst: fuzzy %q: %w", s, err)
	}

	if sharedPrefixLen <= 0 {
		return newIterator(r, Unbounded(), Unbounded(), fuzzy)
	}

	prefix, err := automaton.CodePointPrefix(s, sharedPrefixLen)
	if err != nil {
		return nil, fmt.Errorf("fst: fuzzy %q: %w", s, err)
	}
	prefixAut, err := automaton.Prefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("fst: fuzzy %q: %w", s, err)
	}
	return newIterator(r, Unbounded(), Unbounded(), automaton.Intersect(prefixAut, fuzzy))
}

// Dot writes a Graphviz DOT rendering of the FST to w.
func (r *Reader) Dot(w io.Writer) error {
	return r.writeDot(w)
}
