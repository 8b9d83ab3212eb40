// Package sorter provides an external merge sort over "key\tvalue" input
// lines, producing the non-decreasing byte-lexicographic key order
// [fst.Builder.Insert] requires. Duplicate keys are kept; their relative
// order is not defined. It is CLI convenience, not part of the
// FST library itself: fstctl's build subcommands accept unsorted input
// and run it through this sorter first.
//
// For input small enough to fit the configured memory budget, lines are
// sorted in place and written straight to the output. Larger input is
// split into sorted chunk files on disk and merged k-way, mirroring (in
// much simplified, single-threaded form) the split/sort/merge shape of
// the original large-file sorter this package is descended from.
package sorter

import (
	"bufio"
	"container/heap"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/orchidfst/fst/pkg/fs"
)

// Options configures the sort.
type Options struct {
	// MaxLinesInMemory bounds how many lines are buffered before a chunk
	// is spilled to disk. Zero selects a sensible default.
	MaxLinesInMemory int
	// WorkDir holds spilled chunk files. Defaults to os.TempDir() if empty.
	WorkDir string
}

const defaultMaxLinesInMemory = 1_000_000

// Sort reads newline-delimited "key\tvalue" (or bare "key") records from
// inputPath, sorts them by key using bytes.Compare order, and writes the
// result to outputPath.
func Sort(fsys fs.FS, inputPath, outputPath string, opts Options) (err error) {
	maxLines := opts.MaxLinesInMemory
	if maxLines <= 0 {
		maxLines = defaultMaxLinesInMemory
	}
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}

	in, err := fsys.Open(inputPath)
	if err != nil {
		return fmt.Errorf("sorter: open %s: %w", inputPath, err)
	}
	defer in.Close()

	var chunkPaths []string
	defer func() {
		for _, p := range chunkPaths {
			_ = fsys.Remove(p)
		}
	}()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var buf []string
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		sort.Slice(buf, func(i, j int) bool { return keyOf(buf[i]) < keyOf(buf[j]) })
		path, werr := writeChunk(workDir, buf)
		if werr != nil {
			return werr
		}
		chunkPaths = append(chunkPaths, path)
		buf = buf[:0]
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		buf = append(buf, line)
		if len(buf) >= maxLines {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("sorter: reading %s: %w", inputPath, err)
	}
	if err := flush(); err != nil {
		return err
	}

	if len(chunkPaths) == 0 {
		return writeSortedEmpty(fsys, outputPath)
	}
	if len(chunkPaths) == 1 {
		return fsys.Rename(chunkPaths[0], outputPath)
	}
	return mergeChunks(fsys, chunkPaths, outputPath)
}

func keyOf(line string) string {
	if idx := strings.IndexByte(line, '\t'); idx >= 0 {
		return line[:idx]
	}
	return line
}

func writeChunk(workDir string, lines []string) (string, error) {
	f, err := os.CreateTemp(workDir, "fstctl-sort-*.chunk")
	if err != nil {
		return "", fmt.Errorf("sorter: create chunk file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return "", fmt.Errorf("sorter: write chunk: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return "", fmt.Errorf("sorter: write chunk: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("sorter: flush chunk: %w", err)
	}
	return f.Name(), nil
}

func writeSortedEmpty(fsys fs.FS, outputPath string) error {
	if err := fsys.WriteFile(outputPath, nil, 0o644); err != nil {
		return fmt.Errorf("sorter: write %s: %w", outputPath, err)
	}
	return nil
}

// mergeEntry is one open chunk reader's current line, keyed for the heap.
type mergeEntry struct {
	line    string
	scanner *bufio.Scanner
	file    fs.File
}

type mergeHeap []*mergeEntry

func (h mergeHeap) Len() int            { return len(h) }
func (h mergeHeap) Less(i, j int) bool  { return keyOf(h[i].line) < keyOf(h[j].line) }
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)         { *h = append(*h, x.(*mergeEntry)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

func mergeChunks(fsys fs.FS, chunkPaths []string, outputPath string) error {
	var h mergeHeap
	for _, p := range chunkPaths {
		f, err := fsys.Open(p)
		if err != nil {
			return fmt.Errorf("sorter: open chunk %s: %w", p, err)
		}
		s := bufio.NewScanner(f)
		s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		if !s.Scan() {
			f.Close()
			continue
		}
		h = append(h, &mergeEntry{line: s.Text(), scanner: s, file: f})
	}
	heap.Init(&h)
	defer func() {
		for _, e := range h {
			e.file.Close()
		}
	}()

	out, err := fsys.Create(outputPath)
	if err != nil {
		return fmt.Errorf("sorter: create %s: %w", outputPath, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for h.Len() > 0 {
		top := h[0]
		if _, err := w.WriteString(top.line); err != nil {
			return fmt.Errorf("sorter: write %s: %w", outputPath, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("sorter: write %s: %w", outputPath, err)
		}

		if top.scanner.Scan() {
			top.line = top.scanner.Text()
			heap.Fix(&h, 0)
		} else {
			top.file.Close()
			heap.Pop(&h)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("sorter: flush %s: %w", outputPath, err)
	}
	return nil
}
