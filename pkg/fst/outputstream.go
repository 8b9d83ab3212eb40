package fst

import (
	"fmt"
	"io"

	"github.com/orchidfst/fst/pkg/fs"
)

// outputStream is an append-mostly sink for the Builder: ordinary writes
// always land at the current end of the stream, with one exception — the
// 8-byte root offset back-patch performed once at Finish, which seeks to
// offset 0 and writes there, then seeks back to the end of the appended
// data so later writes keep appending.
type outputStream struct {
	f       fs.File
	written uint64
}

// newOutputStream wraps an already-open, empty file.
func newOutputStream(f fs.File) *outputStream {
	return &outputStream{f: f}
}

// Write appends p to the stream.
func (s *outputStream) Write(p []byte) error {
	n, err := s.f.Write(p)
	s.written += uint64(n)
	if err != nil {
		return fmt.Errorf("fst: write at offset %d: %w: %v", s.written-uint64(n), WriteError, err)
	}
	if n != len(p) {
		return fmt.Errorf("fst: short write (%d of %d bytes): %w", n, len(p), WriteError)
	}
	return nil
}

// WriteAt overwrites len(p) bytes starting at offset, which must already
// have been written by a prior Write. It is only ever used for the single
// root-offset back-patch at Finish.
func (s *outputStream) WriteAt(offset uint64, p []byte) error {
	if _, err := s.f.Seek(int64(offset), io.SeekStart); err != nil {
		return fmt.Errorf("fst: seek to offset %d: %w: %v", offset, WriteError, err)
	}
	n, err := s.f.Write(p)
	if err != nil {
		return fmt.Errorf("fst: write_at offset %d: %w: %v", offset, WriteError, err)
	}
	if n != len(p) {
		return fmt.Errorf("fst: short write_at (%d of %d bytes): %w", n, len(p), WriteError)
	}
	if _, err := s.f.Seek(int64(s.written), io.SeekStart); err != nil {
		return fmt.Errorf("fst: restoring append position: %w: %v", WriteError, err)
	}
	return nil
}

// TotalBytesWritten is the current length of the append-only region,
// i.e. the offset the next Write will land at.
func (s *outputStream) TotalBytesWritten() uint64 {
	return s.written
}

// Flush commits buffered writes to stable storage.
func (s *outputStream) Flush() error {
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("fst: flush: %w: %v", WriteError, err)
	}
	return nil
}
