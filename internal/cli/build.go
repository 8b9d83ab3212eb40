package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/orchidfst/fst/internal/config"
	"github.com/orchidfst/fst/internal/sorter"
	"github.com/orchidfst/fst/pkg/fs"
	"github.com/orchidfst/fst/pkg/fst"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
)

var errBuildMissingInput = errors.New("build: input file required")

// BuildCmd builds an on-disk FST from newline-delimited "key\tvalue" (map
// mode) or bare "key" (set mode) records.
func BuildCmd(cfg config.Config) *Command {
	flags := flag.NewFlagSet("build", flag.ContinueOnError)
	out := flags.StringP("out", "o", "", "Output FST file path (required)")
	set := flags.Bool("set", false, "Build a set FST (keys only, no values)")
	sorted := flags.Bool("sorted", false, "Skip sorting; input is already byte-ascending")
	dedupBytes := flags.Uint64("dedup-cache-bytes", cfg.DedupCacheBytes, "Dedup cache budget in bytes")

	return &Command{
		Flags: flags,
		Usage: "build <input> -o <out> [flags]",
		Short: "Build an FST file from key/value input",
		Long: "Reads newline-delimited records from <input> (\"key\\tvalue\" lines in map\n" +
			"mode, bare \"key\" lines in set mode), sorts them if needed, and streams a\n" +
			"minimal FST to the output file.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errBuildMissingInput
			}
			if *out == "" {
				return errors.New("build: -o/--out is required")
			}
			inputPath := args[0]
			fsys := fs.NewReal()

			sortedPath := inputPath
			if !*sorted {
				tmp, err := os.CreateTemp("", "fstctl-build-sorted-*.txt")
				if err != nil {
					return fmt.Errorf("build: create temp file: %w", err)
				}
				tmp.Close()
				defer os.Remove(tmp.Name())

				if err := sorter.Sort(fsys, inputPath, tmp.Name(), sorter.Options{}); err != nil {
					return fmt.Errorf("build: %w", err)
				}
				sortedPath = tmp.Name()
			}

			if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
				return fmt.Errorf("build: %w", err)
			}

			// Build into a staging file first and publish it with an atomic
			// rename, so a crash or interrupted build never leaves a
			// partially-written file at the requested output path.
			staging := *out + ".building"
			f, err := fsys.Create(staging)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}
			defer os.Remove(staging)

			mode := fst.ModeMap
			if *set {
				mode = fst.ModeSet
			}

			b, err := fst.NewBuilder(f, mode, *dedupBytes)
			if err != nil {
				f.Close()
				return fmt.Errorf("build: %w", err)
			}

			n, err := insertSortedFile(fsys, sortedPath, mode, b)
			if err != nil {
				f.Close()
				return fmt.Errorf("build: %w", err)
			}

			if err := b.Finish(); err != nil {
				f.Close()
				return fmt.Errorf("build: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("build: %w", err)
			}

			if err := atomic.ReplaceFile(staging, *out); err != nil {
				return fmt.Errorf("build: publish %s: %w", *out, err)
			}

			o.Printf("built %s: %d keys\n", *out, n)
			return nil
		},
	}
}

// insertSortedFile streams byte-ascending "key\tvalue" (or bare "key" in
// set mode) lines from path into b, returning the number of keys inserted.
func insertSortedFile(fsys fs.FS, path string, mode fst.Mode, b *fst.Builder) (int, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var key string
		var value uint64

		if mode == fst.ModeMap {
			idx := strings.IndexByte(line, '\t')
			if idx < 0 {
				return n, fmt.Errorf("line %d: map mode requires \"key\\tvalue\": %q", n+1, line)
			}
			key = line[:idx]
			value, err = strconv.ParseUint(line[idx+1:], 10, 64)
			if err != nil {
				return n, fmt.Errorf("line %d: invalid value: %w", n+1, err)
			}
		} else {
			key = line
		}

		if err := b.Insert([]byte(key), value); err != nil {
			return n, fmt.Errorf("line %d (key %q): %w", n+1, key, err)
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}
	return n, nil
}
