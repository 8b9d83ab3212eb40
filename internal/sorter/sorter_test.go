package sorter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orchidfst/fst/pkg/fs"
)

func Test_Sort_OrdersLinesByKey_InMemory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")

	input := "banana\t2\napple\t1\ncherry\t3\n"
	if err := os.WriteFile(in, []byte(input), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	fsys := fs.NewReal()
	if err := Sort(fsys, in, out, Options{}); err != nil {
		t.Fatalf("sort: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	want := "apple\t1\nbanana\t2\ncherry\t3\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func Test_Sort_SpillsToMultipleChunksAndMerges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")

	var lines []string
	for i := 9; i >= 0; i-- {
		lines = append(lines, string(rune('a'+i))+"\t"+string(rune('0'+i)))
	}
	if err := os.WriteFile(in, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	fsys := fs.NewReal()
	// Force every line into its own chunk, exercising the k-way merge path.
	if err := Sort(fsys, in, out, Options{MaxLinesInMemory: 1, WorkDir: dir}); err != nil {
		t.Fatalf("sort: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	gotLines := strings.Split(strings.TrimRight(string(got), "\n"), "\n")
	for i := 1; i < len(gotLines); i++ {
		if keyOf(gotLines[i-1]) >= keyOf(gotLines[i]) {
			t.Fatalf("output not strictly ascending at %d: %q then %q", i, gotLines[i-1], gotLines[i])
		}
	}
	if len(gotLines) != 10 {
		t.Fatalf("got %d lines, want 10", len(gotLines))
	}
}

func Test_Sort_EmptyInputProducesEmptyOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")

	if err := os.WriteFile(in, nil, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	fsys := fs.NewReal()
	if err := Sort(fsys, in, out, Options{}); err != nil {
		t.Fatalf("sort: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %q, want empty output", got)
	}
}
