package fst

import (
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildTestFst(t *testing.T, mode Mode, entries map[string]uint64) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "fst-*.bin")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b, err := NewBuilder(f, mode, 1<<20)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	for _, k := range keys {
		if err := b.Insert([]byte(k), entries[k]); err != nil {
			t.Fatalf("insert %q: %v", k, err)
		}
	}
	if err := b.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

func Test_Builder_RejectsOutOfOrderKeys(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "fst-*.bin")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer f.Close()

	b, err := NewBuilder(f, ModeMap, 1<<20)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	if err := b.Insert([]byte("banana"), 1); err != nil {
		t.Fatalf("insert banana: %v", err)
	}
	if err := b.Insert([]byte("apple"), 2); err == nil {
		t.Fatal("expected an order violation, got nil")
	} else if !errors.Is(err, OrderViolation) {
		t.Fatalf("expected %v, got %v", OrderViolation, err)
	}
}

func Test_Builder_ReinsertingSameKey_OverwritesValue(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "fst-*.bin")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()

	b, err := NewBuilder(f, ModeMap, 1<<20)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	if err := b.Insert([]byte("apple"), 1); err != nil {
		t.Fatalf("insert apple (first): %v", err)
	}
	if err := b.Insert([]byte("apple"), 2); err != nil {
		t.Fatalf("insert apple (second): expected overwrite, got error: %v", err)
	}
	if err := b.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	it, err := r.Match(Unbounded(), Unbounded(), "apple")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	_, value, ok, err := it.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !ok {
		t.Fatal("expected apple to match")
	}
	if value != 2 {
		t.Fatalf("expected latest-insert value 2 to win, got %d", value)
	}
}

func Test_Builder_And_Reader_RoundtripKeysAndValues(t *testing.T) {
	t.Parallel()

	entries := map[string]uint64{
		"apple":      1,
		"app":        2,
		"apply":      3,
		"banana":     4,
		"band":       5,
		"bandana":    6,
		"":           7, // empty key
		"zoo":        8,
		"zookeeper":  9,
	}

	path := buildTestFst(t, ModeMap, entries)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if !r.HasOutput() {
		t.Fatal("expected HasOutput() to be true for a map-mode FST")
	}

	it, err := r.Range(Unbounded(), Unbounded())
	if err != nil {
		t.Fatalf("range: %v", err)
	}

	got := map[string]uint64{}
	for {
		key, value, ok, err := it.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !ok {
			break
		}
		got[string(key)] = value
	}

	if diff := cmp.Diff(entries, got); diff != "" {
		t.Errorf("roundtripped keys/values mismatch (-want +got):\n%s", diff)
	}
}

func Test_Builder_And_Reader_RoundtripSetMode(t *testing.T) {
	t.Parallel()

	entries := map[string]uint64{"alpha": 0, "beta": 0, "gamma": 0}
	path := buildTestFst(t, ModeSet, entries)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if r.HasOutput() {
		t.Fatal("expected HasOutput() to be false for a set-mode FST")
	}

	it, err := r.Match(Unbounded(), Unbounded(), "beta")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	_, _, ok, err := it.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !ok {
		t.Fatal("expected beta to match")
	}
}

func Test_Reader_Range_RespectsMinMaxBounds(t *testing.T) {
	t.Parallel()

	entries := map[string]uint64{
		"a": 1, "b": 2, "c": 3, "d": 4, "e": 5,
	}
	path := buildTestFst(t, ModeMap, entries)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	it, err := r.Range(Included([]byte("b")), Excluded([]byte("e")))
	if err != nil {
		t.Fatalf("range: %v", err)
	}

	var keys []string
	for {
		key, _, ok, err := it.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !ok {
			break
		}
		keys = append(keys, string(key))
	}

	want := []string{"b", "c", "d"}
	if len(keys) != len(want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}

func Test_Reader_Prefix_MatchesOnlySharedPrefix(t *testing.T) {
	t.Parallel()

	entries := map[string]uint64{
		"car":      1,
		"care":     2,
		"careful":  3,
		"cart":     4,
		"dog":      5,
	}
	path := buildTestFst(t, ModeMap, entries)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	it, err := r.Prefix(Unbounded(), Unbounded(), "care")
	if err != nil {
		t.Fatalf("prefix: %v", err)
	}

	var keys []string
	for {
		key, _, ok, err := it.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !ok {
			break
		}
		keys = append(keys, string(key))
	}

	want := map[string]bool{"care": true, "careful": true}
	if len(keys) != len(want) {
		t.Fatalf("got %v, want keys matching %v", keys, want)
	}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected key %q in prefix results", k)
		}
	}
}

func Test_Reader_Fuzzy_FindsKeysWithinEditDistance(t *testing.T) {
	t.Parallel()

	entries := map[string]uint64{
		"kitten":  1,
		"sitting": 2,
		"mitten":  3,
		"kit":     4,
	}
	path := buildTestFst(t, ModeMap, entries)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	it, err := r.Fuzzy("kitten", 2, 0, false)
	if err != nil {
		t.Fatalf("fuzzy: %v", err)
	}

	got := map[string]bool{}
	for {
		key, _, ok, err := it.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !ok {
			break
		}
		got[string(key)] = true
	}

	// "sitting" is 3 edits from "kitten" (k->s, e->i, +g), beyond k=2.
	if !got["kitten"] || !got["mitten"] || got["sitting"] {
		t.Fatalf("expected kitten/mitten but not sitting within edit distance 2, got %v", got)
	}
}

