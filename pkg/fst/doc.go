// Package fst implements an on-disk Finite State Transducer: a compact,
// immutable map (or set) keyed by byte strings, with optional u64 values,
// built once from a sorted stream of keys and queried afterwards through
// memory-mapped reads.
//
// # Basic usage
//
// Building is streaming: keys must arrive in non-decreasing lexicographic
// order, and the working set stays bounded by the dedup cache's byte
// budget regardless of how many keys are inserted.
//
//	f, err := os.Create("dict.fst")
//	if err != nil {
//	    return err
//	}
//	b, err := fst.NewBuilder(f, fst.ModeMap, 16<<20)
//	if err != nil {
//	    return err
//	}
//	for _, kv := range sorted {
//	    if err := b.Insert(kv.Key, kv.Value); err != nil {
//	        return err
//	    }
//	}
//	if err := b.Finish(); err != nil {
//	    return err
//	}
//
// Reading opens the file via mmap and drives it with composable automata:
//
//	r, err := fst.Open("dict.fst")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	it, err := r.Match(fst.Unbounded(), fst.Unbounded(), "apple")
//	if err != nil {
//	    return err
//	}
//	for {
//	    key, value, ok, err := it.Next()
//	    if err != nil || !ok {
//	        break
//	    }
//	    _, _ = key, value
//	}
//
// # Concurrency
//
// The Builder holds exclusive ownership of its output stream and dedup
// cache; it is not safe for concurrent use and provides no locking. The
// Reader is immutable once opened: any number of Iterators may walk it
// concurrently from the same goroutine or from different goroutines, each
// holding its own traversal stack. The caller is responsible for not
// closing the Reader (and unmapping the file) while an Iterator from it is
// still in use.
//
// # Error handling
//
// All errors are classified with sentinel values in errors.go
// (OrderViolation, WriteError, FormatError, BoundError) and should be
// tested with errors.Is. The Builder does not attempt recovery from a
// write failure: the output file must be discarded. The Reader surfaces a
// FormatError once per malformed node and does not retry.
package fst
