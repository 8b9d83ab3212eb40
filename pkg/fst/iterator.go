package fst

import (
	"github.com/orchidfst/fst/pkg/fst/automaton"
)

// iterFrame is one entry of the traversal stack: the node being
// enumerated, the automaton state reached on the path to it, the index
// of the next transition to try, and the running output sum accumulated
// along the path to (not including) this node.
type iterFrame struct {
	node      DecodedNode
	offset    uint64 // node's own file offset, to recognize the root frame
	autState  any
	transIdx  int
	sumOutput uint64
}

// Iterator walks a Reader depth-first in key order within [min,max],
// yielding only keys the automaton accepts. Its traversal stack is
// explicit (no recursion, no goroutines), so its memory use is bounded
// by the FST's depth rather than its size — spec.md §4.5.
type Iterator struct {
	r    *Reader
	min  Bound
	max  Bound
	aut  automaton.Automaton

	stack       []iterFrame
	path        []byte
	emptyOut    uint64
	hasEmptyOut bool
	done        bool
}

func newIterator(r *Reader, min, max Bound, aut automaton.Automaton) (*Iterator, error) {
	root, err := r.root()
	if err != nil {
		return nil, err
	}
	it := &Iterator{r: r, min: min, max: max, aut: aut}
	if err := it.seekMin(root); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *Iterator) push(f iterFrame) { it.stack = append(it.stack, f) }

func (it *Iterator) pop() iterFrame {
	f := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	return f
}

// seekMin descends the FST along it.min's bytes, leaving the stack
// positioned so that the first call to Next() resumes exactly at the
// first candidate key >= min (or > min, when min is exclusive) — ported
// from FstReader::Iterator::SeekMin.
func (it *Iterator) seekMin(root DecodedNode) error {
	if it.min.IsEmpty() || len(it.min.Bytes) == 0 {
		if it.min.IsInclusive() && root.IsFinal() {
			it.emptyOut = root.FinalOutput()
			it.hasEmptyOut = true
		}
		it.push(iterFrame{node: root, offset: it.r.rootOffset, autState: it.aut.Start()})
		return nil
	}

	cur := root
	curOffset := it.r.rootOffset
	autState := it.aut.Start()
	var sumOutput uint64

	for _, b := range it.min.Bytes {
		idx, found := cur.FindInput(b)
		if !found {
			it.push(iterFrame{node: cur, offset: curOffset, autState: autState, transIdx: idx, sumOutput: sumOutput})
			return nil
		}
		it.push(iterFrame{node: cur, offset: curOffset, autState: autState, transIdx: idx + 1, sumOutput: sumOutput})

		trans := cur.Transition(idx)
		it.path = append(it.path, b)
		sumOutput += trans.Output
		autState = it.aut.Accept(autState, it.path)

		next, err := it.r.node(trans.Target)
		if err != nil {
			return err
		}
		cur = next
		curOffset = trans.Target
	}

	if len(it.stack) > 0 {
		if it.min.IsInclusive() {
			top := &it.stack[len(it.stack)-1]
			top.transIdx--
			it.path = it.path[:len(it.path)-1]
		} else {
			it.push(iterFrame{node: cur, offset: curOffset, autState: autState, transIdx: 0, sumOutput: sumOutput})
		}
	}
	return nil
}

// Next returns the next key in order within [min,max] that the
// automaton accepts, or ok=false once the iterator is exhausted —
// ported from FstReader::Iterator::Next.
func (it *Iterator) Next() (key []byte, value uint64, ok bool, err error) {
	if it.done {
		return nil, 0, false, nil
	}

	if it.hasEmptyOut {
		out := it.emptyOut
		it.hasEmptyOut = false
		if exceededByMax(nil, it.max) {
			it.stack = nil
			it.done = true
			return nil, 0, false, nil
		}
		start := it.aut.Start()
		if it.aut.IsMatch(start) {
			return []byte{}, out, true, nil
		}
	}

	for len(it.stack) > 0 {
		cur := it.pop()
		if cur.transIdx >= cur.node.TransCount() || !it.aut.CanMatch(cur.autState) {
			if cur.offset != it.r.rootOffset {
				it.path = it.path[:len(it.path)-1]
			}
			continue
		}

		next := cur
		next.transIdx++
		it.push(next)

		trans := cur.node.Transition(cur.transIdx)
		it.path = append(it.path, trans.Input)
		sumOutput := cur.sumOutput + trans.Output

		subNode, derr := it.r.node(trans.Target)
		if derr != nil {
			return nil, 0, false, derr
		}
		nextAutState := it.aut.Accept(cur.autState, it.path)

		it.push(iterFrame{node: subNode, offset: trans.Target, autState: nextAutState, sumOutput: sumOutput})

		if exceededByMax(it.path, it.max) {
			it.stack = nil
			it.done = true
			return nil, 0, false, nil
		}

		if subNode.IsFinal() && it.aut.IsMatch(nextAutState) {
			out := make([]byte, len(it.path))
			copy(out, it.path)
			return out, sumOutput + subNode.FinalOutput(), true, nil
		}
	}

	it.done = true
	return nil, 0, false, nil
}
