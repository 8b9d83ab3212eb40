package automaton

// intersectState is the composite state of an Intersect automaton: one
// child state per operand, in the same order as the operands.
type intersectState []any

type intersectAutomaton struct {
	automatons []Automaton
}

// Intersect returns an automaton matching only keys every operand
// matches. A key is pruned as soon as any operand's state goes dead.
func Intersect(automatons ...Automaton) Automaton {
	return intersectAutomaton{automatons: automatons}
}

func (a intersectAutomaton) Start() any {
	states := make(intersectState, len(a.automatons))
	for i, au := range a.automatons {
		states[i] = au.Start()
	}
	return states
}

func (a intersectAutomaton) IsMatch(state any) bool {
	if state == nil {
		return false
	}
	st := state.(intersectState)
	for i, au := range a.automatons {
		if !au.IsMatch(st[i]) {
			return false
		}
	}
	return true
}

func (a intersectAutomaton) CanMatch(state any) bool {
	if state == nil {
		return false
	}
	st := state.(intersectState)
	for i, au := range a.automatons {
		if !au.CanMatch(st[i]) {
			return false
		}
	}
	return true
}

func (a intersectAutomaton) Accept(state any, accumulatedInput []byte) any {
	if state == nil {
		return nil
	}
	st := state.(intersectState)
	next := make(intersectState, len(st))
	for i, au := range a.automatons {
		next[i] = au.Accept(st[i], accumulatedInput)
		if next[i] == nil {
			return nil
		}
	}
	return next
}

// unionState is the composite state of a Union automaton. Unlike
// Intersect, a nil entry here means only that operand has died — the
// union as a whole is dead only once every entry is nil.
type unionState []any

type unionAutomaton struct {
	automatons []Automaton
}

// Union returns an automaton matching any key that at least one operand
// matches.
func Union(automatons ...Automaton) Automaton {
	return unionAutomaton{automatons: automatons}
}

func (a unionAutomaton) Start() any {
	states := make(unionState, len(a.automatons))
	for i, au := range a.automatons {
		states[i] = au.Start()
	}
	return states
}

func (a unionAutomaton) IsMatch(state any) bool {
	if state == nil {
		return false
	}
	st := state.(unionState)
	for i, au := range a.automatons {
		if au.IsMatch(st[i]) {
			return true
		}
	}
	return false
}

func (a unionAutomaton) CanMatch(state any) bool {
	if state == nil {
		return false
	}
	st := state.(unionState)
	for i, au := range a.automatons {
		if au.CanMatch(st[i]) {
			return true
		}
	}
	return false
}

func (a unionAutomaton) Accept(state any, accumulatedInput []byte) any {
	if state == nil {
		return nil
	}
	st := state.(unionState)
	next := make(unionState, len(st))
	alive := false
	for i, au := range a.automatons {
		if st[i] == nil {
			continue
		}
		next[i] = au.Accept(st[i], accumulatedInput)
		if next[i] != nil {
			alive = true
		}
	}
	if !alive {
		return nil
	}
	return next
}

// notState wraps a child automaton's state plus a sticky flag recording
// whether the child has gone permanently dead — at which point the
// complement matches every continuation from here on.
type notState struct {
	child any
	dead  bool
}

type notAutomaton struct {
	inner Automaton
}

// Not returns the complement of inner. CanMatch is conservatively always
// true: proving that no continuation can ever fail to match inner (and
// so that the complement can never match again) isn't decidable in
// general for an arbitrary automaton, so Not never prunes a subtree —
// it only ever affects IsMatch.
func Not(inner Automaton) Automaton {
	return notAutomaton{inner: inner}
}

func (a notAutomaton) Start() any {
	return notState{child: a.inner.Start(), dead: false}
}

func (a notAutomaton) IsMatch(state any) bool {
	st := state.(notState)
	if st.dead {
		return true
	}
	return !a.inner.IsMatch(st.child)
}

func (a notAutomaton) CanMatch(state any) bool {
	return state != nil
}

func (a notAutomaton) Accept(state any, accumulatedInput []byte) any {
	st := state.(notState)
	if st.dead {
		return notState{dead: true}
	}
	next := a.inner.Accept(st.child, accumulatedInput)
	if next == nil {
		return notState{dead: true}
	}
	return notState{child: next, dead: false}
}

// startsWithState tracks an inner automaton's progress until it first
// reports a match, at which point done latches and every continuation
// matches too.
type startsWithState struct {
	inner any
	done  bool
}

type startsWithAutomaton struct {
	inner Automaton
}

// StartsWith returns an automaton matching every key for which some
// prefix is matched by inner — i.e. inner's match condition, once
// satisfied, is never revoked by further bytes.
func StartsWith(inner Automaton) Automaton {
	return startsWithAutomaton{inner: inner}
}

func (a startsWithAutomaton) Start() any {
	start := a.inner.Start()
	return startsWithState{inner: start, done: a.inner.IsMatch(start)}
}

func (a startsWithAutomaton) IsMatch(state any) bool {
	if state == nil {
		return false
	}
	st := state.(startsWithState)
	return st.done || a.inner.IsMatch(st.inner)
}

func (a startsWithAutomaton) CanMatch(state any) bool {
	if state == nil {
		return false
	}
	st := state.(startsWithState)
	return st.done || a.inner.CanMatch(st.inner)
}

func (a startsWithAutomaton) Accept(state any, accumulatedInput []byte) any {
	if state == nil {
		return nil
	}
	st := state.(startsWithState)
	if st.done {
		return st
	}
	next := a.inner.Accept(st.inner, accumulatedInput)
	if next == nil {
		return nil
	}
	return startsWithState{inner: next, done: a.inner.IsMatch(next)}
}
