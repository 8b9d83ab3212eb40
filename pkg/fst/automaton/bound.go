package automaton

import (
	"fmt"
	"unicode/utf8"
)

// boundState tracks how far the input has matched the target string
// code-point-wise, and whether it is still tied with it (as opposed to
// having already resolved strictly greater or strictly less).
type boundState struct {
	matched    int
	stillEqual bool
}

type greaterThanAutomaton struct {
	codePoints []string
	inclusive  bool
}

// GreaterThan returns an automaton matching every key greater than s (or
// greater-than-or-equal, when inclusive is set).
func GreaterThan(s string, inclusive bool) (Automaton, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%q: %w", s, ErrInvalidUTF8)
	}
	return greaterThanAutomaton{codePoints: codePoints(s), inclusive: inclusive}, nil
}

func (a greaterThanAutomaton) Start() any { return boundState{0, true} }

func (a greaterThanAutomaton) IsMatch(state any) bool {
	if state == nil {
		return false
	}
	st := state.(boundState)
	n := len(a.codePoints)
	return !st.stillEqual || st.matched > n || (st.matched == n && a.inclusive)
}

func (a greaterThanAutomaton) CanMatch(state any) bool {
	return state != nil
}

func (a greaterThanAutomaton) Accept(state any, accumulatedInput []byte) any {
	if state == nil {
		return nil
	}
	st := state.(boundState)
	if !st.stillEqual {
		return st
	}
	cp, ok := LastCodePoint(accumulatedInput)
	if !ok {
		return st
	}
	n := len(a.codePoints)
	if st.matched >= n {
		return boundState{st.matched, false}
	}
	s := string(cp)
	switch {
	case s > a.codePoints[st.matched]:
		return boundState{st.matched, false}
	case s < a.codePoints[st.matched]:
		return nil
	default:
		return boundState{st.matched + 1, true}
	}
}

type lessThanAutomaton struct {
	codePoints []string
	inclusive  bool
}

// LessThan returns an automaton matching every key less than s (or
// less-than-or-equal, when inclusive is set).
func LessThan(s string, inclusive bool) (Automaton, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%q: %w", s, ErrInvalidUTF8)
	}
	return lessThanAutomaton{codePoints: codePoints(s), inclusive: inclusive}, nil
}

func (a lessThanAutomaton) Start() any { return boundState{0, true} }

func (a lessThanAutomaton) IsMatch(state any) bool {
	if state == nil {
		return false
	}
	st := state.(boundState)
	n := len(a.codePoints)
	return !st.stillEqual || st.matched < n || (st.matched == n && a.inclusive)
}

func (a lessThanAutomaton) CanMatch(state any) bool {
	if state == nil {
		return false
	}
	st := state.(boundState)
	return !st.stillEqual || st.matched < len(a.codePoints)
}

func (a lessThanAutomaton) Accept(state any, accumulatedInput []byte) any {
	if state == nil {
		return nil
	}
	st := state.(boundState)
	if !st.stillEqual {
		return st
	}
	cp, ok := LastCodePoint(accumulatedInput)
	if !ok {
		return st
	}
	n := len(a.codePoints)
	if st.matched >= n {
		// A proper extension of the full target is lexicographically
		// greater than it, never less — equivalent to the original's
		// frozen (matched>len, stillEqual=true) sink, which always
		// yields IsMatch=false and CanMatch=false, i.e. a dead state.
		return nil
	}
	s := string(cp)
	switch {
	case s > a.codePoints[st.matched]:
		return nil
	case s < a.codePoints[st.matched]:
		return boundState{st.matched, false}
	default:
		return boundState{st.matched + 1, true}
	}
}
