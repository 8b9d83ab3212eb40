package automaton

import (
	"fmt"
	"unicode/utf8"
)

type strAutomaton struct {
	codePoints []string
}

// Str returns an automaton that matches exactly s, code point by code
// point.
func Str(s string) (Automaton, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%q: %w", s, ErrInvalidUTF8)
	}
	return strAutomaton{codePoints: codePoints(s)}, nil
}

// Start returns 0, the number of code points matched so far.
func (a strAutomaton) Start() any { return 0 }

func (a strAutomaton) IsMatch(state any) bool {
	if state == nil {
		return false
	}
	return state.(int) == len(a.codePoints)
}

func (a strAutomaton) CanMatch(state any) bool {
	if state == nil {
		return false
	}
	return state.(int) < len(a.codePoints)
}

func (a strAutomaton) Accept(state any, accumulatedInput []byte) any {
	if state == nil {
		return nil
	}
	cp, ok := LastCodePoint(accumulatedInput)
	if !ok {
		return state
	}
	matched := state.(int)
	if matched < len(a.codePoints) && string(cp) == a.codePoints[matched] {
		return matched + 1
	}
	return nil
}
