package automaton

import "errors"

// ErrInvalidUTF8 is returned by constructors of UTF-8-aware automata when
// given a target string that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("automaton: invalid utf-8")

// ErrInvalidInput is returned when a constructor argument is structurally
// invalid (e.g. a negative edit distance).
var ErrInvalidInput = errors.New("automaton: invalid input")
