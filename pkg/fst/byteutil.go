package fst

import "github.com/orchidfst/fst/pkg/fst/automaton"

// lastCodePoint forwards to automaton.LastCodePoint, the single shared
// UTF-8 tail-rule helper every UTF-8-aware consumer — the automata and the
// DOT exporter alike — funnels through (spec.md §9: "do not replicate the
// classification table").
func lastCodePoint(buf []byte) ([]byte, bool) {
	return automaton.LastCodePoint(buf)
}
