package automaton

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// levenshteinAutomaton matches every string within k (code-point)
// Levenshtein edit operations of a target string. Its DFA is built
// eagerly at construction (spec.md §4.4, §7: "Levenshtein DFA build
// completes or fails before any FST traversal"); states are rows of a
// bounded edit-distance dynamic-programming table, deduplicated by full
// row equality.
type levenshteinAutomaton struct {
	codePoints  []string
	k           int
	transitions map[string]map[string]string
}

// Levenshtein returns an automaton matching every string within editDistance
// Levenshtein operations of s.
func Levenshtein(s string, editDistance int) (Automaton, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%q: %w", s, ErrInvalidUTF8)
	}
	if editDistance < 0 {
		return nil, fmt.Errorf("edit distance %d: %w", editDistance, ErrInvalidInput)
	}
	cps := codePoints(s)
	return levenshteinAutomaton{
		codePoints:  cps,
		k:           editDistance,
		transitions: buildLevenshteinDfa(cps, editDistance),
	}, nil
}

func (a levenshteinAutomaton) Start() any {
	return encodeRow(initialRow(len(a.codePoints), a.k))
}

func (a levenshteinAutomaton) IsMatch(state any) bool {
	if state == nil {
		return false
	}
	row := decodeRow(state.(string))
	return row[len(row)-1] <= a.k
}

func (a levenshteinAutomaton) CanMatch(state any) bool {
	if state == nil {
		return false
	}
	return canMatchRow(decodeRow(state.(string)), a.k)
}

func (a levenshteinAutomaton) Accept(state any, accumulatedInput []byte) any {
	if state == nil {
		return nil
	}
	cp, ok := LastCodePoint(accumulatedInput)
	if !ok {
		return state
	}
	trans, ok := a.transitions[state.(string)]
	if !ok {
		return nil
	}
	if next, ok := trans[string(cp)]; ok {
		return next
	}
	if next, ok := trans[""]; ok {
		return next
	}
	return nil
}

// --- shared DP-row machinery (also used by damerau.go) ---

func initialRow(n, k int) []int {
	row := make([]int, n+1)
	for i := 0; i <= n; i++ {
		row[i] = minInt(k+1, i)
	}
	return row
}

func canMatchRow(row []int, k int) bool {
	for _, v := range row {
		if v <= k {
			return true
		}
	}
	return false
}

// nextRow computes the DP row reached from lastRow by consuming code
// point curCp ("" means a code point not occurring in the target at
// all), capping every entry at k+1.
func nextRow(lastRow []int, cps []string, curCp string, k int) []int {
	row := make([]int, 0, len(lastRow))
	row = append(row, minInt(lastRow[0]+1, k+1))
	for j := 1; j <= len(cps); j++ {
		cost := 1
		if curCp != "" && curCp == cps[j-1] {
			cost = 0
		}
		d := minInt(minInt(lastRow[j-1]+cost, lastRow[j]+1), row[j-1]+1)
		row = append(row, minInt(d, k+1))
	}
	return row
}

// buildLevenshteinDfa performs the eager BFS over reachable DP rows that
// precomputes the automaton's full transition table, mirroring
// LevenshteinAutomaton::buildDfa: for every reachable row, one transition
// per distinct code point of the target still within budget, plus a
// fallback "" transition for any code point not occurring in the target.
func buildLevenshteinDfa(cps []string, k int) map[string]map[string]string {
	result := make(map[string]map[string]string)
	startKey := encodeRow(initialRow(len(cps), k))
	visited := map[string]bool{startKey: true}
	stack := []string{startKey}

	for len(stack) > 0 {
		lastKey := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		lastRow := decodeRow(lastKey)

		trans := map[string]string{}
		seen := map[string]bool{}
		for ix, cp := range cps {
			if lastRow[ix] > k {
				continue
			}
			if seen[cp] {
				continue
			}
			seen[cp] = true

			row := nextRow(lastRow, cps, cp, k)
			if !canMatchRow(row, k) {
				continue
			}
			key := encodeRow(row)
			trans[cp] = key
			if key != lastKey && !visited[key] {
				visited[key] = true
				stack = append(stack, key)
			}
		}

		row := nextRow(lastRow, cps, "", k)
		if canMatchRow(row, k) {
			key := encodeRow(row)
			trans[""] = key
			if key != lastKey && !visited[key] {
				visited[key] = true
				stack = append(stack, key)
			}
		}

		if len(trans) > 0 {
			result[lastKey] = trans
		}
	}
	return result
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func encodeRow(row []int) string {
	buf := make([]byte, 0, len(row)*2)
	for _, v := range row {
		buf = binary.AppendUvarint(buf, uint64(v))
	}
	return string(buf)
}

func decodeRow(s string) []int {
	b := []byte(s)
	row := make([]int, 0, len(b))
	for len(b) > 0 {
		v, n := binary.Uvarint(b)
		row = append(row, int(v))
		b = b[n:]
	}
	return row
}
