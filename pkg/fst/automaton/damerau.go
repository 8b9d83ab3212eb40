package automaton

import (
	"fmt"
	"unicode/utf8"
)

// damerauState is the DFA state for DamerauLevenshteinAutomaton: the
// current DP row, the row one step back (nil at Start), and the code
// point consumed to reach this state (empty at Start). Keeping the
// previous row and code point around is what lets the transition
// function apply the classical adjacent-transposition discount.
type damerauState struct {
	curRow  []int
	prevRow []int
	prevCp  string
}

// damerauAutomaton matches every string within k Damerau-Levenshtein
// (Levenshtein plus adjacent transposition) operations of a target
// string. Like Levenshtein, its DFA is built eagerly at construction.
type damerauAutomaton struct {
	codePoints  []string
	k           int
	transitions map[string]map[string]damerauState
}

// Damerau returns an automaton matching every string within editDistance
// Damerau-Levenshtein operations of s.
func Damerau(s string, editDistance int) (Automaton, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%q: %w", s, ErrInvalidUTF8)
	}
	if editDistance < 0 {
		return nil, fmt.Errorf("edit distance %d: %w", editDistance, ErrInvalidInput)
	}
	cps := codePoints(s)
	return damerauAutomaton{
		codePoints:  cps,
		k:           editDistance,
		transitions: buildDamerauDfa(cps, editDistance),
	}, nil
}

func (a damerauAutomaton) Start() any {
	return damerauState{curRow: initialRow(len(a.codePoints), a.k)}
}

func (a damerauAutomaton) IsMatch(state any) bool {
	if state == nil {
		return false
	}
	row := state.(damerauState).curRow
	return row[len(row)-1] <= a.k
}

func (a damerauAutomaton) CanMatch(state any) bool {
	if state == nil {
		return false
	}
	return canMatchRow(state.(damerauState).curRow, a.k)
}

func (a damerauAutomaton) Accept(state any, accumulatedInput []byte) any {
	if state == nil {
		return nil
	}
	cp, ok := LastCodePoint(accumulatedInput)
	if !ok {
		return state
	}
	trans, ok := a.transitions[encodeDamerauKey(state.(damerauState))]
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

// encodeDamerauKey builds a canonical string for BFS/map dedup purposes
// only; damerauState itself (holding slices) is not map-key comparable.
func encodeDamerauKey(st damerauState) string {
	return encodeRow(st.curRow) + "\x00" + encodeRow(st.prevRow) + "\x00" + st.prevCp
}

// buildDamerauDfa performs the same eager BFS shape as
// buildLevenshteinDfa, but over the richer (curRow, prevRow, prevCp)
// state and with the transposition-aware recurrence in damerauNextRow.
func buildDamerauDfa(cps []string, k int) map[string]map[string]damerauState {
	type item struct {
		key   string
		state damerauState
	}

	result := make(map[string]map[string]damerauState)
	start := damerauState{curRow: initialRow(len(cps), k)}
	startKey := encodeDamerauKey(start)
	visited := map[string]bool{startKey: true}
	stack := []item{{startKey, start}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		trans := map[string]damerauState{}
		seen := map[string]bool{}
		for ix, cp := range cps {
			if !isPossibleTransposition(cur.state, cps, k, cp) && cur.state.curRow[ix] > k {
				continue
			}
			if seen[cp] {
				continue
			}
			seen[cp] = true

			row := damerauNextRow(cur.state, cps, cp, k)
			if !canMatchRow(row, k) {
				continue
			}
			next := damerauState{curRow: row, prevRow: cur.state.curRow, prevCp: cp}
			trans[cp] = next
			nk := encodeDamerauKey(next)
			if nk != cur.key && !visited[nk] {
				visited[nk] = true
				stack = append(stack, item{nk, next})
			}
		}

		row := damerauNextRow(cur.state, cps, "", k)
		if canMatchRow(row, k) {
			next := damerauState{curRow: row, prevRow: cur.state.curRow, prevCp: ""}
			trans[""] = next
			nk := encodeDamerauKey(next)
			if nk != cur.key && !visited[nk] {
				visited[nk] = true
				stack = append(stack, item{nk, next})
			}
		}

		if len(trans) > 0 {
			result[cur.key] = trans
		}
	}
	return result
}

// damerauNextRow computes the DP row reached from state by consuming
// curCp ("" for a code point not occurring in the target), applying the
// transposition discount prevRow[j-2]+1 whenever the last two code
// points consumed form an adjacent transposition of cps[j-2],cps[j-1].
func damerauNextRow(state damerauState, cps []string, curCp string, k int) []int {
	lastRow := state.curRow
	row := make([]int, 0, len(lastRow))
	row = append(row, minInt(lastRow[0]+1, k+1))

	var lastStr string
	for j := 1; j <= len(cps); j++ {
		cost := 1
		if curCp != "" && curCp == cps[j-1] {
			cost = 0
		}
		d := minInt(minInt(lastRow[j-1]+cost, lastRow[j]+1), row[j-1]+1)

		if j > 1 && state.prevCp != "" && curCp == lastStr && state.prevCp == cps[j-1] {
			discount := k
			if state.prevRow != nil {
				discount = state.prevRow[j-2]
			}
			d = minInt(d, discount+1)
		}
		row = append(row, minInt(d, k+1))
		lastStr = cps[j-1]
	}
	return row
}

// isPossibleTransposition reports whether consuming curCp next could
// still complete an adjacent transposition cheaply enough to matter,
// even when the plain substitution/insertion/deletion cost at this
// target position already exceeds the edit-distance budget — mirroring
// DamerauLevenshteinAutomatonState::GetPossibleTranspositionStrs.
func isPossibleTransposition(state damerauState, cps []string, k int, curCp string) bool {
	if state.prevCp == "" {
		return false
	}
	var lastStr string
	for j := 1; j <= len(cps); j++ {
		tmpStr := cps[j-1]
		if j > 1 && tmpStr != lastStr && state.prevCp == tmpStr && lastStr == curCp {
			prevPrev := 0
			if state.prevRow != nil {
				prevPrev = state.prevRow[j-2]
			}
			curLast := state.curRow[j-1]
			curCur := state.curRow[j]
			if prevPrev < k && prevPrev < curLast && prevPrev < curCur {
				return true
			}
		}
		lastStr = tmpStr
	}
	return false
}
