package automaton

import "testing"

// walk drives a from Start() through every byte of s, mirroring how the
// traversal iterator feeds it one path byte at a time (with the full
// accumulated path each call, not just the latest byte). It reports
// whether the final state IsMatch, and whether CanMatch ever went false
// before the walk completed (a true "pruned" return means the automaton
// gave up early).
func walk(a Automaton, s string) (matched bool, pruned bool) {
	state := a.Start()
	path := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		path = append(path, s[i])
		if !a.CanMatch(state) {
			return false, true
		}
		state = a.Accept(state, path)
	}
	return a.IsMatch(state), false
}

func Test_Str_MatchesOnlyExactString(t *testing.T) {
	t.Parallel()

	a, err := Str("hello")
	if err != nil {
		t.Fatalf("Str: %v", err)
	}

	cases := map[string]bool{
		"hello":  true,
		"hell":   false,
		"helloo": false,
		"world":  false,
		"":       false,
	}
	for s, want := range cases {
		got, _ := walk(a, s)
		if got != want {
			t.Errorf("walk(%q) = %v, want %v", s, got, want)
		}
	}
}

func Test_Prefix_MatchesAnyExtension(t *testing.T) {
	t.Parallel()

	a, err := Prefix("car")
	if err != nil {
		t.Fatalf("Prefix: %v", err)
	}

	cases := map[string]bool{
		"car":     true,
		"cart":    true,
		"careful": true,
		"ca":      false,
		"cat":     false,
		"bar":     false,
	}
	for s, want := range cases {
		got, _ := walk(a, s)
		if got != want {
			t.Errorf("walk(%q) = %v, want %v", s, got, want)
		}
	}
}

func Test_GreaterThan_RespectsInclusiveAndExclusive(t *testing.T) {
	t.Parallel()

	inclusive, err := GreaterThan("m", true)
	if err != nil {
		t.Fatalf("GreaterThan: %v", err)
	}
	if got, _ := walk(inclusive, "m"); !got {
		t.Error("inclusive GreaterThan(m) should match m itself")
	}
	if got, _ := walk(inclusive, "apple"); got {
		t.Error("inclusive GreaterThan(m) should not match apple")
	}
	if got, _ := walk(inclusive, "zebra"); !got {
		t.Error("inclusive GreaterThan(m) should match zebra")
	}

	exclusive, err := GreaterThan("m", false)
	if err != nil {
		t.Fatalf("GreaterThan: %v", err)
	}
	if got, _ := walk(exclusive, "m"); got {
		t.Error("exclusive GreaterThan(m) should not match m itself")
	}
	if got, _ := walk(exclusive, "n"); !got {
		t.Error("exclusive GreaterThan(m) should match n")
	}
}

func Test_LessThan_RespectsInclusiveAndExclusive(t *testing.T) {
	t.Parallel()

	inclusive, err := LessThan("m", true)
	if err != nil {
		t.Fatalf("LessThan: %v", err)
	}
	if got, _ := walk(inclusive, "m"); !got {
		t.Error("inclusive LessThan(m) should match m itself")
	}
	if got, _ := walk(inclusive, "zebra"); got {
		t.Error("inclusive LessThan(m) should not match zebra")
	}

	exclusive, err := LessThan("m", false)
	if err != nil {
		t.Fatalf("LessThan: %v", err)
	}
	if got, _ := walk(exclusive, "m"); got {
		t.Error("exclusive LessThan(m) should not match m itself")
	}
	if got, _ := walk(exclusive, "apple"); !got {
		t.Error("exclusive LessThan(m) should match apple")
	}
}

func Test_Levenshtein_MatchesWithinEditDistance(t *testing.T) {
	t.Parallel()

	a, err := Levenshtein("kitten", 2)
	if err != nil {
		t.Fatalf("Levenshtein: %v", err)
	}

	cases := map[string]bool{
		"kitten":  true,
		"sitten":  true,  // one substitution
		"sittin":  true,  // two substitutions
		"sitting": false, // three edits (k->s, e->i, +g), beyond k=2
		"kit":     false, // three deletions, beyond k=2
	}

	for s, want := range cases {
		got, _ := walk(a, s)
		if got != want {
			t.Errorf("walk(%q) = %v, want %v", s, got, want)
		}
	}
}

func Test_Levenshtein_DoesNotMatchTransposition(t *testing.T) {
	t.Parallel()

	a, err := Levenshtein("ab", 1)
	if err != nil {
		t.Fatalf("Levenshtein: %v", err)
	}
	// "ba" is a transposition of "ab", which costs 2 plain Levenshtein
	// edits (delete+insert or two substitutions), so it's out of reach
	// at edit distance 1.
	if got, _ := walk(a, "ba"); got {
		t.Error("plain Levenshtein at distance 1 should not match a transposition")
	}
}

func Test_Damerau_MatchesTransposition(t *testing.T) {
	t.Parallel()

	a, err := Damerau("ab", 1)
	if err != nil {
		t.Fatalf("Damerau: %v", err)
	}
	if got, _ := walk(a, "ba"); !got {
		t.Error("Damerau-Levenshtein at distance 1 should match an adjacent transposition")
	}
	if got, _ := walk(a, "ab"); !got {
		t.Error("Damerau-Levenshtein should still match the exact string")
	}
	if got, _ := walk(a, "xy"); got {
		t.Error("Damerau-Levenshtein at distance 1 should not match an unrelated string")
	}
}

func Test_Intersect_RequiresAllChildrenToMatch(t *testing.T) {
	t.Parallel()

	prefixA, err := Prefix("a")
	if err != nil {
		t.Fatalf("Prefix: %v", err)
	}
	strAlpha, err := Str("alpha")
	if err != nil {
		t.Fatalf("Str: %v", err)
	}

	both := Intersect(prefixA, strAlpha)

	if got, _ := walk(both, "alpha"); !got {
		t.Error("Intersect(prefix a, str alpha) should match alpha")
	}
	if got, _ := walk(both, "apple"); got {
		t.Error("Intersect(prefix a, str alpha) should not match apple")
	}
}

func Test_Union_MatchesEitherChild(t *testing.T) {
	t.Parallel()

	a, err := Str("cat")
	if err != nil {
		t.Fatalf("Str: %v", err)
	}
	b, err := Str("dog")
	if err != nil {
		t.Fatalf("Str: %v", err)
	}

	either := Union(a, b)

	if got, _ := walk(either, "cat"); !got {
		t.Error("Union(cat, dog) should match cat")
	}
	if got, _ := walk(either, "dog"); !got {
		t.Error("Union(cat, dog) should match dog")
	}
	if got, _ := walk(either, "bird"); got {
		t.Error("Union(cat, dog) should not match bird")
	}
}

func Test_Not_InvertsMatch(t *testing.T) {
	t.Parallel()

	a, err := Str("cat")
	if err != nil {
		t.Fatalf("Str: %v", err)
	}
	notCat := Not(a)

	if got, _ := walk(notCat, "cat"); got {
		t.Error("Not(Str(cat)) should not match cat")
	}
	if got, _ := walk(notCat, "dog"); !got {
		t.Error("Not(Str(cat)) should match dog")
	}
}

func Test_StartsWith_MatchesOnceInnerHasMatchedAndStaysSticky(t *testing.T) {
	t.Parallel()

	inner, err := Str("go")
	if err != nil {
		t.Fatalf("Str: %v", err)
	}
	a := StartsWith(inner)

	if got, _ := walk(a, "go"); !got {
		t.Error("StartsWith(Str(go)) should match go itself")
	}
	if got, _ := walk(a, "gopher"); !got {
		t.Error("StartsWith(Str(go)) should match gopher")
	}
	if got, _ := walk(a, "g"); got {
		t.Error("StartsWith(Str(go)) should not match a strict prefix of go")
	}
}
