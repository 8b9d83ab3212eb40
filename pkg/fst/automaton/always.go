package automaton

type alwaysAutomaton struct{}

// Always returns an automaton that accepts every key; it imposes no
// filtering, used by Reader.Range. Its state is always nil; IsMatch and
// CanMatch return true for it.
func Always() Automaton { return alwaysAutomaton{} }

func (alwaysAutomaton) Start() any                     { return nil }
func (alwaysAutomaton) IsMatch(any) bool                { return true }
func (alwaysAutomaton) CanMatch(any) bool                { return true }
func (alwaysAutomaton) Accept(state any, _ []byte) any { return state }
