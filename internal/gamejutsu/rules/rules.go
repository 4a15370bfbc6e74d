// Package rules defines the abstract ruleset contract (spec.md §4.3)
// that the arbiter state machine drives without knowing which game it
// is adjudicating, plus a registry so additional rulesets plug in
// without touching arbiter code — the generalization of the teacher's
// dims(gt GameType) board-size switch.
package rules

// Module is the contract every ruleset implements. State and Move are
// opaque byte payloads (codec.GameState.StateBytes / the move_bytes
// field of codec.GameMove) from the arbiter's point of view; only a
// Module knows how to interpret them.
type Module interface {
	// Name identifies the ruleset, e.g. "checkers".
	Name() string

	// DefaultInitialState returns the encoded starting position.
	DefaultInitialState() []byte

	// IsValidMove reports whether move is legal to play against state
	// by playerID (0 or 1, spec.md §4.3), enforcing both the move's own
	// geometry and that playerID is actually entitled to move (spec.md
	// §4.4 rule 2: player_id == 1 iff state.red_moves).
	IsValidMove(state []byte, playerID int, move []byte) (bool, error)

	// Transition computes the state resulting from playerID playing
	// move against state. Callers call IsValidMove first (as the
	// arbiter does before every accepted move, and again when
	// adjudicating a dispute); an implementation may also re-validate
	// and return an error for an illegal move, as checkers.Rules does.
	Transition(state []byte, playerID int, move []byte) ([]byte, error)

	// IsFinal reports whether state is a terminal position.
	IsFinal(state []byte) (bool, error)

	// IsWin reports whether state is a terminal position won by the
	// player identified by playerIsSecond (false = first player/white,
	// true = second player/red, matching spec.md's two-player model).
	IsWin(state []byte, playerIsSecond bool) (bool, error)
}

// Registry maps ruleset names to Module implementations, the same role
// the teacher's dims(gt GameType) switch plays for board geometry:
// a single place new rulesets register so arbiter code never hardcodes
// one engine.
type Registry struct {
	modules map[string]Module
}

// NewRegistry returns a Registry seeded with modules.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{modules: make(map[string]Module, len(modules))}
	for _, m := range modules {
		r.modules[m.Name()] = m
	}
	return r
}

// Register adds or replaces a Module under its own Name().
func (r *Registry) Register(m Module) {
	r.modules[m.Name()] = m
}

// Lookup returns the Module registered under name, or false if none is.
func (r *Registry) Lookup(name string) (Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}
