package checkers

import (
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/codec"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/rules"
)

// Rules implements rules.Module for standard English draughts. It holds
// no state of its own; every method takes the encoded position as an
// argument, the same shape as the teacher's boardDimensions-driven
// per-game dispatch in shared.go, generalized into an interface method
// set (spec.md §4.3).
type Rules struct{}

var _ rules.Module = Rules{}

// New returns a Rules instance. Rules is stateless, so callers may also
// use the zero value directly.
func New() Rules { return Rules{} }

func (Rules) Name() string { return "checkers" }

func (Rules) DefaultInitialState() []byte {
	return codec.EncodeCheckersState(DefaultInitialState())
}

func (Rules) IsValidMove(state []byte, playerID int, move []byte) (bool, error) {
	s, m, err := decodeBoth(state, move)
	if err != nil {
		return false, err
	}
	if err := validateMove(s, playerID, m); err != nil {
		return false, nil
	}
	return true, nil
}

func (Rules) Transition(state []byte, playerID int, move []byte) ([]byte, error) {
	s, m, err := decodeBoth(state, move)
	if err != nil {
		return nil, err
	}
	if err := validateMove(s, playerID, m); err != nil {
		return nil, err
	}
	next := applyMove(s, m)
	return codec.EncodeCheckersState(next), nil
}

func (Rules) IsFinal(state []byte) (bool, error) {
	s, err := codec.DecodeCheckersState(state)
	if err != nil {
		return false, err
	}
	return s.Winner != WinnerNone, nil
}

func (Rules) IsWin(state []byte, playerIsSecond bool) (bool, error) {
	s, err := codec.DecodeCheckersState(state)
	if err != nil {
		return false, err
	}
	if s.Winner == WinnerNone {
		return false, nil
	}
	if playerIsSecond {
		return s.Winner == WinnerRed, nil
	}
	return s.Winner == WinnerWhite, nil
}

func decodeBoth(state, move []byte) (codec.CheckersState, codec.CheckersMove, error) {
	s, err := codec.DecodeCheckersState(state)
	if err != nil {
		return codec.CheckersState{}, codec.CheckersMove{}, err
	}
	m, err := codec.DecodeCheckersMove(move)
	if err != nil {
		return codec.CheckersState{}, codec.CheckersMove{}, err
	}
	return s, m, nil
}
