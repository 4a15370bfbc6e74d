// Package gjerr defines the flat error taxonomy every Arbiter operation
// fails with. An operation aborts atomically on any of these: no partial
// state change, no payout, no event.
package gjerr

import "errors"

var (
	// ErrNotAMember is returned when the caller, or a signature's
	// recovered signer, is not registered in the target game.
	ErrNotAMember = errors.New("gamejutsu: not a member")

	// ErrWrongLifecycleState is returned when a game is not in the
	// lifecycle state an operation requires (e.g. Started).
	ErrWrongLifecycleState = errors.New("gamejutsu: wrong lifecycle state")

	// ErrStakeMismatch is returned when the value supplied is below the
	// required stake or differs from the required timeout bond.
	ErrStakeMismatch = errors.New("gamejutsu: stake mismatch")

	// ErrMalformedPayload is returned by the codec on decode failure:
	// truncation, bad length prefixes, or an out-of-range enum tag.
	ErrMalformedPayload = errors.New("gamejutsu: malformed payload")

	// ErrBadSignature is returned when a signature does not recover to
	// the address it claims to be signed by.
	ErrBadSignature = errors.New("gamejutsu: bad signature")

	// ErrChainBroken is returned when a signed_moves[2] pair fails the
	// chaining contract (same game, nonce+1, new[0]==old[1] by hash).
	ErrChainBroken = errors.New("gamejutsu: move chain broken")

	// ErrIllegalMove is returned when the rules module rejects a move,
	// or the transition it computes doesn't match the asserted new
	// state.
	ErrIllegalMove = errors.New("gamejutsu: illegal move")

	// ErrNotFinal is returned when finish_game is invoked on a
	// non-terminal position.
	ErrNotFinal = errors.New("gamejutsu: position is not final")

	// ErrTimeoutConflict is returned for any timeout sub-machine misuse:
	// init with one already active, resolve/finalize with none active,
	// resolve after expiry, or finalize before expiry.
	ErrTimeoutConflict = errors.New("gamejutsu: timeout conflict")
)
