// Package arbiter implements the GameJutsu state-channel dispute
// arbiter (spec.md §4.5/§4.6): propose/accept/resign/dispute/finish
// lifecycle plus a timeout sub-machine, driven over an injected Clock,
// Ledger, EventSink, and Storage exactly the way the teacher's contract
// package is driven over an injected SDKInterface (contract/sdkInterface.go).
package arbiter

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/rules"
)

// Lifecycle states, spec.md §4.5.
type Lifecycle uint8

const (
	StateNone Lifecycle = iota
	StateProposed
	StateStarted
	StateFinished
)

// NUM_PLAYERS, spec.md §6.
const NumPlayers = 2

// TimeoutDurationSeconds is TIMEOUT_DURATION, spec.md §6.
const (
	TimeoutDurationSeconds = 300
)

// DefaultTimeoutStake is 0.1 ether expressed in base units (1e17), the
// literal from spec.md §6.
func DefaultTimeoutStake() *big.Int {
	return new(big.Int).SetUint64(100_000_000_000_000_000)
}

// Game holds one game_id's full lifecycle state.
type Game struct {
	ID      uint64
	Rules   rules.Module
	State   Lifecycle
	Players [NumPlayers]common.Address
	// Sessions[i] holds addresses aliased to Players[i], spec.md §4.5
	// "session keys", modeled as primary/sessions sets rather than a
	// single flat address→slot map (see DESIGN.md, "Session keys").
	Sessions [NumPlayers]map[common.Address]struct{}
	// Stake is the per-side amount required, set from propose_game's
	// value. Escrow is the running total actually collected (stake from
	// the proposer, plus whatever the acceptor contributed, which may
	// exceed Stake since accept_game only requires value >= stake).
	// Terminal payouts disburse the full Escrow, matching spec.md §8
	// property 4 (stake_out == stake_in) and the "stake 2S" scenario
	// language in §8's S5/S6.
	Stake  *big.Int
	Escrow *big.Int
	Nonce  uint64
	// StateBytes is set to the rules module's initial state at
	// propose_game and replaced only by finish_game's final state;
	// resolve_timeout and the other operations do not update it.
	StateBytes []byte
}

// Timeout holds the active stall-recovery record for one game, spec.md
// §4.6. StartTime == 0 means no active timeout.
type Timeout struct {
	GameID      uint64
	PendingMove GameMove
	StartTime   int64
	Stake       *big.Int
	Initiator   common.Address
}

// GameMove is the arbiter-level move assertion from spec.md §3: "from
// old_state, player plays move, yielding new_state" at a given nonce.
// It mirrors codec.GameMove field-for-field but is the type arbiter
// logic operates on directly, keeping the codec package purely about
// encode/decode.
type GameMove struct {
	GameID        uint64
	Nonce         uint64
	Player        common.Address
	OldStateBytes []byte
	NewStateBytes []byte
	MoveBytes     []byte
}

// SignedGameMove pairs a GameMove with its signature bytes.
type SignedGameMove struct {
	Move      GameMove
	Signature []byte
}

// CoSignedMove pairs a GameMove with both members' signatures, spec.md
// §4.5's "checkpoint both have agreed upon" (glossary: co-signed move).
type CoSignedMove struct {
	Move       GameMove
	Signatures [NumPlayers][]byte
}

// MoveChain is the signed_moves[2] pair named throughout spec.md
// §4.5/§4.6: a co-signed checkpoint followed by a single mover-signed
// move.
type MoveChain struct {
	Checkpoint CoSignedMove
	Next       SignedGameMove
}

func newGame(id uint64, r rules.Module) *Game {
	return &Game{
		ID:    id,
		Rules: r,
		State: StateNone,
		Sessions: [NumPlayers]map[common.Address]struct{}{
			{}, {},
		},
	}
}

// playerIndex returns the membership slot (0 or 1) for addr, checking
// primary addresses first and then session aliases. ok is false if addr
// is not a member.
func (g *Game) playerIndex(addr common.Address) (idx int, ok bool) {
	for i, p := range g.Players {
		if p == addr {
			return i, true
		}
	}
	for i, sessions := range g.Sessions {
		if _, present := sessions[addr]; present {
			return i, true
		}
	}
	return 0, false
}
