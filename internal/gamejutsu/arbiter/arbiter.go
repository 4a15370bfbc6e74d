package arbiter

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/codec"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/eventlog"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/rules"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/signer"
)

// Arbiter drives the state machine over an injected Clock, Ledger,
// EventSink (eventlog.Sink) and Storage — the standalone-service
// equivalent of the teacher's contract functions closing over an
// SDKInterface.
type Arbiter struct {
	clock   Clock
	ledger  Ledger
	events  eventlog.Sink
	storage Storage
	rules   *rules.Registry
	log     *zap.Logger
}

// New builds an Arbiter. log may be nil, in which case a no-op logger
// is used.
func New(clock Clock, ledger Ledger, events eventlog.Sink, storage Storage, reg *rules.Registry, log *zap.Logger) *Arbiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Arbiter{clock: clock, ledger: ledger, events: events, storage: storage, rules: reg, log: log}
}

func hashOf(b []byte) common.Hash {
	return crypto.Keccak256Hash(b)
}

func gameMoveOf(g GameMove) codec.GameMove {
	return codec.GameMove{
		GameID:        g.GameID,
		Nonce:         g.Nonce,
		Player:        g.Player,
		OldStateBytes: g.OldStateBytes,
		NewStateBytes: g.NewStateBytes,
		MoveBytes:     g.MoveBytes,
	}
}

// isValidGameMove implements the per-move validity check named in
// spec.md §4.5's chaining contract: "state transition validity: new ≠
// old, game started & not finished, player is a member, rules
// is_valid_move, and hash(rules.transition(old, pid, move)) ==
// hash(new)."
func (a *Arbiter) isValidGameMove(g *Game, m GameMove, playerIdx int) error {
	if bytes.Equal(m.OldStateBytes, m.NewStateBytes) {
		return fmt.Errorf("%w: new state equals old state", gjerr.ErrIllegalMove)
	}
	if g.State != StateStarted {
		return gjerr.ErrWrongLifecycleState
	}
	ok, err := g.Rules.IsValidMove(m.OldStateBytes, playerIdx, m.MoveBytes)
	if err != nil {
		return err
	}
	if !ok {
		return gjerr.ErrIllegalMove
	}
	computed, err := g.Rules.Transition(m.OldStateBytes, playerIdx, m.MoveBytes)
	if err != nil {
		return err
	}
	if hashOf(computed) != hashOf(m.NewStateBytes) {
		return fmt.Errorf("%w: transition result does not match asserted new state", gjerr.ErrIllegalMove)
	}
	return nil
}

// verifyChain implements spec.md §4.5's chaining contract over a
// signed_moves[2] pair: checkpoint co-signed by both members, next move
// signed by its own mover, chained by nonce and state hash, and each
// individually a valid game move.
func (a *Arbiter) verifyChain(g *Game, chain MoveChain) error {
	m0, m1 := chain.Checkpoint.Move, chain.Next.Move
	if m0.GameID != g.ID || m1.GameID != g.ID {
		return fmt.Errorf("%w: game id mismatch", gjerr.ErrChainBroken)
	}
	if m1.Nonce != m0.Nonce+1 {
		return fmt.Errorf("%w: nonce is not chained", gjerr.ErrChainBroken)
	}
	if hashOf(m0.NewStateBytes) != hashOf(m1.OldStateBytes) {
		return fmt.Errorf("%w: new_state[0] != old_state[1]", gjerr.ErrChainBroken)
	}

	idx0, ok := g.playerIndex(m0.Player)
	if !ok {
		return fmt.Errorf("%w: checkpoint player", gjerr.ErrNotAMember)
	}
	idx1, ok := g.playerIndex(m1.Player)
	if !ok {
		return fmt.Errorf("%w: next move player", gjerr.ErrNotAMember)
	}

	if err := a.verifyCoSigned(g, chain.Checkpoint); err != nil {
		return err
	}
	signer1, err := signer.Recover(gameMoveOf(m1), chain.Next.Signature)
	if err != nil {
		return err
	}
	if signer1 != m1.Player {
		return fmt.Errorf("%w: next move not signed by its mover", gjerr.ErrBadSignature)
	}

	if err := a.isValidGameMove(g, m0, idx0); err != nil {
		return err
	}
	if err := a.isValidGameMove(g, m1, idx1); err != nil {
		return err
	}
	return nil
}

// verifyCoSigned requires both members' signatures to recover to each
// player's slot, in either order (session keys may sign for either the
// primary or its own slot, but each signature must land on a distinct
// slot).
func (a *Arbiter) verifyCoSigned(g *Game, cm CoSignedMove) error {
	gm := gameMoveOf(cm.Move)
	signedIdx := make(map[int]bool, NumPlayers)
	for _, sig := range cm.Signatures {
		addr, err := signer.Recover(gm, sig)
		if err != nil {
			return err
		}
		idx, ok := g.playerIndex(addr)
		if !ok {
			return fmt.Errorf("%w: checkpoint signature", gjerr.ErrNotAMember)
		}
		signedIdx[idx] = true
	}
	if len(signedIdx) != NumPlayers {
		return fmt.Errorf("%w: checkpoint not co-signed by both members", gjerr.ErrBadSignature)
	}
	return nil
}

// emit stamps a fresh correlation id on every event; two events from
// the same operation get different ids.
func (a *Arbiter) emit(typ string, attrs map[string]string) {
	a.events.Emit(eventlog.Event{Type: typ, TraceID: uuid.NewString(), Attributes: attrs})
}

func addrStr(a common.Address) string { return a.Hex() }

func bigStr(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
