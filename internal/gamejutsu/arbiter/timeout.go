package arbiter

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/signer"
)

// InitTimeout implements spec.md §4.6's init_timeout: caller posts bond
// (which must equal DefaultTimeoutStake), requires the usual chaining contract, and requires no timeout is
// currently active for the game. Emits TimeoutStarted.
func (a *Arbiter) InitTimeout(chain MoveChain, caller common.Address, bond *big.Int) error {
	g, err := a.mustLoad(chain.Checkpoint.Move.GameID)
	if err != nil {
		return err
	}
	if g.State != StateStarted {
		return gjerr.ErrWrongLifecycleState
	}
	if _, ok := g.playerIndex(caller); !ok {
		return gjerr.ErrNotAMember
	}
	if bond == nil || bond.Cmp(DefaultTimeoutStake()) != 0 {
		return fmt.Errorf("%w: timeout bond must equal DefaultTimeoutStake", gjerr.ErrStakeMismatch)
	}
	existing, err := a.storage.LoadTimeout(g.ID)
	if err != nil {
		return err
	}
	if existing != nil && existing.StartTime != 0 {
		return fmt.Errorf("%w: a timeout is already active", gjerr.ErrTimeoutConflict)
	}
	if err := a.verifyChain(g, chain); err != nil {
		return err
	}

	pending := chain.Next.Move
	t := &Timeout{
		GameID:      g.ID,
		PendingMove: pending,
		StartTime:   a.clock.Now(),
		Stake:       new(big.Int).Set(bond),
		Initiator:   caller,
	}
	if err := a.storage.SaveTimeout(t); err != nil {
		return err
	}
	a.ledger.Credit(caller, bond)

	expiresAt := t.StartTime + TimeoutDurationSeconds
	a.emit("TimeoutStarted", map[string]string{
		"gameId":    fmt.Sprint(g.ID),
		"player":    addrStr(pending.Player),
		"nonce":     fmt.Sprint(pending.Nonce),
		"expiresAt": fmt.Sprint(expiresAt),
	})
	a.log.Info("timeout started", zapFields(g.ID)...)
	return nil
}

// ResolveTimeout implements spec.md §4.6's resolve_timeout: any member
// may submit a valid move continuing from pending_move's successor
// position, signed by the expected next mover. Clears the timeout and
// returns the bond to its initiator.
func (a *Arbiter) ResolveTimeout(signed SignedGameMove) error {
	m := signed.Move
	g, err := a.mustLoad(m.GameID)
	if err != nil {
		return err
	}
	t, err := a.storage.LoadTimeout(g.ID)
	if err != nil {
		return err
	}
	if t == nil || t.StartTime == 0 {
		return fmt.Errorf("%w: no active timeout", gjerr.ErrTimeoutConflict)
	}
	if a.clock.Now() > t.StartTime+TimeoutDurationSeconds {
		return fmt.Errorf("%w: resolve attempted after expiry", gjerr.ErrTimeoutConflict)
	}
	if m.GameID != t.PendingMove.GameID || m.Nonce != t.PendingMove.Nonce+1 {
		return fmt.Errorf("%w: move does not continue from pending position", gjerr.ErrChainBroken)
	}
	if hashOf(m.OldStateBytes) != hashOf(t.PendingMove.NewStateBytes) {
		return fmt.Errorf("%w: old_state does not match pending new_state", gjerr.ErrChainBroken)
	}

	expectedIdx, ok := g.playerIndex(t.PendingMove.Player)
	if !ok {
		return gjerr.ErrNotAMember
	}
	expectedIdx = 1 - expectedIdx
	moverIdx, ok := g.playerIndex(m.Player)
	if !ok || moverIdx != expectedIdx {
		return fmt.Errorf("%w: move not signed by the expected next mover", gjerr.ErrBadSignature)
	}
	addr, err := signer.Recover(gameMoveOf(m), signed.Signature)
	if err != nil {
		return err
	}
	if addr != m.Player {
		return fmt.Errorf("%w: move not signed by its claimed mover", gjerr.ErrBadSignature)
	}
	if err := a.isValidGameMove(g, m, moverIdx); err != nil {
		return err
	}

	if err := a.storage.DeleteTimeout(g.ID); err != nil {
		return err
	}
	a.ledger.Pay(t.Initiator, t.Stake)
	a.log.Info("timeout resolved", zapFields(g.ID)...)
	return nil
}

// FinalizeTimeout implements spec.md §4.6's finalize_timeout: requires
// the active timeout to have strictly expired, disqualifies the
// stalling player (the one whose move was expected in pending_move's
// successor position), and pays the opponent the full escrow plus the
// bond. Emits PlayerDisqualified, GameFinished.
func (a *Arbiter) FinalizeTimeout(gameID uint64) error {
	g, err := a.mustLoad(gameID)
	if err != nil {
		return err
	}
	t, err := a.storage.LoadTimeout(gameID)
	if err != nil {
		return err
	}
	if t == nil || t.StartTime == 0 {
		return fmt.Errorf("%w: no active timeout", gjerr.ErrTimeoutConflict)
	}
	if a.clock.Now() <= t.StartTime+TimeoutDurationSeconds {
		return fmt.Errorf("%w: finalize attempted before expiry", gjerr.ErrTimeoutConflict)
	}

	winnerIdx, ok := g.playerIndex(t.PendingMove.Player)
	if !ok {
		return gjerr.ErrNotAMember
	}
	loserIdx := 1 - winnerIdx
	winner := g.Players[winnerIdx]
	loser := g.Players[loserIdx]

	g.State = StateFinished
	if err := a.storage.SaveGame(g); err != nil {
		return err
	}
	if err := a.storage.DeleteTimeout(gameID); err != nil {
		return err
	}

	total := new(big.Int).Add(g.Escrow, t.Stake)
	a.ledger.Pay(winner, total)

	a.emit("PlayerDisqualified", map[string]string{
		"gameId": fmt.Sprint(gameID),
		"player": addrStr(loser),
	})
	a.emit("GameFinished", map[string]string{
		"gameId": fmt.Sprint(gameID),
		"winner": addrStr(winner),
		"loser":  addrStr(loser),
		"isDraw": "false",
	})
	a.log.Warn("timeout finalized, stalling player disqualified", zapFields(gameID, "loser", addrStr(loser))...)
	return nil
}
