package arbiter

import (
	"fmt"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/signer"
)

// DisputeMove implements spec.md §4.5's dispute_move: mover-signed move
// for which the rules module's is_valid_move is false disqualifies the
// mover; the opponent takes the full escrow. Emits PlayerDisqualified,
// GameFinished.
func (a *Arbiter) DisputeMove(signed SignedGameMove) error {
	m := signed.Move
	g, err := a.mustLoad(m.GameID)
	if err != nil {
		return err
	}
	if g.State != StateStarted {
		return gjerr.ErrWrongLifecycleState
	}

	moverAddr, err := signer.Recover(gameMoveOf(m), signed.Signature)
	if err != nil {
		return err
	}
	if moverAddr != m.Player {
		return fmt.Errorf("%w: move not signed by its claimed mover", gjerr.ErrBadSignature)
	}
	moverIdx, ok := g.playerIndex(m.Player)
	if !ok {
		return gjerr.ErrNotAMember
	}

	ok2, err := g.Rules.IsValidMove(m.OldStateBytes, moverIdx, m.MoveBytes)
	if err != nil {
		return err
	}
	if ok2 {
		return fmt.Errorf("%w: disputed move is in fact valid", gjerr.ErrIllegalMove)
	}

	winnerIdx := 1 - moverIdx
	winner := g.Players[winnerIdx]
	loser := g.Players[moverIdx]

	g.State = StateFinished
	if err := a.storage.SaveGame(g); err != nil {
		return err
	}
	_ = a.storage.DeleteTimeout(g.ID)

	a.ledger.Pay(winner, g.Escrow)

	a.emit("PlayerDisqualified", map[string]string{
		"gameId": fmt.Sprint(g.ID),
		"player": addrStr(loser),
	})
	a.emit("GameFinished", map[string]string{
		"gameId": fmt.Sprint(g.ID),
		"winner": addrStr(winner),
		"loser":  addrStr(loser),
		"isDraw": "false",
	})
	a.log.Warn("move disputed, mover disqualified", zapFields(g.ID, "mover", addrStr(loser))...)
	return nil
}
