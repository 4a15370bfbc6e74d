package arbiter

import (
	"fmt"
	"math/big"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
)

// FinishGame implements spec.md §4.5's finish_game: chain checks out,
// rules.is_final holds on the resulting state, and the escrow is paid
// out to the winner, or split on a draw. Emits GameFinished.
func (a *Arbiter) FinishGame(chain MoveChain) error {
	g, err := a.mustLoad(chain.Checkpoint.Move.GameID)
	if err != nil {
		return err
	}
	if g.State != StateStarted {
		return gjerr.ErrWrongLifecycleState
	}
	if err := a.verifyChain(g, chain); err != nil {
		return err
	}

	final := chain.Next.Move.NewStateBytes
	isFinal, err := g.Rules.IsFinal(final)
	if err != nil {
		return err
	}
	if !isFinal {
		return gjerr.ErrNotFinal
	}

	whiteWins, err := g.Rules.IsWin(final, false)
	if err != nil {
		return err
	}
	redWins, err := g.Rules.IsWin(final, true)
	if err != nil {
		return err
	}
	if whiteWins && redWins {
		return fmt.Errorf("%w: rules module reports both players as winner", gjerr.ErrIllegalMove)
	}

	g.State = StateFinished
	g.StateBytes = final
	if err := a.storage.SaveGame(g); err != nil {
		return err
	}
	_ = a.storage.DeleteTimeout(g.ID)

	isDraw := !whiteWins && !redWins
	if isDraw {
		half := new(big.Int).Div(g.Escrow, big.NewInt(2))
		remainder := new(big.Int).Sub(g.Escrow, half)
		a.ledger.Pay(g.Players[0], half)
		a.ledger.Pay(g.Players[1], remainder)
		a.emit("GameFinished", map[string]string{
			"gameId": fmt.Sprint(g.ID),
			"winner": "",
			"loser":  "",
			"isDraw": "true",
		})
		a.log.Info("game finished in a draw", zapFields(g.ID)...)
		return nil
	}

	winnerIdx := 0
	if redWins {
		winnerIdx = 1
	}
	winner := g.Players[winnerIdx]
	loser := g.Players[1-winnerIdx]
	a.ledger.Pay(winner, g.Escrow)

	a.emit("GameFinished", map[string]string{
		"gameId": fmt.Sprint(g.ID),
		"winner": addrStr(winner),
		"loser":  addrStr(loser),
		"isDraw": "false",
	})
	a.log.Info("game finished", zapFields(g.ID, "winner", addrStr(winner))...)
	return nil
}
