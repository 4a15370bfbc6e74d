package arbiter

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
)

// Resign implements spec.md §4.5's resign: caller must be a member;
// opponent wins the full escrow. Emits PlayerResigned, GameFinished.
func (a *Arbiter) Resign(id uint64, caller common.Address) error {
	g, err := a.mustLoad(id)
	if err != nil {
		return err
	}
	if g.State != StateStarted {
		return gjerr.ErrWrongLifecycleState
	}
	idx, ok := g.playerIndex(caller)
	if !ok {
		return gjerr.ErrNotAMember
	}
	winnerIdx := 1 - idx
	winner := g.Players[winnerIdx]
	loser := g.Players[idx]

	g.State = StateFinished
	if err := a.storage.SaveGame(g); err != nil {
		return err
	}
	if t, err := a.storage.LoadTimeout(id); err == nil && t != nil {
		_ = a.storage.DeleteTimeout(id)
	}

	a.ledger.Pay(winner, g.Escrow)

	a.emit("PlayerResigned", map[string]string{
		"gameId": fmt.Sprint(id),
		"player": addrStr(loser),
	})
	a.emit("GameFinished", map[string]string{
		"gameId": fmt.Sprint(id),
		"winner": addrStr(winner),
		"loser":  addrStr(loser),
		"isDraw": "false",
	})
	a.log.Info("player resigned", zapFields(id, "player", addrStr(loser))...)
	return nil
}
