package arbiter

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
)

// ProposeGame implements spec.md §4.5's propose_game: assigns a new
// game_id, records proposer as players[0], stake = value, and registers
// any session keys aliased to the proposer. Emits GameProposed.
func (a *Arbiter) ProposeGame(ruleName string, proposer common.Address, value *big.Int, sessionKeys []common.Address) (uint64, error) {
	mod, ok := a.rules.Lookup(ruleName)
	if !ok {
		return 0, fmt.Errorf("%w: unknown ruleset %q", gjerr.ErrMalformedPayload, ruleName)
	}

	id, err := a.storage.NextGameID()
	if err != nil {
		return 0, err
	}
	g := newGame(id, mod)
	g.State = StateProposed
	g.Players[0] = proposer
	g.Stake = new(big.Int).Set(value)
	g.Escrow = new(big.Int).Set(value)
	g.StateBytes = mod.DefaultInitialState()
	for _, sk := range sessionKeys {
		g.Sessions[0][sk] = struct{}{}
	}

	a.ledger.Credit(proposer, value)
	if err := a.storage.SaveGame(g); err != nil {
		return 0, err
	}

	a.emit("GameProposed", map[string]string{
		"gameId":   fmt.Sprint(id),
		"stake":    bigStr(value),
		"proposer": addrStr(proposer),
	})
	a.log.Info("game proposed", zapFields(id, "proposer", addrStr(proposer))...)
	return id, nil
}

// AcceptGame implements spec.md §4.5's accept_game: requires caller !=
// players[0], value >= stake, adds to escrow, sets players[1] and
// starts the game. Emits GameStarted.
func (a *Arbiter) AcceptGame(id uint64, caller common.Address, value *big.Int, sessionKeys []common.Address) error {
	g, err := a.mustLoad(id)
	if err != nil {
		return err
	}
	if g.State != StateProposed {
		return gjerr.ErrWrongLifecycleState
	}
	if caller == g.Players[0] {
		return fmt.Errorf("%w: acceptor must differ from proposer", gjerr.ErrNotAMember)
	}
	if value.Cmp(g.Stake) < 0 {
		return gjerr.ErrStakeMismatch
	}

	g.Players[1] = caller
	g.Escrow.Add(g.Escrow, value)
	for _, sk := range sessionKeys {
		g.Sessions[1][sk] = struct{}{}
	}
	g.State = StateStarted

	a.ledger.Credit(caller, value)
	if err := a.storage.SaveGame(g); err != nil {
		return err
	}

	a.emit("GameStarted", map[string]string{
		"gameId":    fmt.Sprint(id),
		"stake":     bigStr(g.Stake),
		"players.0": addrStr(g.Players[0]),
		"players.1": addrStr(g.Players[1]),
	})
	a.log.Info("game started", zapFields(id)...)
	return nil
}

// RegisterSessionAddress implements spec.md §4.5's
// register_session_address: for a member caller, alias addr to their
// player index. Emits SessionAddressRegistered.
func (a *Arbiter) RegisterSessionAddress(id uint64, caller, addr common.Address) error {
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
	g.Sessions[idx][addr] = struct{}{}
	if err := a.storage.SaveGame(g); err != nil {
		return err
	}

	a.emit("SessionAddressRegistered", map[string]string{
		"gameId":      fmt.Sprint(id),
		"player":      addrStr(g.Players[idx]),
		"sessionAddr": addrStr(addr),
	})
	return nil
}

func (a *Arbiter) mustLoad(id uint64) (*Game, error) {
	g, err := a.storage.LoadGame(id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: game %d does not exist", gjerr.ErrWrongLifecycleState, id)
	}
	return g, nil
}
