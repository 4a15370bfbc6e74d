package arbiter

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Clock supplies the host block timestamp, spec.md §5 "the only clock
// dependency is now (host timestamp), read once per operation" — the
// generalization of the teacher's SDKInterface.GetTime.
type Clock interface {
	Now() int64
}

// Ledger custodies stake and bond value, spec.md §1 "value transfer...
// treated as injected interfaces" — the generalization of the teacher's
// SDKInterface funds-transfer calls.
type Ledger interface {
	// Credit records that amount was received from addr toward a game's
	// escrow (called on propose_game/accept_game/init_timeout).
	Credit(addr common.Address, amount *big.Int)
	// Pay transfers amount to addr out of escrow (called on every payout
	// path: resign, dispute, finish, timeout finalize/resolve).
	Pay(addr common.Address, amount *big.Int)
	// Balance reports addr's running net balance, for tests asserting
	// spec.md §8 property 4 (stake_out == stake_in).
	Balance(addr common.Address) *big.Int
}

// MemLedger is an in-memory Ledger, the arbiter-package analogue of the
// teacher's FakeSDK funds bookkeeping in contract/sdkInterface.go.
type MemLedger struct {
	balances map[common.Address]*big.Int
}

func NewMemLedger() *MemLedger {
	return &MemLedger{balances: make(map[common.Address]*big.Int)}
}

func (l *MemLedger) get(addr common.Address) *big.Int {
	b, ok := l.balances[addr]
	if !ok {
		b = new(big.Int)
		l.balances[addr] = b
	}
	return b
}

func (l *MemLedger) Credit(addr common.Address, amount *big.Int) {
	l.get(addr).Sub(l.get(addr), amount)
}

func (l *MemLedger) Pay(addr common.Address, amount *big.Int) {
	l.get(addr).Add(l.get(addr), amount)
}

func (l *MemLedger) Balance(addr common.Address) *big.Int {
	return new(big.Int).Set(l.get(addr))
}

// SystemClock reads the wall clock via an injected now func, so tests
// never depend on real time passing.
type SystemClock struct {
	now func() int64
}

func NewSystemClock(now func() int64) *SystemClock {
	return &SystemClock{now: now}
}

func (c *SystemClock) Now() int64 { return c.now() }

// FakeClock is a manually advanced Clock, the arbiter-package analogue
// of the teacher's FakeSDK.BlockTime, used throughout the timeout tests.
type FakeClock struct {
	t int64
}

func NewFakeClock(t int64) *FakeClock { return &FakeClock{t: t} }

func (c *FakeClock) Now() int64 { return c.t }

func (c *FakeClock) Advance(seconds int64) { c.t += seconds }
