package arbiter

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/checkers"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/codec"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/eventlog"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/rules"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/signer"
)

type fixture struct {
	a       *Arbiter
	storage *MemStorage
	ledger  *MemLedger
	events  *eventlog.MemSink
	clock   *FakeClock
	white   *ecdsa.PrivateKey
	red     *ecdsa.PrivateKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	white, err := crypto.GenerateKey()
	require.NoError(t, err)
	red, err := crypto.GenerateKey()
	require.NoError(t, err)

	reg := rules.NewRegistry(checkers.New())
	storage := NewMemStorage()
	ledger := NewMemLedger()
	events := eventlog.NewMemSink()
	clock := NewFakeClock(1000)

	return &fixture{
		a:       New(clock, ledger, events, storage, reg, nil),
		storage: storage,
		ledger:  ledger,
		events:  events,
		clock:   clock,
		white:   white,
		red:     red,
	}
}

func (f *fixture) whiteAddr() common.Address { return crypto.PubkeyToAddress(f.white.PublicKey) }
func (f *fixture) redAddr() common.Address   { return crypto.PubkeyToAddress(f.red.PublicKey) }

func sign(t *testing.T, key *ecdsa.PrivateKey, m codec.GameMove) []byte {
	t.Helper()
	sig, err := signer.Sign(key, m)
	require.NoError(t, err)
	return sig
}

func (f *fixture) proposeAndStart(t *testing.T, stake *big.Int) uint64 {
	t.Helper()
	id, err := f.a.ProposeGame("checkers", f.whiteAddr(), stake, nil)
	require.NoError(t, err)
	require.NoError(t, f.a.AcceptGame(id, f.redAddr(), stake, nil))
	return id
}

func TestProposeAcceptHappyPath(t *testing.T) {
	f := newFixture(t)
	stake := big.NewInt(100)
	id := f.proposeAndStart(t, stake)

	g, err := f.storage.LoadGame(id)
	require.NoError(t, err)
	require.Equal(t, StateStarted, g.State)
	require.Equal(t, 0, g.Escrow.Cmp(big.NewInt(200)))

	require.Equal(t, "GameProposed", f.events.Events[0].Type)
	require.Equal(t, "GameStarted", f.events.Events[1].Type)
}

func TestAcceptGameRejectsSameProposer(t *testing.T) {
	f := newFixture(t)
	stake := big.NewInt(100)
	id, err := f.a.ProposeGame("checkers", f.whiteAddr(), stake, nil)
	require.NoError(t, err)

	err = f.a.AcceptGame(id, f.whiteAddr(), stake, nil)
	require.ErrorIs(t, err, gjerr.ErrNotAMember)
}

func TestAcceptGameRejectsUnderStake(t *testing.T) {
	f := newFixture(t)
	id, err := f.a.ProposeGame("checkers", f.whiteAddr(), big.NewInt(100), nil)
	require.NoError(t, err)

	err = f.a.AcceptGame(id, f.redAddr(), big.NewInt(50), nil)
	require.ErrorIs(t, err, gjerr.ErrStakeMismatch)
}

func TestResignPaysOpponentFullEscrow(t *testing.T) {
	f := newFixture(t)
	id := f.proposeAndStart(t, big.NewInt(100))

	require.NoError(t, f.a.Resign(id, f.whiteAddr()))

	g, err := f.storage.LoadGame(id)
	require.NoError(t, err)
	require.Equal(t, StateFinished, g.State)
	require.Equal(t, 0, f.ledger.Balance(f.redAddr()).Cmp(big.NewInt(100)))
}

// S2/S5 — dispute of an invalid move. White signs a move claiming an
// illegal backward step; red disputes it.
func TestDisputeMoveDisqualifiesCheater(t *testing.T) {
	f := newFixture(t)
	stake := big.NewInt(100)
	id := f.proposeAndStart(t, stake)

	r := checkers.New()
	initial := r.DefaultInitialState()
	badMove := codec.EncodeCheckersMove(codec.CheckersMove{From: 21, To: 17, IsJump: false, PassToOpponent: true})
	fakeNewState, err := r.Transition(initial, 0, codec.EncodeCheckersMove(codec.CheckersMove{From: 9, To: 14, IsJump: false, PassToOpponent: true}))
	require.NoError(t, err)

	gm := codec.GameMove{
		GameID:        id,
		Nonce:         1,
		Player:        f.whiteAddr(),
		OldStateBytes: initial,
		NewStateBytes: fakeNewState,
		MoveBytes:     badMove,
	}
	sig := sign(t, f.white, gm)

	err = f.a.DisputeMove(SignedGameMove{
		Move: GameMove{
			GameID: id, Nonce: 1, Player: f.whiteAddr(),
			OldStateBytes: initial, NewStateBytes: fakeNewState, MoveBytes: badMove,
		},
		Signature: sig,
	})
	require.NoError(t, err)

	g, err := f.storage.LoadGame(id)
	require.NoError(t, err)
	require.Equal(t, StateFinished, g.State)
	require.Equal(t, 0, f.ledger.Balance(f.redAddr()).Cmp(big.NewInt(100)))
	require.Equal(t, "PlayerDisqualified", f.events.Events[len(f.events.Events)-2].Type)
	require.Equal(t, "GameFinished", f.events.Events[len(f.events.Events)-1].Type)
}

// A player may not claim a move for the color whose turn it is not,
// even if the move_bytes would otherwise be a legal move for that
// color (spec.md §4.4 rule 2). Red signs a move shaped like a legal
// white opening while white's turn is still current; the dispute must
// disqualify red.
func TestDisputeMoveDisqualifiesColorImpersonation(t *testing.T) {
	f := newFixture(t)
	stake := big.NewInt(100)
	id := f.proposeAndStart(t, stake)

	r := checkers.New()
	initial := r.DefaultInitialState()
	moveBytes := codec.EncodeCheckersMove(codec.CheckersMove{From: 9, To: 14, IsJump: false, PassToOpponent: true})
	claimedNewState, err := r.Transition(initial, 0, moveBytes)
	require.NoError(t, err)

	gm := codec.GameMove{
		GameID:        id,
		Nonce:         1,
		Player:        f.redAddr(),
		OldStateBytes: initial,
		NewStateBytes: claimedNewState,
		MoveBytes:     moveBytes,
	}
	sig := sign(t, f.red, gm)

	err = f.a.DisputeMove(SignedGameMove{
		Move: GameMove{
			GameID: id, Nonce: 1, Player: f.redAddr(),
			OldStateBytes: initial, NewStateBytes: claimedNewState, MoveBytes: moveBytes,
		},
		Signature: sig,
	})
	require.NoError(t, err)

	g, err := f.storage.LoadGame(id)
	require.NoError(t, err)
	require.Equal(t, StateFinished, g.State)
	require.Equal(t, 0, f.ledger.Balance(f.whiteAddr()).Cmp(big.NewInt(100)))
}

// S6 — timeout finalize.
func TestTimeoutFinalizePaysEscrowPlusBond(t *testing.T) {
	f := newFixture(t)
	stake := big.NewInt(100)
	id := f.proposeAndStart(t, stake)

	r := checkers.New()
	initial := r.DefaultInitialState()
	move0 := codec.EncodeCheckersMove(codec.CheckersMove{From: 9, To: 14, IsJump: false, PassToOpponent: true})
	state1, err := r.Transition(initial, 0, move0)
	require.NoError(t, err)

	checkpointMove := codec.GameMove{
		GameID: id, Nonce: 1, Player: f.whiteAddr(),
		OldStateBytes: initial, NewStateBytes: state1, MoveBytes: move0,
	}
	sigWhite := sign(t, f.white, checkpointMove)
	sigRed := sign(t, f.red, checkpointMove)

	// move[1]: red plays a legal move from state1, advancing to state2.
	move1Bytes := codec.EncodeCheckersMove(codec.CheckersMove{From: 21, To: 17, IsJump: false, PassToOpponent: true})
	state2, err := r.Transition(state1, 1, move1Bytes)
	require.NoError(t, err)
	nextMove := codec.GameMove{
		GameID: id, Nonce: 2, Player: f.redAddr(),
		OldStateBytes: state1, NewStateBytes: state2, MoveBytes: move1Bytes,
	}
	sigRedNext := sign(t, f.red, nextMove)

	chain := MoveChain{
		Checkpoint: CoSignedMove{
			Move:       GameMove{GameID: id, Nonce: 1, Player: f.whiteAddr(), OldStateBytes: initial, NewStateBytes: state1, MoveBytes: move0},
			Signatures: [NumPlayers][]byte{sigWhite, sigRed},
		},
		Next: SignedGameMove{
			Move:      GameMove{GameID: id, Nonce: 2, Player: f.redAddr(), OldStateBytes: state1, NewStateBytes: state2, MoveBytes: move1Bytes},
			Signature: sigRedNext,
		},
	}

	require.NoError(t, f.a.InitTimeout(chain, f.whiteAddr(), DefaultTimeoutStake()))

	f.clock.Advance(TimeoutDurationSeconds + 1)
	require.NoError(t, f.a.FinalizeTimeout(id))

	// Red's move (nextMove) left white as the side expected to respond;
	// white never did, so red — who already moved and was waiting — is
	// the winner. Net balance is what was paid out minus what was paid
	// in: red contributed `stake` to escrow and gets back the full
	// Escrow (2*stake) plus the bond white posted.
	netRed := new(big.Int).Sub(new(big.Int).Add(stake, stake), stake)
	netRed.Add(netRed, DefaultTimeoutStake())
	require.Equal(t, 0, f.ledger.Balance(f.redAddr()).Cmp(netRed))
}
