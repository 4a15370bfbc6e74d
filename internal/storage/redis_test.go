package storage

import (
	"context"
	"math/big"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/arbiter"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/checkers"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/rules"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	reg := rules.NewRegistry(checkers.New())
	return NewRedis(client, context.Background(), reg)
}

func TestRedisGameRoundTrip(t *testing.T) {
	r := newTestRedis(t)
	mod, _ := rules.NewRegistry(checkers.New()).Lookup("checkers")

	g := &arbiter.Game{
		ID:         7,
		Rules:      mod,
		State:      arbiter.StateStarted,
		Players:    [arbiter.NumPlayers]common.Address{common.HexToAddress("0x1"), common.HexToAddress("0x2")},
		Stake:      big.NewInt(50),
		Escrow:     big.NewInt(100),
		Nonce:      3,
		StateBytes: []byte{1, 2, 3},
	}
	g.Sessions[0] = map[common.Address]struct{}{common.HexToAddress("0x3"): {}}
	g.Sessions[1] = map[common.Address]struct{}{}

	require.NoError(t, r.SaveGame(g))
	loaded, err := r.LoadGame(7)
	require.NoError(t, err)
	require.Equal(t, g.ID, loaded.ID)
	require.Equal(t, g.State, loaded.State)
	require.Equal(t, g.Players, loaded.Players)
	require.Equal(t, 0, g.Stake.Cmp(loaded.Stake))
	require.Equal(t, 0, g.Escrow.Cmp(loaded.Escrow))
	require.Equal(t, g.StateBytes, loaded.StateBytes)
	_, aliased := loaded.Sessions[0][common.HexToAddress("0x3")]
	require.True(t, aliased)
}

func TestRedisLoadMissingGameReturnsNil(t *testing.T) {
	r := newTestRedis(t)
	g, err := r.LoadGame(999)
	require.NoError(t, err)
	require.Nil(t, g)
}

func TestRedisNextGameIDIncrements(t *testing.T) {
	r := newTestRedis(t)
	first, err := r.NextGameID()
	require.NoError(t, err)
	second, err := r.NextGameID()
	require.NoError(t, err)
	require.Equal(t, first+1, second)
}

func TestRedisTimeoutRoundTrip(t *testing.T) {
	r := newTestRedis(t)
	timeout := &arbiter.Timeout{
		GameID:    1,
		StartTime: 12345,
		Stake:     big.NewInt(1000),
		Initiator: common.HexToAddress("0x1"),
		PendingMove: arbiter.GameMove{
			GameID: 1, Nonce: 4, Player: common.HexToAddress("0x2"),
			OldStateBytes: []byte("old"), NewStateBytes: []byte("new"), MoveBytes: []byte{1},
		},
	}
	require.NoError(t, r.SaveTimeout(timeout))

	loaded, err := r.LoadTimeout(1)
	require.NoError(t, err)
	require.Equal(t, timeout.GameID, loaded.GameID)
	require.Equal(t, timeout.StartTime, loaded.StartTime)
	require.Equal(t, 0, timeout.Stake.Cmp(loaded.Stake))
	require.Equal(t, timeout.PendingMove, loaded.PendingMove)

	require.NoError(t, r.DeleteTimeout(1))
	loaded2, err := r.LoadTimeout(1)
	require.NoError(t, err)
	require.Nil(t, loaded2)
}
