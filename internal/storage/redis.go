// Package storage gives the arbiter.Storage interface two concrete
// backings, grounded on park285-Cheese-KakaoTalk-bot's Redis
// (internal/pvpchan/store_redis.go) and Postgres
// (internal/pvpchess/repository.go) adapters: JSON blobs under
// namespaced keys for Redis, a single games/timeouts pair of tables for
// Postgres.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/arbiter"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/rules"
)

// Redis implements arbiter.Storage over a *redis.Client, the same
// client type park285's pvpchan.Store wraps. A rules.Registry is needed
// to reconstruct a Game's Rules field, since a rules.Module is an
// interface and only its registered name survives the JSON round trip.
type Redis struct {
	rdb *redis.Client
	ctx context.Context
	reg *rules.Registry
}

// NewRedis wraps rdb, resolving persisted games' rulesets through reg.
// ctx is used for every call; pass context.Background() for a
// long-lived adapter.
func NewRedis(rdb *redis.Client, ctx context.Context, reg *rules.Registry) *Redis {
	return &Redis{rdb: rdb, ctx: ctx, reg: reg}
}

var _ arbiter.Storage = (*Redis)(nil)

func (r *Redis) keyGame(id uint64) string    { return fmt.Sprintf("gj:game:%d", id) }
func (r *Redis) keyTimeout(id uint64) string { return fmt.Sprintf("gj:timeout:%d", id) }
const keyNextID = "gj:next_game_id"

type gameDTO struct {
	ID         uint64
	State      arbiter.Lifecycle
	RuleName   string
	Players    [arbiter.NumPlayers]common.Address
	Sessions   [arbiter.NumPlayers][]common.Address
	Stake      string
	Escrow     string
	Nonce      uint64
	StateBytes []byte
}

type timeoutDTO struct {
	GameID        uint64
	PendingMove   moveDTO
	StartTime     int64
	Stake         string
	Initiator     common.Address
}

type moveDTO struct {
	GameID        uint64
	Nonce         uint64
	Player        common.Address
	OldStateBytes []byte
	NewStateBytes []byte
	MoveBytes     []byte
}

func (r *Redis) SaveGame(g *arbiter.Game) error {
	dto := gameDTO{
		ID:         g.ID,
		State:      g.State,
		RuleName:   g.Rules.Name(),
		Players:    g.Players,
		Stake:      bigStringOrZero(g.Stake),
		Escrow:     bigStringOrZero(g.Escrow),
		Nonce:      g.Nonce,
		StateBytes: g.StateBytes,
	}
	for i, sessions := range g.Sessions {
		for addr := range sessions {
			dto.Sessions[i] = append(dto.Sessions[i], addr)
		}
	}
	raw, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	return r.rdb.Set(r.ctx, r.keyGame(g.ID), raw, 0).Err()
}

func (r *Redis) LoadGame(id uint64) (*arbiter.Game, error) {
	raw, err := r.rdb.Get(r.ctx, r.keyGame(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var dto gameDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}
	mod, ok := r.reg.Lookup(dto.RuleName)
	if !ok {
		return nil, fmt.Errorf("storage: unknown ruleset %q for game %d", dto.RuleName, id)
	}
	stake, ok := new(big.Int).SetString(dto.Stake, 10)
	if !ok {
		return nil, fmt.Errorf("storage: bad stake %q for game %d", dto.Stake, id)
	}
	escrow, ok := new(big.Int).SetString(dto.Escrow, 10)
	if !ok {
		return nil, fmt.Errorf("storage: bad escrow %q for game %d", dto.Escrow, id)
	}

	g := &arbiter.Game{
		ID:         dto.ID,
		Rules:      mod,
		State:      dto.State,
		Players:    dto.Players,
		Stake:      stake,
		Escrow:     escrow,
		Nonce:      dto.Nonce,
		StateBytes: dto.StateBytes,
	}
	for i, addrs := range dto.Sessions {
		g.Sessions[i] = make(map[common.Address]struct{}, len(addrs))
		for _, addr := range addrs {
			g.Sessions[i][addr] = struct{}{}
		}
	}
	return g, nil
}

func bigStringOrZero(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func (r *Redis) NextGameID() (uint64, error) {
	id, err := r.rdb.Incr(r.ctx, keyNextID).Result()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *Redis) SaveTimeout(t *arbiter.Timeout) error {
	dto := timeoutDTO{
		GameID:    t.GameID,
		StartTime: t.StartTime,
		Stake:     bigStringOrZero(t.Stake),
		Initiator: t.Initiator,
		PendingMove: moveDTO{
			GameID:        t.PendingMove.GameID,
			Nonce:         t.PendingMove.Nonce,
			Player:        t.PendingMove.Player,
			OldStateBytes: t.PendingMove.OldStateBytes,
			NewStateBytes: t.PendingMove.NewStateBytes,
			MoveBytes:     t.PendingMove.MoveBytes,
		},
	}
	raw, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	return r.rdb.Set(r.ctx, r.keyTimeout(t.GameID), raw, 0).Err()
}

func (r *Redis) LoadTimeout(gameID uint64) (*arbiter.Timeout, error) {
	raw, err := r.rdb.Get(r.ctx, r.keyTimeout(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var dto timeoutDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}
	stake, ok := new(big.Int).SetString(dto.Stake, 10)
	if !ok {
		return nil, fmt.Errorf("storage: bad stake %q for timeout %d", dto.Stake, gameID)
	}
	return &arbiter.Timeout{
		GameID:    dto.GameID,
		StartTime: dto.StartTime,
		Stake:     stake,
		Initiator: dto.Initiator,
		PendingMove: arbiter.GameMove{
			GameID:        dto.PendingMove.GameID,
			Nonce:         dto.PendingMove.Nonce,
			Player:        dto.PendingMove.Player,
			OldStateBytes: dto.PendingMove.OldStateBytes,
			NewStateBytes: dto.PendingMove.NewStateBytes,
			MoveBytes:     dto.PendingMove.MoveBytes,
		},
	}, nil
}

func (r *Redis) DeleteTimeout(gameID uint64) error {
	return r.rdb.Del(r.ctx, r.keyTimeout(gameID)).Err()
}
