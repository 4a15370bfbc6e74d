package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	_ "github.com/lib/pq"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/arbiter"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/rules"
)

func parseBig(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("storage: invalid integer %q", s)
	}
	return v, nil
}

// Postgres implements arbiter.Storage over a *sql.DB using the "postgres"
// driver, grounded on park285-Cheese-KakaoTalk-bot's
// internal/pvpchess.Repository (pool sizing, ping-on-open, upsert style).
type Postgres struct {
	db  *sql.DB
	reg *rules.Registry
}

// NewPostgres opens databaseURL, pings it, and returns a Postgres
// adapter resolving persisted games' rulesets through reg.
func NewPostgres(databaseURL string, reg *rules.Registry) (*Postgres, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("storage: postgres DSN is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Postgres{db: db, reg: reg}, nil
}

func (p *Postgres) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

var _ arbiter.Storage = (*Postgres)(nil)

func (p *Postgres) SaveGame(g *arbiter.Game) error {
	sessions := make([][]string, arbiter.NumPlayers)
	for i, set := range g.Sessions {
		for addr := range set {
			sessions[i] = append(sessions[i], addr.Hex())
		}
	}
	sessionsRaw, err := json.Marshal(sessions)
	if err != nil {
		return err
	}

	const q = `INSERT INTO gj_games (
		game_id, rule_name, state, player0, player1, sessions,
		stake, escrow, nonce, state_bytes
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (game_id) DO UPDATE SET
		state=EXCLUDED.state,
		player1=EXCLUDED.player1,
		sessions=EXCLUDED.sessions,
		escrow=EXCLUDED.escrow,
		nonce=EXCLUDED.nonce,
		state_bytes=EXCLUDED.state_bytes`

	_, err = p.db.Exec(q,
		g.ID, g.Rules.Name(), int(g.State),
		g.Players[0].Hex(), g.Players[1].Hex(), string(sessionsRaw),
		bigStringOrZero(g.Stake), bigStringOrZero(g.Escrow), g.Nonce, g.StateBytes,
	)
	return err
}

func (p *Postgres) LoadGame(id uint64) (*arbiter.Game, error) {
	const q = `SELECT rule_name, state, player0, player1, sessions, stake, escrow, nonce, state_bytes
		FROM gj_games WHERE game_id = $1`
	row := p.db.QueryRow(q, id)

	var ruleName, player0, player1, sessionsRaw, stakeStr, escrowStr string
	var state int
	var nonce uint64
	var stateBytes []byte
	if err := row.Scan(&ruleName, &state, &player0, &player1, &sessionsRaw, &stakeStr, &escrowStr, &nonce, &stateBytes); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	mod, ok := p.reg.Lookup(ruleName)
	if !ok {
		return nil, fmt.Errorf("storage: unknown ruleset %q for game %d", ruleName, id)
	}
	stake, err := parseBig(stakeStr)
	if err != nil {
		return nil, err
	}
	escrow, err := parseBig(escrowStr)
	if err != nil {
		return nil, err
	}

	var sessions [arbiter.NumPlayers][]string
	if err := json.Unmarshal([]byte(sessionsRaw), &sessions); err != nil {
		return nil, err
	}

	g := &arbiter.Game{
		ID:         id,
		Rules:      mod,
		State:      arbiter.Lifecycle(state),
		Stake:      stake,
		Escrow:     escrow,
		Nonce:      nonce,
		StateBytes: stateBytes,
	}
	g.Players[0] = common.HexToAddress(player0)
	g.Players[1] = common.HexToAddress(player1)
	for i, addrs := range sessions {
		g.Sessions[i] = make(map[common.Address]struct{}, len(addrs))
		for _, a := range addrs {
			g.Sessions[i][common.HexToAddress(a)] = struct{}{}
		}
	}
	return g, nil
}

func (p *Postgres) NextGameID() (uint64, error) {
	var id uint64
	const q = `INSERT INTO gj_game_ids DEFAULT VALUES RETURNING id`
	if err := p.db.QueryRow(q).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (p *Postgres) SaveTimeout(t *arbiter.Timeout) error {
	const q = `INSERT INTO gj_timeouts (
		game_id, pending_move, start_time, stake, initiator
	) VALUES ($1,$2,$3,$4,$5)
	ON CONFLICT (game_id) DO UPDATE SET
		pending_move=EXCLUDED.pending_move,
		start_time=EXCLUDED.start_time,
		stake=EXCLUDED.stake,
		initiator=EXCLUDED.initiator`

	raw, err := json.Marshal(moveDTO{
		GameID:        t.PendingMove.GameID,
		Nonce:         t.PendingMove.Nonce,
		Player:        t.PendingMove.Player,
		OldStateBytes: t.PendingMove.OldStateBytes,
		NewStateBytes: t.PendingMove.NewStateBytes,
		MoveBytes:     t.PendingMove.MoveBytes,
	})
	if err != nil {
		return err
	}
	_, err = p.db.Exec(q, t.GameID, string(raw), t.StartTime, bigStringOrZero(t.Stake), t.Initiator.Hex())
	return err
}

func (p *Postgres) LoadTimeout(gameID uint64) (*arbiter.Timeout, error) {
	const q = `SELECT pending_move, start_time, stake, initiator FROM gj_timeouts WHERE game_id = $1`
	row := p.db.QueryRow(q, gameID)

	var pendingRaw, stakeStr, initiator string
	var startTime int64
	if err := row.Scan(&pendingRaw, &startTime, &stakeStr, &initiator); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var dto moveDTO
	if err := json.Unmarshal([]byte(pendingRaw), &dto); err != nil {
		return nil, err
	}
	stake, err := parseBig(stakeStr)
	if err != nil {
		return nil, err
	}
	return &arbiter.Timeout{
		GameID:    gameID,
		StartTime: startTime,
		Stake:     stake,
		Initiator: common.HexToAddress(initiator),
		PendingMove: arbiter.GameMove{
			GameID:        dto.GameID,
			Nonce:         dto.Nonce,
			Player:        dto.Player,
			OldStateBytes: dto.OldStateBytes,
			NewStateBytes: dto.NewStateBytes,
			MoveBytes:     dto.MoveBytes,
		},
	}, nil
}

func (p *Postgres) DeleteTimeout(gameID uint64) error {
	_, err := p.db.Exec(`DELETE FROM gj_timeouts WHERE game_id = $1`, gameID)
	return err
}
