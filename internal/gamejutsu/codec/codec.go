// Package codec implements the canonical, deterministic encoding
// described in spec §4.1: a fixed head/tail ABI scheme compatible with
// the ambient smart-contract ABI (32-byte word alignment, static tuples
// inline, dynamic bytes length-prefixed). Two implementations must
// produce byte-identical output, because the bytes feed the typed-data
// hash in package signer — so this package does not hand-roll a parallel
// encoder. It packs/unpacks through go-ethereum's accounts/abi, the
// reference Go implementation of that exact wire format.
package codec

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
)

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("codec: bad abi type %q: %v", t, err))
	}
	return typ
}

var (
	uint256Type  = mustType("uint256")
	uint8Type    = mustType("uint8")
	uint8x32Type = mustType("uint8[32]")
	boolType     = mustType("bool")
	addressType  = mustType("address")
	bytesType    = mustType("bytes")

	checkersStateArgs = abi.Arguments{
		{Name: "cells", Type: uint8x32Type},
		{Name: "redMoves", Type: boolType},
		{Name: "winner", Type: uint8Type},
	}

	gameStateArgs = abi.Arguments{
		{Name: "gameId", Type: uint256Type},
		{Name: "nonce", Type: uint256Type},
		{Name: "stateBytes", Type: bytesType},
	}

	gameMoveArgs = abi.Arguments{
		{Name: "gameId", Type: uint256Type},
		{Name: "nonce", Type: uint256Type},
		{Name: "player", Type: addressType},
		{Name: "oldStateBytes", Type: bytesType},
		{Name: "newStateBytes", Type: bytesType},
		{Name: "moveBytes", Type: bytesType},
	}

	checkersMoveArgs = abi.Arguments{
		{Name: "from", Type: uint8Type},
		{Name: "to", Type: uint8Type},
		{Name: "isJump", Type: boolType},
		{Name: "passToOpponent", Type: boolType},
	}
)

// GameState mirrors the arbiter-level (game_id, nonce, state_bytes)
// tuple from spec §3. state_bytes is opaque to every caller except the
// rules module that produced it.
type GameState struct {
	GameID     uint64
	Nonce      uint64
	StateBytes []byte
}

// EncodeGameState is the canonical encoder for GameState.
func EncodeGameState(s GameState) []byte {
	b, err := gameStateArgs.Pack(new(big.Int).SetUint64(s.GameID), new(big.Int).SetUint64(s.Nonce), s.StateBytes)
	if err != nil {
		panic(fmt.Sprintf("codec: encode GameState: %v", err))
	}
	return b
}

// DecodeGameState fails with gjerr.ErrMalformedPayload on truncation or
// bad length prefixes.
func DecodeGameState(b []byte) (GameState, error) {
	vals, err := gameStateArgs.Unpack(b)
	if err != nil || len(vals) != 3 {
		return GameState{}, fmt.Errorf("%w: game state: %v", gjerr.ErrMalformedPayload, err)
	}
	gameID, ok1 := vals[0].(*big.Int)
	nonce, ok2 := vals[1].(*big.Int)
	stateBytes, ok3 := vals[2].([]byte)
	if !ok1 || !ok2 || !ok3 || !gameID.IsUint64() || !nonce.IsUint64() {
		return GameState{}, fmt.Errorf("%w: game state: unexpected field shape", gjerr.ErrMalformedPayload)
	}
	return GameState{GameID: gameID.Uint64(), Nonce: nonce.Uint64(), StateBytes: stateBytes}, nil
}

// GameMove mirrors spec §3's GameMove: the assertion "from old_state,
// player plays move, yielding new_state" at a given nonce.
type GameMove struct {
	GameID        uint64
	Nonce         uint64
	Player        common.Address
	OldStateBytes []byte
	NewStateBytes []byte
	MoveBytes     []byte
}

// EncodeGameMove is the canonical encoder used both for on-wire payloads
// and, in package signer, as the pre-image of the struct hash.
func EncodeGameMove(m GameMove) []byte {
	b, err := gameMoveArgs.Pack(
		new(big.Int).SetUint64(m.GameID),
		new(big.Int).SetUint64(m.Nonce),
		m.Player,
		m.OldStateBytes,
		m.NewStateBytes,
		m.MoveBytes,
	)
	if err != nil {
		panic(fmt.Sprintf("codec: encode GameMove: %v", err))
	}
	return b
}

// DecodeGameMove fails with gjerr.ErrMalformedPayload on truncation or
// bad length prefixes.
func DecodeGameMove(b []byte) (GameMove, error) {
	vals, err := gameMoveArgs.Unpack(b)
	if err != nil || len(vals) != 6 {
		return GameMove{}, fmt.Errorf("%w: game move: %v", gjerr.ErrMalformedPayload, err)
	}
	gameID, ok1 := vals[0].(*big.Int)
	nonce, ok2 := vals[1].(*big.Int)
	player, ok3 := vals[2].(common.Address)
	oldState, ok4 := vals[3].([]byte)
	newState, ok5 := vals[4].([]byte)
	moveBytes, ok6 := vals[5].([]byte)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || !gameID.IsUint64() || !nonce.IsUint64() {
		return GameMove{}, fmt.Errorf("%w: game move: unexpected field shape", gjerr.ErrMalformedPayload)
	}
	return GameMove{
		GameID:        gameID.Uint64(),
		Nonce:         nonce.Uint64(),
		Player:        player,
		OldStateBytes: oldState,
		NewStateBytes: newState,
		MoveBytes:     moveBytes,
	}, nil
}

// CheckersMove mirrors the checkers Move tuple from spec §3/§6: four
// words, from/to/is_jump/pass_to_opponent, each padded to 32 bytes.
type CheckersMove struct {
	From           uint8
	To             uint8
	IsJump         bool
	PassToOpponent bool
}

// EncodeCheckersMove is the canonical encoder for a checkers move_bytes
// payload.
func EncodeCheckersMove(m CheckersMove) []byte {
	b, err := checkersMoveArgs.Pack(m.From, m.To, m.IsJump, m.PassToOpponent)
	if err != nil {
		panic(fmt.Sprintf("codec: encode CheckersMove: %v", err))
	}
	return b
}

// DecodeCheckersMove fails with gjerr.ErrMalformedPayload on truncation,
// bad length prefixes, or an out-of-range value.
func DecodeCheckersMove(b []byte) (CheckersMove, error) {
	vals, err := checkersMoveArgs.Unpack(b)
	if err != nil || len(vals) != 4 {
		return CheckersMove{}, fmt.Errorf("%w: checkers move: %v", gjerr.ErrMalformedPayload, err)
	}
	from, ok1 := vals[0].(uint8)
	to, ok2 := vals[1].(uint8)
	isJump, ok3 := vals[2].(bool)
	pass, ok4 := vals[3].(bool)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return CheckersMove{}, fmt.Errorf("%w: checkers move: unexpected field shape", gjerr.ErrMalformedPayload)
	}
	return CheckersMove{From: from, To: to, IsJump: isJump, PassToOpponent: pass}, nil
}

// CheckersState mirrors spec §3/§6's checkers State: 32 packed-piece
// cells, whose-turn flag, and winner (0 = none, 1 = white, 2 = red).
type CheckersState struct {
	Cells    [32]byte
	RedMoves bool
	Winner   uint8
}

// EncodeCheckersState is the canonical encoder: 34 static words total
// (32 one-per-cell, plus redMoves, plus winner), no dynamic tail.
func EncodeCheckersState(s CheckersState) []byte {
	var cells [32]uint8
	for i, c := range s.Cells {
		cells[i] = uint8(c)
	}
	b, err := checkersStateArgs.Pack(cells, s.RedMoves, s.Winner)
	if err != nil {
		panic(fmt.Sprintf("codec: encode CheckersState: %v", err))
	}
	return b
}

// DecodeCheckersState fails with gjerr.ErrMalformedPayload on truncation
// or a short buffer (fewer than the 34 static words required).
func DecodeCheckersState(b []byte) (CheckersState, error) {
	vals, err := checkersStateArgs.Unpack(b)
	if err != nil || len(vals) != 3 {
		return CheckersState{}, fmt.Errorf("%w: checkers state: %v", gjerr.ErrMalformedPayload, err)
	}
	cells, ok1 := vals[0].([32]uint8)
	redMoves, ok2 := vals[1].(bool)
	winner, ok3 := vals[2].(uint8)
	if !ok1 || !ok2 || !ok3 {
		return CheckersState{}, fmt.Errorf("%w: checkers state: unexpected field shape", gjerr.ErrMalformedPayload)
	}
	var out CheckersState
	for i, c := range cells {
		out.Cells[i] = byte(c)
	}
	out.RedMoves = redMoves
	out.Winner = winner
	return out, nil
}
