package checkers

import "github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/codec"

// Piece encoding, spec.md §3/§4.4: 0x00 empty, 0x01 white man, 0x02 red
// man, 0xA1 white king, 0xA2 red king.
const (
	Empty     byte = 0x00
	WhiteMan  byte = 0x01
	RedMan    byte = 0x02
	WhiteKing byte = 0xA1
	RedKing   byte = 0xA2
)

// Winner values for codec.CheckersState.Winner.
const (
	WinnerNone  uint8 = 0
	WinnerWhite uint8 = 1
	WinnerRed   uint8 = 2
)

func isRed(p byte) bool {
	return p == RedMan || p == RedKing
}

func isWhite(p byte) bool {
	return p == WhiteMan || p == WhiteKing
}

func isKing(p byte) bool {
	return p == WhiteKing || p == RedKing
}

func colorOf(p byte, red bool) bool {
	if red {
		return isRed(p)
	}
	return isWhite(p)
}

func kingRow(sq uint8, red bool) bool {
	// White promotes reaching squares 29-32, red promotes reaching 1-4.
	if red {
		return sq >= 1 && sq <= 4
	}
	return sq >= 29 && sq <= 32
}

func promote(p byte) byte {
	switch p {
	case WhiteMan:
		return WhiteKing
	case RedMan:
		return RedKing
	default:
		return p
	}
}

// DefaultInitialState returns the standard English draughts opening
// position: white men on squares 1-12, red men on squares 21-32, white
// to move.
func DefaultInitialState() codec.CheckersState {
	var s codec.CheckersState
	for sq := 1; sq <= 12; sq++ {
		s.Cells[sq-1] = WhiteMan
	}
	for sq := 21; sq <= 32; sq++ {
		s.Cells[sq-1] = RedMan
	}
	s.RedMoves = false
	s.Winner = WinnerNone
	return s
}

func cellAt(s codec.CheckersState, sq uint8) byte {
	return s.Cells[sq-1]
}

func setCell(s *codec.CheckersState, sq uint8, p byte) {
	s.Cells[sq-1] = p
}
