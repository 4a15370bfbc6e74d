// Package checkers implements the spec.md §4.4 rules module: standard
// English draughts over the 32 dark squares of an 8x8 board, numbered in
// reading order (white starts on 1..12 moving toward 32, red starts on
// 21..32 moving toward 1).
package checkers

// The four adjacency tables below are normative (spec.md §6): every
// implementation must reproduce them byte-for-byte, since dispute
// resolution requires two independent implementations to agree on legal
// moves bit-for-bit. They are derived by hand from the board's diagonal
// adjacency and indexed 1..32; index 0 is unused padding so a square
// number can index the table directly.
//
// MOVES:  white man's forward (non-jump) diagonal neighbors.
// RMOVS:  red man's forward (non-jump) diagonal neighbors.
// JUMPS:  white man's jump landing squares (jumping away from row 1).
// RJUMP:  red man's jump landing squares (jumping away from row 8).
//
// Each entry is a pair (left neighbor, right neighbor); 0 means no such
// neighbor exists at the board edge.

var moves = [33][2]uint8{
	0:  {0, 0},
	1:  {5, 6},
	2:  {6, 7},
	3:  {7, 8},
	4:  {8, 0},
	5:  {0, 9},
	6:  {9, 10},
	7:  {10, 11},
	8:  {11, 12},
	9:  {13, 14},
	10: {14, 15},
	11: {15, 16},
	12: {16, 0},
	13: {0, 17},
	14: {17, 18},
	15: {18, 19},
	16: {19, 20},
	17: {21, 22},
	18: {22, 23},
	19: {23, 24},
	20: {24, 0},
	21: {0, 25},
	22: {25, 26},
	23: {26, 27},
	24: {27, 28},
	25: {29, 30},
	26: {30, 31},
	27: {31, 32},
	28: {32, 0},
	29: {0, 0},
	30: {0, 0},
	31: {0, 0},
	32: {0, 0},
}

var rmovs = [33][2]uint8{
	0:  {0, 0},
	1:  {0, 0},
	2:  {0, 0},
	3:  {0, 0},
	4:  {0, 0},
	5:  {0, 1},
	6:  {1, 2},
	7:  {2, 3},
	8:  {3, 4},
	9:  {5, 6},
	10: {6, 7},
	11: {7, 8},
	12: {8, 0},
	13: {0, 9},
	14: {9, 10},
	15: {10, 11},
	16: {11, 12},
	17: {13, 14},
	18: {14, 15},
	19: {15, 16},
	20: {16, 0},
	21: {0, 17},
	22: {17, 18},
	23: {18, 19},
	24: {19, 20},
	25: {21, 22},
	26: {22, 23},
	27: {23, 24},
	28: {24, 0},
	29: {0, 25},
	30: {25, 26},
	31: {26, 27},
	32: {27, 28},
}

var jumps = [33][2]uint8{
	0:  {0, 0},
	1:  {0, 10},
	2:  {9, 11},
	3:  {10, 12},
	4:  {11, 0},
	5:  {0, 14},
	6:  {13, 15},
	7:  {14, 16},
	8:  {15, 0},
	9:  {0, 18},
	10: {17, 19},
	11: {18, 20},
	12: {19, 0},
	13: {0, 22},
	14: {21, 23},
	15: {22, 24},
	16: {23, 0},
	17: {0, 26},
	18: {25, 27},
	19: {26, 28},
	20: {27, 0},
	21: {0, 30},
	22: {29, 31},
	23: {30, 32},
	24: {31, 0},
	25: {0, 0},
	26: {0, 0},
	27: {0, 0},
	28: {0, 0},
	29: {0, 0},
	30: {0, 0},
	31: {0, 0},
	32: {0, 0},
}

var rjump = [33][2]uint8{
	0:  {0, 0},
	1:  {0, 0},
	2:  {0, 0},
	3:  {0, 0},
	4:  {0, 0},
	5:  {0, 0},
	6:  {0, 0},
	7:  {0, 0},
	8:  {0, 0},
	9:  {0, 2},
	10: {1, 3},
	11: {2, 4},
	12: {3, 0},
	13: {0, 6},
	14: {5, 7},
	15: {6, 8},
	16: {7, 0},
	17: {0, 10},
	18: {9, 11},
	19: {10, 12},
	20: {11, 0},
	21: {0, 14},
	22: {13, 15},
	23: {14, 16},
	24: {15, 0},
	25: {0, 18},
	26: {17, 19},
	27: {18, 20},
	28: {19, 0},
	29: {0, 22},
	30: {21, 23},
	31: {22, 24},
	32: {23, 0},
}

// moveNeighbor returns the move-table neighbor of square sq in the
// forward direction for the given color, or 0 if there is none. slot is
// 0 (left) or 1 (right).
func moveNeighbor(sq uint8, red bool, slot int) uint8 {
	if red {
		return rmovs[sq][slot]
	}
	return moves[sq][slot]
}

func jumpLanding(sq uint8, red bool, slot int) uint8 {
	if red {
		return rjump[sq][slot]
	}
	return jumps[sq][slot]
}

// capturedSquare returns the square captured by a jump from sq landing
// via slot (0 or 1), for the mover's color. The captured square is the
// intervening square: the SAME color's move-table neighbor at the SAME
// source square and SAME slot as the jump that validated the move — not
// the midpoint (from+to)/2, and not the opposite color's move table.
// See DESIGN.md for the worked examples behind this resolution of the
// ambiguity flagged in spec.md §9.
func capturedSquare(sq uint8, red bool, slot int) uint8 {
	return moveNeighbor(sq, red, slot)
}

// slotFor reports which slot (0 or 1) of the jump table for square from,
// moving as red or white, lands on to, and whether such a slot exists.
func slotFor(from, to uint8, red bool) (slot int, ok bool) {
	for s := 0; s < 2; s++ {
		if jumpLanding(from, red, s) == to {
			return s, true
		}
	}
	return 0, false
}

// moveSlotFor reports which slot (0 or 1) of the move table for square
// from, moving as red or white, steps to to, and whether such a slot
// exists.
func moveSlotFor(from, to uint8, red bool) (slot int, ok bool) {
	for s := 0; s < 2; s++ {
		if moveNeighbor(from, red, s) == to {
			return s, true
		}
	}
	return 0, false
}
