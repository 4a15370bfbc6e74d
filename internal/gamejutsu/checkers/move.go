package checkers

import "github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/codec"

// validateMove applies the legality rule from spec.md §4.4:
//  1. from holds a piece belonging to the player whose turn it is, and
//     playerID (0 or 1) is the player whose turn it is (player_id == 1
//     iff state.red_moves).
//  2. to is on the board (1..32) and empty.
//  3. if is_jump is false: to is a forward (or, for a king, any)
//     diagonal move-table neighbor of from.
//  4. if is_jump is true: to is a jump-table landing square of from,
//     the captured (intervening) square holds an opposing piece, and
//     that piece is removed by the transition.
//  5. a man may only move/jump forward; a king may move/jump either
//     direction.
//  6. pass_to_opponent must be true for a non-jump. For a jump it must
//     be true iff the same piece has no further jump from its landing
//     square: declining an available further jump, or claiming one that
//     does not exist, is illegal. Whether some other piece could jump
//     elsewhere on the board is not checked here — enforcing mandatory
//     capture board-wide would be a protocol change, not a faithful
//     port (see spec.md's own design note).
//  7. winner in the resulting state is set only when the opponent has
//     no legal move or jump remaining (applyMove sets it; it is not
//     checked here).
func validateMove(s codec.CheckersState, playerID int, m codec.CheckersMove) error {
	if s.Winner != WinnerNone {
		return errGameOver
	}
	if playerID != 0 && playerID != 1 {
		return errWrongPlayer
	}
	if (playerID == 1) != s.RedMoves {
		return errWrongPlayer
	}
	if m.From < 1 || m.From > 32 || m.To < 1 || m.To > 32 {
		return errOffBoard
	}
	mover := cellAt(s, m.From)
	if mover == Empty || !colorOf(mover, s.RedMoves) {
		return errNotMoversPiece
	}
	if cellAt(s, m.To) != Empty {
		return errDestinationOccupied
	}

	if m.IsJump {
		if err := validateJump(s, m, mover); err != nil {
			return err
		}
	} else {
		if err := validateStep(s, m, mover); err != nil {
			return err
		}
	}

	return validatePassToOpponent(s, m)
}

// validatePassToOpponent enforces rule 6: a non-jump always passes the
// turn; a jump passes the turn iff no further jump is available for the
// same piece from the post-capture board.
func validatePassToOpponent(s codec.CheckersState, m codec.CheckersMove) error {
	if !m.IsJump {
		if !m.PassToOpponent {
			return errBadPassFlag
		}
		return nil
	}
	provisional := applyMove(s, codec.CheckersMove{From: m.From, To: m.To, IsJump: true, PassToOpponent: true})
	further := hasFurtherJump(provisional, m.To, s.RedMoves)
	if m.PassToOpponent == further {
		return errBadPassFlag
	}
	return nil
}

func validateStep(s codec.CheckersState, m codec.CheckersMove, mover byte) error {
	king := isKing(mover)
	_, ok := moveSlotFor(m.From, m.To, s.RedMoves)
	if !ok && king {
		// Kings may also step backward.
		_, ok = moveSlotFor(m.From, m.To, !s.RedMoves)
	}
	if !ok {
		return errNotAStep
	}
	return nil
}

func validateJump(s codec.CheckersState, m codec.CheckersMove, mover byte) error {
	king := isKing(mover)
	red := s.RedMoves
	dir := red
	slot, ok := slotFor(m.From, m.To, dir)
	if !ok && king {
		dir = !red
		slot, ok = slotFor(m.From, m.To, dir)
	}
	if !ok {
		return errNotAJump
	}
	// The captured square is read from the move table of the SAME
	// direction as the jump table that matched, at the same source
	// square and slot (see DESIGN.md for the derivation).
	capSq := moveNeighbor(m.From, dir, slot)
	captured := cellAt(s, capSq)
	if captured == Empty || !colorOf(captured, !red) {
		return errNoCapture
	}
	return nil
}

// anyJumpAvailable reports whether the player to move (red if red is
// true) has at least one legal jump anywhere on the board.
func anyJumpAvailable(s codec.CheckersState, red bool) bool {
	for sq := uint8(1); sq <= 32; sq++ {
		p := cellAt(s, sq)
		if p == Empty || !colorOf(p, red) {
			continue
		}
		king := isKing(p)
		if hasJump(s, sq, red) {
			return true
		}
		if king && hasJump(s, sq, !red) {
			return true
		}
	}
	return false
}

func hasJump(s codec.CheckersState, from uint8, red bool) bool {
	for slot := 0; slot < 2; slot++ {
		to := jumpLanding(from, red, slot)
		if to == 0 || cellAt(s, to) != Empty {
			continue
		}
		capSq := moveNeighbor(from, red, slot)
		captured := cellAt(s, capSq)
		if captured != Empty && colorOf(captured, !red) {
			return true
		}
	}
	return false
}

// hasFurtherJump reports whether the piece that just landed on sq has
// another jump available with the same piece, used to enforce rule 6
// (pass_to_opponent correctness).
func hasFurtherJump(s codec.CheckersState, sq uint8, red bool) bool {
	p := cellAt(s, sq)
	if p == Empty {
		return false
	}
	if hasJump(s, sq, red) {
		return true
	}
	if isKing(p) && hasJump(s, sq, !red) {
		return true
	}
	return false
}

// applyMove returns the state resulting from playing m against s. The
// caller must have already validated m with validateMove.
func applyMove(s codec.CheckersState, m codec.CheckersMove) codec.CheckersState {
	next := s
	mover := cellAt(s, m.From)
	setCell(&next, m.From, Empty)

	if m.IsJump {
		red := s.RedMoves
		king := isKing(mover)
		dir := red
		slot, ok := slotFor(m.From, m.To, dir)
		if !ok && king {
			dir = !red
			slot, _ = slotFor(m.From, m.To, dir)
		}
		capSq := moveNeighbor(m.From, dir, slot)
		setCell(&next, capSq, Empty)
	}

	if kingRow(m.To, s.RedMoves) {
		mover = promote(mover)
	}
	setCell(&next, m.To, mover)

	if m.IsJump && !m.PassToOpponent && hasFurtherJump(next, m.To, s.RedMoves) {
		// Same player continues; turn does not flip.
		next.Winner = winnerIfAny(next, s.RedMoves)
		return next
	}

	next.RedMoves = !s.RedMoves
	next.Winner = winnerIfAny(next, next.RedMoves)
	return next
}

// winnerIfAny reports the winner of next, if the player about to move
// (toMove, red if true) has no legal move or jump anywhere.
func winnerIfAny(s codec.CheckersState, toMove bool) uint8 {
	if hasAnyLegalAction(s, toMove) {
		return WinnerNone
	}
	if toMove {
		return WinnerWhite
	}
	return WinnerRed
}

func hasAnyLegalAction(s codec.CheckersState, red bool) bool {
	if anyJumpAvailable(s, red) {
		return true
	}
	for sq := uint8(1); sq <= 32; sq++ {
		p := cellAt(s, sq)
		if p == Empty || !colorOf(p, red) {
			continue
		}
		king := isKing(p)
		for slot := 0; slot < 2; slot++ {
			if to := moveNeighbor(sq, red, slot); to != 0 && cellAt(s, to) == Empty {
				return true
			}
			if king {
				if to := moveNeighbor(sq, !red, slot); to != 0 && cellAt(s, to) == Empty {
					return true
				}
			}
		}
	}
	return false
}
