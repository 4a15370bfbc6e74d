package checkers

import (
	"fmt"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
)

var (
	errGameOver            = fmt.Errorf("%w: game already finished", gjerr.ErrIllegalMove)
	errOffBoard            = fmt.Errorf("%w: square out of range 1..32", gjerr.ErrIllegalMove)
	errNotMoversPiece      = fmt.Errorf("%w: from does not hold mover's piece", gjerr.ErrIllegalMove)
	errDestinationOccupied = fmt.Errorf("%w: to is occupied", gjerr.ErrIllegalMove)
	errWrongPlayer         = fmt.Errorf("%w: player_id does not match whose turn it is", gjerr.ErrIllegalMove)
	errNotAStep            = fmt.Errorf("%w: to is not a legal step from from", gjerr.ErrIllegalMove)
	errNotAJump            = fmt.Errorf("%w: to is not a legal jump from from", gjerr.ErrIllegalMove)
	errNoCapture           = fmt.Errorf("%w: no opposing piece on the captured square", gjerr.ErrIllegalMove)
	errBadPassFlag         = fmt.Errorf("%w: pass_to_opponent does not match further-jump availability", gjerr.ErrIllegalMove)
)
