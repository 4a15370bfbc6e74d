// Command gjctl is a local debugging aid for GameJutsu: it decodes the
// canonical state_bytes/move_bytes payloads exchanged between clients
// and the arbiter and renders them as a checkers board, the way a
// developer would otherwise have to do by hand against the ABI codec.
// It does not speak to any network or arbiter instance — move
// transport between players is explicitly out of scope (SPEC_FULL §10).
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/checkers"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/codec"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <board|move|apply> [OPTIONS]\n", os.Args[0])
		flag.PrintDefaults()
	}
	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "board":
		runBoard(os.Args[2:])
	case "move":
		runMove(os.Args[2:])
	case "apply":
		runApply(os.Args[2:])
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func runBoard(args []string) {
	fs := flag.NewFlagSet("board", flag.ExitOnError)
	stateHex := fs.String("state", "", "hex-encoded checkers state_bytes")
	fs.Parse(args)

	state := decodeState(*stateHex)
	printBoard(state)
}

func runMove(args []string) {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	moveHex := fs.String("move", "", "hex-encoded checkers move_bytes")
	fs.Parse(args)

	raw := mustHex(*moveHex)
	move, err := codec.DecodeCheckersMove(raw)
	if err != nil {
		pterm.Error.Printfln("decode move: %v", err)
		os.Exit(1)
	}
	pterm.DefaultBasicText.Println(pterm.Sprintfln(
		"from=%d to=%d is_jump=%v pass_to_opponent=%v",
		move.From, move.To, move.IsJump, move.PassToOpponent,
	))
}

func runApply(args []string) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	stateHex := fs.String("state", "", "hex-encoded checkers state_bytes")
	moveHex := fs.String("move", "", "hex-encoded checkers move_bytes")
	player := fs.Int("player", -1, "player_id (0 or 1) claiming the move; defaults to whoever's turn state says it is")
	fs.Parse(args)

	rules := checkers.New()
	stateBytes := mustHex(*stateHex)
	moveBytes := mustHex(*moveHex)

	playerID := *player
	if playerID == -1 {
		playerID = 0
		if decodeState(*stateHex).RedMoves {
			playerID = 1
		}
	}

	ok, err := rules.IsValidMove(stateBytes, playerID, moveBytes)
	if err != nil {
		pterm.Error.Printfln("validate move: %v", err)
		os.Exit(1)
	}
	if !ok {
		pterm.Warning.Println("move is illegal for this state")
		os.Exit(1)
	}

	next, err := rules.Transition(stateBytes, playerID, moveBytes)
	if err != nil {
		pterm.Error.Printfln("apply move: %v", err)
		os.Exit(1)
	}
	pterm.Success.Println("move accepted")
	nextState, err := codec.DecodeCheckersState(next)
	if err != nil {
		pterm.Error.Printfln("decode resulting state: %v", err)
		os.Exit(1)
	}
	printBoard(nextState)
	pterm.Info.Printfln("new state_bytes: %s", hex.EncodeToString(next))
}

func decodeState(stateHex string) codec.CheckersState {
	raw := mustHex(stateHex)
	state, err := codec.DecodeCheckersState(raw)
	if err != nil {
		pterm.Error.Printfln("decode state: %v", err)
		os.Exit(1)
	}
	return state
}

func mustHex(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		pterm.Error.Printfln("bad hex payload: %v", err)
		os.Exit(1)
	}
	return b
}

var pieceGlyph = map[byte]string{
	checkers.Empty:     "·",
	checkers.WhiteMan:  pterm.LightWhite("w"),
	checkers.RedMan:    pterm.LightRed("r"),
	checkers.WhiteKing: pterm.LightWhite("W"),
	checkers.RedKing:   pterm.LightRed("R"),
}

// printBoard renders the 32 playable dark squares on an 8x8 grid, the
// numbering convention from spec.md §3 (1-32, rows of 4 alternating
// leading/trailing light square).
func printBoard(s codec.CheckersState) {
	var b strings.Builder
	sq := 1
	for row := 0; row < 8; row++ {
		if row%2 == 0 {
			b.WriteString("  ")
		}
		for col := 0; col < 4; col++ {
			glyph, ok := pieceGlyph[s.Cells[sq-1]]
			if !ok {
				glyph = "?"
			}
			b.WriteString(glyph)
			b.WriteString("   ")
			sq++
		}
		b.WriteString("\n")
	}

	turn := "white"
	if s.RedMoves {
		turn = "red"
	}
	winner := "none"
	switch s.Winner {
	case checkers.WinnerWhite:
		winner = "white"
	case checkers.WinnerRed:
		winner = "red"
	}

	panel := pterm.DefaultBox.WithTitle("checkers board").WithTitleTopCenter().
		Sprintf("%sto move: %s\nwinner: %s", b.String(), turn, winner)
	pterm.Println(panel)
}
