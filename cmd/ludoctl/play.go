package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wricardo/ludo-game/game/engine"
)

// settleLimit bounds the automatic steps taken between two commands
const settleLimit = 10000

const playHelp = `Commands:
  r, roll [N]         roll the dice (N: value in manual dice mode)
  0-3, move N         move token N of the current player
  s, status           show the board
  moves               legal moves of the current player for every dice value
  n, new [PLAYERS]    start a new game
  set PREF on|off     manual_dice, auto_move or auto_roll
  delay SECONDS       skip delay
  h, help             this text
  q, quit             save and leave`

// table is a hot-seat game bound to a record file
type table struct {
	eng        *engine.GameEngine
	out        io.Writer
	recordPath string
}

// openTable resumes the game saved at recordPath or starts a new one. A save
// that cannot be read is reported and replaced by a fresh game.
func openTable(recordPath string, config *engine.GameConfig, players int, dice engine.Dice, out io.Writer) (*table, error) {
	eng, err := engine.NewEngine(config, players, dice)
	if err != nil {
		return nil, err
	}
	t := &table{eng: eng, out: out, recordPath: recordPath}

	resumed, err := t.restore()
	switch {
	case err != nil:
		fmt.Fprintf(out, "Saved game unreadable (%v); starting a new game\n", err)
	case resumed:
		fmt.Fprintf(out, "Resumed game from %s\n", recordPath)
	}
	if err := t.settle(); err != nil {
		return nil, err
	}
	if err := t.save(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *table) restore() (bool, error) {
	data, err := os.ReadFile(t.recordPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	rec, err := engine.DecodeRecord(data)
	if err != nil {
		return false, err
	}
	if _, err := t.eng.LoadRecord(rec); err != nil {
		return false, err
	}
	return true, nil
}

// save writes the record through a temp file so a crash never leaves half a save
func (t *table) save() error {
	data, err := engine.EncodeRecord(t.eng.Serialize())
	if err != nil {
		return err
	}
	tmp := t.recordPath + ".tmp"
	if dir := filepath.Dir(t.recordPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, t.recordPath)
}

func (t *table) run(ctx context.Context, in io.Reader) error {
	printState(t.out, t.eng.GetState())
	fmt.Fprintln(t.out, "Type h for help.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(t.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(t.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		quit, err := t.exec(scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// exec applies one command line. Moves the rules refuse are printed and
// the game goes on; only storage failures end the session.
func (t *table) exec(line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		printState(t.out, t.eng.GetState())
		return false, nil
	}

	var err error
	mutated := true
	switch cmd, args := fields[0], fields[1:]; cmd {
	case "q", "quit", "exit":
		return true, t.save()
	case "h", "help", "?":
		fmt.Fprintln(t.out, playHelp)
		mutated = false
	case "s", "status":
		printState(t.out, t.eng.GetState())
		mutated = false
	case "moves":
		printLegalMoves(t.out, t.eng.GetState().Current().Color, t.eng.LegalMoves())
		mutated = false
	case "r", "roll":
		err = t.roll(args)
	case "0", "1", "2", "3":
		err = t.move(cmd)
	case "m", "move":
		if len(args) != 1 {
			err = fmt.Errorf("%w: move needs a token number", engine.ErrInvalidValue)
			break
		}
		err = t.move(args[0])
	case "n", "new":
		err = t.newGame(args)
	case "set":
		err = t.setPreference(args)
	case "delay":
		err = t.setDelay(args)
	default:
		fmt.Fprintf(t.out, "Unknown command %q. Type h for help.\n", cmd)
		mutated = false
	}

	if errors.Is(err, engine.ErrInvalidOperation) {
		fmt.Fprintf(t.out, "rejected: %v\n", err)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !mutated {
		return false, nil
	}

	if err := t.settle(); err != nil {
		return false, err
	}
	if err := t.save(); err != nil {
		return false, fmt.Errorf("save game: %w", err)
	}
	printState(t.out, t.eng.GetState())
	return false, nil
}

func (t *table) roll(args []string) error {
	var res *engine.RollResult
	var err error
	if len(args) > 0 {
		v, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Errorf("%w: dice value %q", engine.ErrInvalidValue, args[0])
		}
		res, err = t.eng.RollValue(v)
	} else {
		res, err = t.eng.Roll()
	}
	if err != nil {
		return err
	}
	t.printRoll(res)
	return nil
}

func (t *table) move(arg string) error {
	idx, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("%w: token %q", engine.ErrInvalidValue, arg)
	}
	color := t.eng.GetState().Current().Color
	res, err := t.eng.SelectToken(color, idx)
	if err != nil {
		return err
	}
	t.printMove(res)
	return nil
}

func (t *table) newGame(args []string) error {
	players := t.eng.GetState().PlayerCount()
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: player count %q", engine.ErrInvalidValue, args[0])
		}
		players = n
	}
	events, err := t.eng.StartGame(players)
	if err != nil {
		return err
	}
	printEvents(t.out, events)
	return nil
}

func (t *table) setPreference(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: usage: set PREF on|off", engine.ErrInvalidValue)
	}
	var value bool
	switch args[1] {
	case "on", "true", "1":
		value = true
	case "off", "false", "0":
	default:
		return fmt.Errorf("%w: %q is not on or off", engine.ErrInvalidValue, args[1])
	}
	_, err := t.eng.SetPreference(args[0], value)
	return err
}

func (t *table) setDelay(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: delay SECONDS", engine.ErrInvalidValue)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: seconds %q", engine.ErrInvalidValue, args[0])
	}
	return t.eng.SetSkipDelay(n)
}

// settle performs the transitions the server would run on timers: resolving
// forfeits and skips, ending move animations, auto-moves and auto-rolls. The
// terminal has no animation, so they all happen at once.
func (t *table) settle() error {
	for i := 0; i < settleLimit; i++ {
		s := t.eng.GetState()
		var events []engine.Event
		var err error

		switch {
		case s.Phase == engine.PhaseGameOver:
			return nil
		case s.ForfeitPending:
			events, err = t.eng.ResolveForfeit()
		case s.SkipPending:
			events, err = t.eng.SkipTurn()
		case s.Phase == engine.PhaseAnimating:
			err = t.eng.CompleteMove()
		case t.eng.AutoMoveCandidate() != nil:
			tok := t.eng.AutoMoveCandidate()
			var res *engine.MoveResult
			if res, err = t.eng.SelectToken(tok.Color, tok.Index); err == nil {
				t.printMove(res)
			}
		case t.eng.AutoRollDue():
			var res *engine.RollResult
			if res, err = t.eng.Roll(); err == nil {
				t.printRoll(res)
			}
		default:
			return nil
		}
		if err != nil {
			return err
		}
		printEvents(t.out, events)
	}
	return fmt.Errorf("game did not settle after %d automatic steps", settleLimit)
}

func (t *table) printRoll(res *engine.RollResult) {
	fmt.Fprintf(t.out, "Rolled %d\n", res.Value)
	if len(res.Movable) > 0 && res.AutoMove == nil {
		fmt.Fprintf(t.out, "Movable: %s\n", joinInts(res.Movable))
	}
	printEvents(t.out, res.Events)
}

func (t *table) printMove(res *engine.MoveResult) {
	fmt.Fprintf(t.out, "Moved %s %d\n", res.Token.Color, res.Token.Index)
	printEvents(t.out, res.Events)
}

// printEvents prints the status lines carried by events
func printEvents(w io.Writer, events []engine.Event) {
	for _, ev := range events {
		if ev.Message != "" && ev.Type != engine.EventSkipCountdown {
			fmt.Fprintf(w, "  %s\n", ev.Message)
		}
	}
}
