package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wricardo/ludo-game/game/engine"
)

// runInspect prints a saved game and the legal-move table of every seat
func runInspect(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	rec, err := engine.DecodeRecord(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	eng, err := engine.NewEngine(nil, rec.PlayerCount, nil)
	if err != nil {
		return err
	}
	if _, err := eng.LoadRecord(rec); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	state := eng.GetState()
	printState(w, state)

	fmt.Fprintln(w, "\nLegal moves (dice: tokens)")
	table := eng.LegalMoveTable()
	for _, p := range state.Players {
		printLegalMoves(w, p.Color, table[p.Color])
	}
	return nil
}

func printState(w io.Writer, s *engine.GameState) {
	fmt.Fprintf(w, "\nPhase: %s", s.Phase)
	if s.DiceRolled {
		fmt.Fprintf(w, "  Dice: %d", s.DiceValue)
	}
	if s.ConsecutiveSixes > 0 {
		fmt.Fprintf(w, "  Sixes: %d", s.ConsecutiveSixes)
	}
	fmt.Fprintln(w)

	for i, p := range s.Players {
		marker := "  "
		if i == s.CurrentPlayer && s.Winner == engine.NoWinner {
			marker = "> "
		}
		fmt.Fprintf(w, "%s%-6s", marker, p.Color)
		for _, tok := range p.Tokens {
			fmt.Fprintf(w, "  %d:%-6s", tok.Index, tokenPlace(tok))
		}
		fmt.Fprintf(w, "  finished %d/%d\n", p.FinishedCount(), engine.TokensPerPlayer)
	}

	prefs := s.Preferences
	fmt.Fprintf(w, "manual_dice=%v auto_move=%v auto_roll=%v delay=%ds\n",
		prefs.ManualDice, prefs.AutoMove, prefs.AutoRoll, s.SkipDelay)
	if s.Message != "" {
		fmt.Fprintln(w, s.Message)
	}
}

// tokenPlace is a short label for where a token stands
func tokenPlace(t *engine.Token) string {
	switch {
	case t.Finished:
		return "home"
	case t.InBase:
		return "base"
	case t.InHomeStretch():
		return "h" + strconv.Itoa(t.Position-engine.HomeStretchBase+1)
	}
	return strconv.Itoa(t.Position)
}

func printLegalMoves(w io.Writer, color engine.Color, moves map[int][]int) {
	fmt.Fprintf(w, "  %-6s", color)
	for steps := 1; steps <= engine.DiceFaces; steps++ {
		fmt.Fprintf(w, "  %d:[%s]", steps, joinInts(moves[steps]))
	}
	fmt.Fprintln(w)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
