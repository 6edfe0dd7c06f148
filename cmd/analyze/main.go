// Command analyze plays seeded games on the engine and prints dice and turn
// statistics: how often each face came up, how long games last, how many
// turns are lost to skips and triple sixes, and which seat wins.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wricardo/ludo-game/game/engine"
)

func main() {
	games := flag.Int("games", 1000, "Number of games to simulate")
	players := flag.Int("players", engine.MaxPlayers, "Players per game (2-4)")
	seed := flag.Uint64("seed", 1, "Seed of the first game; game i uses seed+i")
	strategy := flag.String("strategy", "aggressive", "Token choice: first, random or aggressive")
	flag.Parse()

	choose, ok := strategies[*strategy]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown strategy %q\n", *strategy)
		os.Exit(2)
	}
	if *games <= 0 {
		fmt.Fprintln(os.Stderr, "games must be positive")
		os.Exit(2)
	}

	stats := NewStats()
	for i := 0; i < *games; i++ {
		g, err := Simulate(*seed+uint64(i), *players, choose)
		if err != nil {
			fmt.Fprintf(os.Stderr, "game %d: %v\n", i, err)
			os.Exit(1)
		}
		stats.Add(g)
	}

	report(os.Stdout, stats, *strategy)
}

// report prints aggregated statistics with thousands separators
func report(w io.Writer, s *Stats, strategy string) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "Simulated %d games (%s strategy), %d rolls.\n", s.Games, strategy, s.Rolls)
	p.Fprintf(w, "Rolls per game: min %d, avg %.1f, max %d.\n", s.MinRolls, s.AvgRolls(), s.MaxRolls)
	p.Fprintf(w, "Turns per game: avg %.1f.\n", float64(s.Turns)/float64(s.Games))

	p.Fprintf(w, "\nFaces:")
	for face := 1; face <= engine.DiceFaces; face++ {
		p.Fprintf(w, " %ds: %d (%.1f%%)", face, s.Faces[face], percent(s.Faces[face], s.Rolls))
	}
	p.Fprintf(w, "\n")

	p.Fprintf(w, "\nCaptures: %d (%.2f per game)\n", s.Captures, float64(s.Captures)/float64(s.Games))
	p.Fprintf(w, "Bonus rolls: %d\n", s.BonusTurns)
	p.Fprintf(w, "Skipped turns: %d (%.1f%% of rolls)\n", s.Skips, percent(s.Skips, s.Rolls))
	p.Fprintf(w, "Triple-six forfeits: %d\n", s.Forfeits)

	p.Fprintf(w, "\nWins:\n")
	colors := make([]engine.Color, 0, len(s.Wins))
	for c := range s.Wins {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool { return seatOrder(colors[i]) < seatOrder(colors[j]) })
	for _, c := range colors {
		p.Fprintf(w, "  %-6s %d (%.1f%%)\n", c, s.Wins[c], percent(s.Wins[c], s.Games))
	}
}

func seatOrder(c engine.Color) int {
	for i, color := range engine.AllColors() {
		if color == c {
			return i
		}
	}
	return len(engine.AllColors())
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
