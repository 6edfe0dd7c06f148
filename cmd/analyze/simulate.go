package main

import (
	"fmt"
	mrand "math/rand/v2"

	"github.com/wricardo/ludo-game/game/engine"
)

// maxRollsPerGame stops a simulation that would never end
const maxRollsPerGame = 20000

// Strategy picks one of the movable token indexes for the current player
type Strategy func(state *engine.GameState, movable []int, rng *mrand.Rand) int

var strategies = map[string]Strategy{
	"first":      chooseFirst,
	"random":     chooseRandom,
	"aggressive": chooseAggressive,
}

func chooseFirst(_ *engine.GameState, movable []int, _ *mrand.Rand) int {
	return movable[0]
}

func chooseRandom(_ *engine.GameState, movable []int, rng *mrand.Rand) int {
	return movable[rng.IntN(len(movable))]
}

// chooseAggressive captures when it can, then leaves base, then advances the
// token furthest along
func chooseAggressive(state *engine.GameState, movable []int, _ *mrand.Rand) int {
	player := state.Current()
	best, bestScore := movable[0], -1
	for _, idx := range movable {
		tok := player.Tokens[idx]
		landed := *tok
		landed.Move(state.DiceValue)

		score := tok.Position + 1
		switch {
		case capturesAt(state, &landed):
			score = 1000
		case tok.InBase:
			score = 500
		}
		if score > bestScore {
			best, bestScore = idx, score
		}
	}
	return best
}

func capturesAt(state *engine.GameState, t *engine.Token) bool {
	if !t.OnMainPath() || engine.IsSafeSpot(t.AbsolutePosition()) {
		return false
	}
	abs := t.AbsolutePosition()
	for _, p := range state.Players {
		if p.Color == t.Color {
			continue
		}
		for _, other := range p.Tokens {
			if other.OnMainPath() && other.AbsolutePosition() == abs {
				return true
			}
		}
	}
	return false
}

// GameStats describes one finished game
type GameStats struct {
	Seed       uint64
	Winner     engine.Color
	Rolls      int
	Turns      int
	Faces      [engine.DiceFaces + 1]int
	Captures   int
	BonusTurns int
	Skips      int
	Forfeits   int
}

func (g *GameStats) count(events []engine.Event) {
	for _, ev := range events {
		switch ev.Type {
		case engine.EventDiceRolled:
			g.Rolls++
			g.Faces[ev.Dice]++
		case engine.EventCapture:
			g.Captures++
		case engine.EventBonusTurn:
			g.BonusTurns++
		case engine.EventNoLegalMoves:
			g.Skips++
		case engine.EventTurnForfeited:
			g.Forfeits++
		case engine.EventTurnAdvanced:
			g.Turns++
		}
	}
}

// Simulate plays one game to the end with seeded dice
func Simulate(seed uint64, players int, choose Strategy) (*GameStats, error) {
	config := engine.DefaultGameConfig()
	config.AutoMove = false
	config.AutoRoll = false
	config.ManualDice = false

	eng, err := engine.NewEngine(config, players, engine.NewSeededDice(seed))
	if err != nil {
		return nil, err
	}
	rng := mrand.New(mrand.NewPCG(seed, ^seed))
	g := &GameStats{Seed: seed}

	for g.Rolls < maxRollsPerGame {
		roll, err := eng.Roll()
		if err != nil {
			return nil, fmt.Errorf("seed %d: roll: %w", seed, err)
		}
		g.count(roll.Events)

		var events []engine.Event
		switch {
		case roll.Forfeited:
			events, err = eng.ResolveForfeit()
		case roll.Skipped:
			events, err = eng.SkipTurn()
		default:
			state := eng.GetState()
			idx := choose(state, roll.Movable, rng)
			var move *engine.MoveResult
			move, err = eng.SelectToken(state.Current().Color, idx)
			if err == nil {
				events = move.Events
				if move.Won {
					g.count(events)
					g.Winner = state.Players[state.Winner].Color
					return g, nil
				}
				err = eng.CompleteMove()
			}
		}
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", seed, err)
		}
		g.count(events)
	}

	return nil, fmt.Errorf("seed %d: no winner after %d rolls", seed, maxRollsPerGame)
}

// Stats aggregates many games
type Stats struct {
	Games      int
	Rolls      int
	Turns      int
	MinRolls   int
	MaxRolls   int
	Faces      [engine.DiceFaces + 1]int
	Captures   int
	BonusTurns int
	Skips      int
	Forfeits   int
	Wins       map[engine.Color]int
}

func NewStats() *Stats {
	return &Stats{Wins: make(map[engine.Color]int)}
}

func (s *Stats) Add(g *GameStats) {
	if s.Games == 0 || g.Rolls < s.MinRolls {
		s.MinRolls = g.Rolls
	}
	if g.Rolls > s.MaxRolls {
		s.MaxRolls = g.Rolls
	}
	s.Games++
	s.Rolls += g.Rolls
	s.Turns += g.Turns
	for face, n := range g.Faces {
		s.Faces[face] += n
	}
	s.Captures += g.Captures
	s.BonusTurns += g.BonusTurns
	s.Skips += g.Skips
	s.Forfeits += g.Forfeits
	s.Wins[g.Winner]++
}

// AvgRolls is the mean number of rolls per game
func (s *Stats) AvgRolls() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Rolls) / float64(s.Games)
}
