// Package engine provides the rules and turn engine for a four-color Ludo race game.
//
// The engine package implements the game mechanics including:
//   - Board geometry: the shared 52-cell track, home stretches and bases
//   - Token movement, capture and safe spots
//   - The turn state machine with bonus turns and the three-six forfeit
//   - A flat save record with full validation on load
//
// Core Types:
//
// GameEngine owns a GameState and mutates it only through its operations.
// Every operation runs to completion and returns the events it emitted.
// Randomness comes from an injected Dice, so rules are deterministic in tests.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultGameConfig(), 2, engine.CryptoDice{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	roll, _ := eng.Roll()
//	if len(roll.Movable) > 0 {
//		move, _ := eng.SelectToken(eng.GetState().Current().Color, roll.Movable[0])
//		_ = move.Events
//		_ = eng.CompleteMove()
//	}
//
// Timing:
//
// The engine never sleeps. A forfeit or a turn with no legal move stays pending
// until ResolveForfeit or SkipTurn is called, and a move stays animating until
// CompleteMove. The service layer decides when.
package engine
