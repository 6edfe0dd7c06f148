package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is the flat save format of one game. Keys match the browser save
// slot so existing saves can be imported unchanged.
type Record struct {
	PlayerCount            int            `json:"playerCount"`
	CurrentPlayer          int            `json:"currentPlayer"`
	DiceValue              int            `json:"diceValue"`
	DiceRolled             bool           `json:"diceRolled"`
	CanRollAgain           bool           `json:"canRollAgain"`
	ConsecutiveSixes       int            `json:"consecutiveSixes"`
	SkipDelay              int            `json:"skipDelay"`
	ManualMode             bool           `json:"manualMode"`
	AutoMoveOnSingleOption bool           `json:"autoMoveOnSingleOption"`
	AutoRoll               bool           `json:"autoRoll"`
	Players                []PlayerRecord `json:"players"`
}

// PlayerRecord is one seat inside a Record
type PlayerRecord struct {
	Color  Color         `json:"color"`
	Tokens []TokenRecord `json:"tokens"`
}

// TokenRecord is one token inside a Record
type TokenRecord struct {
	Color    Color `json:"color"`
	Index    int   `json:"index"`
	InBase   bool  `json:"inBase"`
	Position int   `json:"position"`
	Finished bool  `json:"finished"`
}

// Serialize captures the persistent part of the game
func (e *GameEngine) Serialize() *Record {
	s := e.state
	rec := &Record{
		PlayerCount:            len(s.Players),
		CurrentPlayer:          s.CurrentPlayer,
		DiceValue:              s.DiceValue,
		DiceRolled:             s.DiceRolled,
		CanRollAgain:           s.CanRollAgain,
		ConsecutiveSixes:       s.ConsecutiveSixes,
		SkipDelay:              s.SkipDelay,
		ManualMode:             s.Preferences.ManualDice,
		AutoMoveOnSingleOption: s.Preferences.AutoMove,
		AutoRoll:               s.Preferences.AutoRoll,
		Players:                make([]PlayerRecord, len(s.Players)),
	}
	for i, p := range s.Players {
		pr := PlayerRecord{Color: p.Color, Tokens: make([]TokenRecord, TokensPerPlayer)}
		for j, t := range p.Tokens {
			pr.Tokens[j] = TokenRecord{
				Color:    t.Color,
				Index:    t.Index,
				InBase:   t.InBase,
				Position: t.Position,
				Finished: t.Finished,
			}
		}
		rec.Players[i] = pr
	}
	return rec
}

// LoadRecord replaces the game with a saved one. The record is validated in
// full first; on error the current game is left untouched.
func (e *GameEngine) LoadRecord(rec *Record) ([]Event, error) {
	if err := ValidateRecord(rec); err != nil {
		return nil, err
	}

	players := make([]*Player, len(rec.Players))
	for i, pr := range rec.Players {
		p := &Player{Color: pr.Color}
		for j, tr := range pr.Tokens {
			p.Tokens[j] = &Token{
				Color:    pr.Color,
				Index:    j,
				InBase:   tr.InBase,
				Position: tr.Position,
				Finished: tr.Finished,
			}
		}
		players[i] = p
	}

	s := &GameState{
		Players:          players,
		CurrentPlayer:    rec.CurrentPlayer,
		DiceValue:        rec.DiceValue,
		DiceRolled:       rec.DiceRolled,
		CanRollAgain:     rec.CanRollAgain,
		ConsecutiveSixes: rec.ConsecutiveSixes,
		SkipDelay:        rec.SkipDelay,
		Preferences: Preferences{
			ManualDice: rec.ManualMode,
			AutoMove:   rec.AutoMoveOnSingleOption,
			AutoRoll:   rec.AutoRoll,
		},
		ConfigName: e.config.Name,
		Winner:     NoWinner,
	}
	restorePhase(s)
	e.state = s

	return []Event{{
		Type:    EventStateLoaded,
		Player:  s.CurrentPlayer,
		Color:   s.Current().Color,
		Message: s.Message,
	}}, nil
}

// restorePhase derives the transient turn state from the persisted fields
func restorePhase(s *GameState) {
	player := s.Current()

	for i, p := range s.Players {
		if p.HasWon() {
			s.Winner = i
			s.Phase = PhaseGameOver
			s.Message = fmt.Sprintf("%s wins!", colorName(p.Color))
			return
		}
	}

	if !s.DiceRolled {
		s.Phase = PhaseAwaitingRoll
		s.Message = rollPrompt(player.Color)
		return
	}

	// A six with the counter already reset is only saved while a three-six
	// forfeit is being announced
	if s.DiceValue == ExitRoll && s.ConsecutiveSixes == 0 {
		s.ForfeitPending = true
		s.Phase = PhaseTurnResolved
		s.Message = "Three sixes in a row! Turn lost"
		return
	}

	movable := player.MovableTokens(s.DiceValue)
	s.Movable = tokenIndexes(movable)
	if len(movable) == 0 {
		s.SkipPending = true
		s.Phase = PhaseTurnResolved
		s.Message = SkipMessage(s.SkipDelay)
		return
	}
	s.Phase = PhaseRolledAwaitingChoice
	if s.Preferences.AutoMove && IsSingleMoveOption(movable) {
		s.Message = "Auto-move..."
	} else {
		s.Message = "Choose a token to move"
	}
}

// ValidateRecord checks every field of a record. Violations wrap ErrCorruptState.
func ValidateRecord(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("%w: empty record", ErrCorruptState)
	}

	colors, err := ColorsForPlayerCount(rec.PlayerCount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if len(rec.Players) != rec.PlayerCount {
		return fmt.Errorf("%w: %d players listed for a %d player game", ErrCorruptState, len(rec.Players), rec.PlayerCount)
	}
	if rec.CurrentPlayer < 0 || rec.CurrentPlayer >= rec.PlayerCount {
		return fmt.Errorf("%w: current player %d out of range", ErrCorruptState, rec.CurrentPlayer)
	}
	if rec.SkipDelay < MinSkipDelay || rec.SkipDelay > MaxSkipDelay {
		return fmt.Errorf("%w: skip delay %d out of range", ErrCorruptState, rec.SkipDelay)
	}
	if rec.ConsecutiveSixes < 0 || rec.ConsecutiveSixes >= MaxConsecutiveSixes {
		return fmt.Errorf("%w: consecutive sixes %d out of range", ErrCorruptState, rec.ConsecutiveSixes)
	}

	if rec.DiceRolled {
		if rec.DiceValue < 1 || rec.DiceValue > DiceFaces {
			return fmt.Errorf("%w: rolled dice value %d", ErrCorruptState, rec.DiceValue)
		}
		if rec.CanRollAgain {
			return fmt.Errorf("%w: bonus roll pending with dice already rolled", ErrCorruptState)
		}
	} else if rec.DiceValue != 0 {
		return fmt.Errorf("%w: dice value %d without a roll", ErrCorruptState, rec.DiceValue)
	}

	won := 0
	for i, pr := range rec.Players {
		if pr.Color != colors[i] {
			return fmt.Errorf("%w: seat %d is %q, expected %q", ErrCorruptState, i, pr.Color, colors[i])
		}
		if len(pr.Tokens) != TokensPerPlayer {
			return fmt.Errorf("%w: %s has %d tokens", ErrCorruptState, pr.Color, len(pr.Tokens))
		}
		finished := 0
		for j, tr := range pr.Tokens {
			if err := validateTokenRecord(pr.Color, j, tr); err != nil {
				return err
			}
			if tr.Finished {
				finished++
			}
		}
		if finished == TokensPerPlayer {
			won++
		}
	}
	if won > 1 {
		return fmt.Errorf("%w: more than one winner", ErrCorruptState)
	}

	return nil
}

func validateTokenRecord(color Color, index int, tr TokenRecord) error {
	if tr.Color != color || tr.Index != index {
		return fmt.Errorf("%w: token %s/%d stored in slot %s/%d", ErrCorruptState, tr.Color, tr.Index, color, index)
	}
	switch {
	case tr.InBase:
		if tr.Position != BasePosition || tr.Finished {
			return fmt.Errorf("%w: %s token %d in base at position %d", ErrCorruptState, color, index, tr.Position)
		}
	case tr.Finished:
		if tr.Position != FinalPosition {
			return fmt.Errorf("%w: %s token %d finished at position %d", ErrCorruptState, color, index, tr.Position)
		}
	default:
		if tr.Position < 0 || tr.Position >= FinalPosition {
			return fmt.Errorf("%w: %s token %d at position %d", ErrCorruptState, color, index, tr.Position)
		}
		if tr.Position > color.HomeEntryFromStart() && tr.Position < HomeStretchBase {
			return fmt.Errorf("%w: %s token %d past its home entry at %d", ErrCorruptState, color, index, tr.Position)
		}
	}
	return nil
}

// EncodeRecord renders a record as JSON
func EncodeRecord(rec *Record) ([]byte, error) {
	return json.Marshal(rec)
}

// DecodeRecord parses and validates a JSON record
func DecodeRecord(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if err := ValidateRecord(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
