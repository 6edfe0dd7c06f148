package engine

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Engine is the turn engine contract used by the service layer
type Engine interface {
	GetState() *GameState
	GetConfig() *GameConfig
	StartGame(playerCount int) ([]Event, error)
	Roll() (*RollResult, error)
	RollValue(value int) (*RollResult, error)
	ResolveForfeit() ([]Event, error)
	SkipTurn() ([]Event, error)
	SkipCountdown(remaining int) (Event, error)
	SelectToken(color Color, index int) (*MoveResult, error)
	CompleteMove() error
	SetSkipDelay(seconds int) error
	SetPreference(name string, value bool) ([]Event, error)
	CanRoll() bool
	AutoMoveCandidate() *Token
	AutoRollDue() bool
	LegalMoves() map[int][]int
	Serialize() *Record
	LoadRecord(rec *Record) ([]Event, error)
}

// GameEngine owns one game and mutates it only through its operations
type GameEngine struct {
	state  *GameState
	config *GameConfig
	dice   Dice
}

// NewEngine creates an engine and starts a fresh game of playerCount seats.
// A nil config uses DefaultGameConfig and nil dice use CryptoDice.
func NewEngine(config *GameConfig, playerCount int, dice Dice) (*GameEngine, error) {
	if config == nil {
		config = DefaultGameConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if dice == nil {
		dice = CryptoDice{}
	}

	e := &GameEngine{config: config, dice: dice}
	if _, err := e.StartGame(playerCount); err != nil {
		return nil, err
	}
	return e, nil
}

// GetState returns the live game state. Callers outside the engine's
// goroutine should work on a Clone.
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// GetConfig returns the profile the engine was created with
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetDice replaces the random source
func (e *GameEngine) SetDice(d Dice) {
	if d == nil {
		d = CryptoDice{}
	}
	e.dice = d
}

// StartGame discards the current game and seats playerCount players.
// Preferences and skip delay carry over from the previous game, if any.
func (e *GameEngine) StartGame(playerCount int) ([]Event, error) {
	colors, err := ColorsForPlayerCount(playerCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	prefs := e.config.Preferences()
	skipDelay := e.config.SkipDelaySeconds
	if e.state != nil {
		prefs = e.state.Preferences
		skipDelay = e.state.SkipDelay
	}

	players := make([]*Player, len(colors))
	for i, c := range colors {
		players[i] = NewPlayer(c)
	}

	e.state = &GameState{
		Players:     players,
		SkipDelay:   skipDelay,
		Preferences: prefs,
		ConfigName:  e.config.Name,
		Phase:       PhaseAwaitingRoll,
		Winner:      NoWinner,
	}
	e.state.Message = rollPrompt(e.state.Current().Color)

	return []Event{{
		Type:    EventGameStarted,
		Player:  0,
		Color:   colors[0],
		Message: e.state.Message,
	}}, nil
}

// Roll draws from the dice and applies the value
func (e *GameEngine) Roll() (*RollResult, error) {
	if err := e.checkRollGate(); err != nil {
		return nil, err
	}
	if e.state.Preferences.ManualDice {
		return nil, ErrManualMode
	}
	events := e.cancelPendingSkip()
	return e.applyRoll(e.dice.Roll(), events), nil
}

// RollValue applies a value entered by hand. Only valid in manual dice mode.
func (e *GameEngine) RollValue(value int) (*RollResult, error) {
	if value < 1 || value > DiceFaces {
		return nil, fmt.Errorf("%w: dice value %d", ErrInvalidValue, value)
	}
	if err := e.checkRollGate(); err != nil {
		return nil, err
	}
	if !e.state.Preferences.ManualDice {
		return nil, ErrNotManualMode
	}
	events := e.cancelPendingSkip()
	return e.applyRoll(value, events), nil
}

// checkRollGate rejects a roll without touching state. A pending auto-skip
// does not block a roll; the roll resolves it.
func (e *GameEngine) checkRollGate() error {
	s := e.state
	switch {
	case s == nil:
		return ErrNotStarted
	case s.Phase == PhaseGameOver:
		return ErrGameOver
	case s.Phase == PhaseAnimating:
		return ErrAnimating
	case s.ForfeitPending:
		return ErrForfeitPending
	case s.SkipPending:
		return nil
	case s.DiceRolled && !s.CanRollAgain:
		return ErrRollPending
	}
	return nil
}

func (e *GameEngine) cancelPendingSkip() []Event {
	if !e.state.SkipPending {
		return nil
	}
	e.state.SkipPending = false
	e.clearDice()
	return e.advance(nil)
}

func (e *GameEngine) applyRoll(value int, events []Event) *RollResult {
	s := e.state
	player := s.Current()

	s.DiceValue = value
	s.DiceRolled = true
	s.CanRollAgain = false
	if value == ExitRoll {
		s.ConsecutiveSixes++
	}

	result := &RollResult{Value: value}
	events = append(events, Event{
		Type:   EventDiceRolled,
		Player: s.CurrentPlayer,
		Color:  player.Color,
		Dice:   value,
		Sixes:  s.ConsecutiveSixes,
	})

	if s.ConsecutiveSixes >= MaxConsecutiveSixes {
		s.ConsecutiveSixes = 0
		s.ForfeitPending = true
		s.Movable = nil
		s.Phase = PhaseTurnResolved
		s.Message = "Three sixes in a row! Turn lost"
		result.Forfeited = true
		result.Events = append(events, Event{
			Type:    EventTurnForfeited,
			Player:  s.CurrentPlayer,
			Color:   player.Color,
			Dice:    value,
			Message: s.Message,
		})
		return result
	}

	movable := player.MovableTokens(value)
	s.Movable = tokenIndexes(movable)
	result.Movable = s.Movable

	switch {
	case len(movable) == 0:
		s.SkipPending = true
		s.Phase = PhaseTurnResolved
		s.Message = SkipMessage(s.SkipDelay)
		result.Skipped = true
		events = append(events, Event{
			Type:      EventNoLegalMoves,
			Player:    s.CurrentPlayer,
			Color:     player.Color,
			Dice:      value,
			Remaining: s.SkipDelay,
			Message:   s.Message,
		})
	case s.Preferences.AutoMove && IsSingleMoveOption(movable):
		s.Phase = PhaseRolledAwaitingChoice
		s.Message = "Auto-move..."
		ref := movable[0].Ref()
		result.AutoMove = &ref
		events = append(events, Event{
			Type:   EventAutoMove,
			Player: s.CurrentPlayer,
			Color:  player.Color,
			Dice:   value,
			Token:  &ref,
		})
	default:
		s.Phase = PhaseRolledAwaitingChoice
		s.Message = "Choose a token to move"
	}

	result.Events = events
	return result
}

// ResolveForfeit ends a turn lost to three sixes
func (e *GameEngine) ResolveForfeit() ([]Event, error) {
	if e.state == nil || !e.state.ForfeitPending {
		return nil, ErrNothingToResolve
	}
	e.state.ForfeitPending = false
	e.clearDice()
	return e.advance(nil), nil
}

// SkipTurn passes a turn that has no legal move
func (e *GameEngine) SkipTurn() ([]Event, error) {
	if e.state == nil || !e.state.SkipPending {
		return nil, ErrNothingToResolve
	}
	e.state.SkipPending = false
	e.clearDice()
	return e.advance(nil), nil
}

// SkipCountdown updates the status line while a skip is pending and returns
// the countdown signal for remaining seconds
func (e *GameEngine) SkipCountdown(remaining int) (Event, error) {
	s := e.state
	if s == nil || !s.SkipPending {
		return Event{}, ErrNothingToResolve
	}
	s.Message = SkipMessage(remaining)
	return Event{
		Type:      EventSkipCountdown,
		Player:    s.CurrentPlayer,
		Color:     s.Current().Color,
		Remaining: remaining,
		Message:   s.Message,
	}, nil
}

// SelectToken moves one of the current player's tokens by the rolled value.
// Capture, win and bonus are decided here; the phase stays animating until
// CompleteMove.
func (e *GameEngine) SelectToken(color Color, index int) (*MoveResult, error) {
	s := e.state
	switch {
	case s == nil:
		return nil, ErrNotStarted
	case s.Phase == PhaseGameOver:
		return nil, ErrGameOver
	case s.Phase == PhaseAnimating:
		return nil, ErrAnimating
	case s.ForfeitPending:
		return nil, ErrForfeitPending
	case s.SkipPending:
		return nil, ErrSkipPending
	case !s.DiceRolled:
		return nil, ErrNoRoll
	}
	if !color.Valid() || index < 0 || index >= TokensPerPlayer {
		return nil, fmt.Errorf("%w: token %s/%d", ErrInvalidValue, color, index)
	}

	player := s.Current()
	if color != player.Color {
		return nil, ErrNotYourToken
	}
	token := player.Tokens[index]
	dice := s.DiceValue
	if !token.CanMove(dice) {
		return nil, ErrIllegalMove
	}

	path := token.Path(dice)
	token.Move(dice)

	ref := token.Ref()
	result := &MoveResult{Token: ref, Path: path}
	events := []Event{{
		Type:   EventMoveApplied,
		Player: s.CurrentPlayer,
		Color:  player.Color,
		Dice:   dice,
		Token:  &ref,
		Path:   path,
	}}

	for _, victim := range e.captures(token) {
		victim.SendToBase()
		vref := victim.Ref()
		result.Captured = append(result.Captured, vref)
		s.Message = fmt.Sprintf("%s captured %s! Roll again", colorName(player.Color), colorName(victim.Color))
		events = append(events, Event{
			Type:    EventCapture,
			Player:  s.CurrentPlayer,
			Color:   player.Color,
			Token:   &ref,
			Victim:  &vref,
			Message: s.Message,
		})
	}
	captured := len(result.Captured) > 0

	s.Movable = nil
	if player.HasWon() {
		e.clearDice()
		s.Winner = s.CurrentPlayer
		s.Phase = PhaseGameOver
		s.Message = fmt.Sprintf("%s wins!", colorName(player.Color))
		result.Won = true
		result.Events = append(events, Event{
			Type:    EventGameWon,
			Player:  s.CurrentPlayer,
			Color:   player.Color,
			Message: s.Message,
		})
		return result, nil
	}

	switch {
	case captured && dice != ExitRoll:
		s.CanRollAgain = true
		s.ConsecutiveSixes = 0
		result.BonusTurn = true
	case dice == ExitRoll:
		s.CanRollAgain = true
		result.BonusTurn = true
		if captured {
			s.Message = fmt.Sprintf("Captured and rolled a 6! (%d/%d) Roll again", s.ConsecutiveSixes, MaxConsecutiveSixes)
		} else {
			s.Message = fmt.Sprintf("You rolled a 6! (%d/%d) Roll again", s.ConsecutiveSixes, MaxConsecutiveSixes)
		}
	}

	e.clearDice()
	if result.BonusTurn {
		events = append(events, Event{
			Type:    EventBonusTurn,
			Player:  s.CurrentPlayer,
			Color:   player.Color,
			Sixes:   s.ConsecutiveSixes,
			Message: s.Message,
		})
	} else {
		events = e.advance(events)
	}

	s.Phase = PhaseAnimating
	result.Events = events
	return result, nil
}

// captures returns the opposing tokens the moved token lands on
func (e *GameEngine) captures(mover *Token) []*Token {
	if !mover.OnMainPath() {
		return nil
	}
	abs := mover.AbsolutePosition()
	if IsSafeSpot(abs) {
		return nil
	}

	var victims []*Token
	for _, p := range e.state.Players {
		if p.Color == mover.Color {
			continue
		}
		for _, t := range p.Tokens {
			if t.OnMainPath() && t.AbsolutePosition() == abs {
				victims = append(victims, t)
			}
		}
	}
	return victims
}

// CompleteMove ends the animation of the last move
func (e *GameEngine) CompleteMove() error {
	if e.state == nil || e.state.Phase != PhaseAnimating {
		return ErrNothingToResolve
	}
	e.state.Phase = PhaseAwaitingRoll
	return nil
}

// SetSkipDelay sets the auto-skip countdown in seconds
func (e *GameEngine) SetSkipDelay(seconds int) error {
	if seconds < MinSkipDelay || seconds > MaxSkipDelay {
		return fmt.Errorf("%w: skip delay must be between %d and %d seconds, got %d",
			ErrInvalidValue, MinSkipDelay, MaxSkipDelay, seconds)
	}
	e.state.SkipDelay = seconds
	return nil
}

// SetPreference toggles one of the session preferences by name
func (e *GameEngine) SetPreference(name string, value bool) ([]Event, error) {
	switch NormalizePreference(name) {
	case PrefManualDice:
		e.state.Preferences.ManualDice = value
	case PrefAutoMove:
		e.state.Preferences.AutoMove = value
	case PrefAutoRoll:
		e.state.Preferences.AutoRoll = value
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPref, name)
	}
	return []Event{{
		Type:   EventPreferencesChanged,
		Player: e.state.CurrentPlayer,
	}}, nil
}

// NormalizePreference maps accepted aliases onto the canonical preference
// names. Unknown names are returned unchanged.
func NormalizePreference(name string) string {
	switch name {
	case PrefManualDice, "manualMode", "manual":
		return PrefManualDice
	case PrefAutoMove, "autoMoveOnSingleOption", "autoMove":
		return PrefAutoMove
	case PrefAutoRoll, "autoRoll":
		return PrefAutoRoll
	}
	return name
}

// CanRoll reports whether a roll request would be accepted, ignoring dice mode
func (e *GameEngine) CanRoll() bool {
	return e.checkRollGate() == nil
}

// AutoMoveCandidate returns the token to move on its own, or nil
func (e *GameEngine) AutoMoveCandidate() *Token {
	s := e.state
	if s == nil || s.Phase != PhaseRolledAwaitingChoice || !s.Preferences.AutoMove {
		return nil
	}
	movable := s.Current().MovableTokens(s.DiceValue)
	if !IsSingleMoveOption(movable) {
		return nil
	}
	return movable[0]
}

// AutoRollDue reports whether the dice should be rolled without a request
func (e *GameEngine) AutoRollDue() bool {
	s := e.state
	if s == nil || !s.Preferences.AutoRoll || s.Preferences.ManualDice {
		return false
	}
	if s.Phase != PhaseAwaitingRoll {
		return false
	}
	return e.CanRoll()
}

// LegalMoves maps every dice value to the current player's token indexes that could move it
func (e *GameEngine) LegalMoves() map[int][]int {
	return legalMovesFor(e.state.Current())
}

// LegalMoveTable is LegalMoves for every seat
func (e *GameEngine) LegalMoveTable() map[Color]map[int][]int {
	table := make(map[Color]map[int][]int, len(e.state.Players))
	for _, p := range e.state.Players {
		table[p.Color] = legalMovesFor(p)
	}
	return table
}

func legalMovesFor(p *Player) map[int][]int {
	moves := make(map[int][]int, DiceFaces)
	for steps := 1; steps <= DiceFaces; steps++ {
		moves[steps] = tokenIndexes(p.MovableTokens(steps))
	}
	return moves
}

// advance passes the turn to the next seat
func (e *GameEngine) advance(events []Event) []Event {
	s := e.state
	s.CurrentPlayer = (s.CurrentPlayer + 1) % len(s.Players)
	s.ConsecutiveSixes = 0
	s.CanRollAgain = false
	s.Phase = PhaseAwaitingRoll
	s.Message = rollPrompt(s.Current().Color)
	return append(events, Event{
		Type:    EventTurnAdvanced,
		Player:  s.CurrentPlayer,
		Color:   s.Current().Color,
		Message: s.Message,
	})
}

func (e *GameEngine) clearDice() {
	e.state.DiceRolled = false
	e.state.DiceValue = 0
	e.state.Movable = nil
}

func tokenIndexes(tokens []*Token) []int {
	idx := make([]int, 0, len(tokens))
	for _, t := range tokens {
		idx = append(idx, t.Index)
	}
	return idx
}

func colorName(c Color) string {
	return cases.Title(language.English).String(string(c))
}

func rollPrompt(c Color) string {
	return fmt.Sprintf("%s: roll the dice", colorName(c))
}

// SkipMessage is the countdown status line shown while a turn is being skipped
func SkipMessage(remaining int) string {
	return fmt.Sprintf("No legal moves. Skipping in %d...", remaining)
}
