package engine

// EventType names a signal the engine emits for the presentation layer
type EventType string

const (
	EventGameStarted        EventType = "game_started"
	EventDiceRolled         EventType = "dice_rolled"
	EventNoLegalMoves       EventType = "no_legal_moves"
	EventSkipCountdown      EventType = "skip_countdown"
	EventAutoMove           EventType = "auto_move"
	EventMoveApplied        EventType = "move_applied"
	EventCapture            EventType = "capture"
	EventTurnForfeited      EventType = "turn_forfeited"
	EventBonusTurn          EventType = "bonus_turn"
	EventTurnAdvanced       EventType = "turn_advanced"
	EventGameWon            EventType = "game_won"
	EventStateLoaded        EventType = "state_loaded"
	EventPreferencesChanged EventType = "preferences_changed"
)

// Event is one engine signal. Only the fields relevant to Type are set.
type Event struct {
	Type      EventType `json:"type"`
	Player    int       `json:"player"`
	Color     Color     `json:"color,omitempty"`
	Dice      int       `json:"dice,omitempty"`
	Token     *TokenRef `json:"token,omitempty"`
	Path      []Cell    `json:"path,omitempty"`
	Victim    *TokenRef `json:"victim,omitempty"`
	Sixes     int       `json:"sixes,omitempty"`
	Remaining int       `json:"remaining,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// IsOutcome reports whether the event announces the result of a move and
// should only be shown once the move animation has played
func (e Event) IsOutcome() bool {
	switch e.Type {
	case EventCapture, EventBonusTurn, EventTurnAdvanced, EventGameWon:
		return true
	}
	return false
}
