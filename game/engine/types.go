package engine

// GameVersion is reported by the server and stamped into saved sessions
const GameVersion = "1.2.0"

// Phase is the turn state machine position
type Phase string

const (
	PhaseAwaitingRoll         Phase = "awaiting_roll"
	PhaseRolledAwaitingChoice Phase = "rolled_awaiting_choice"
	PhaseAnimating            Phase = "animating"
	PhaseTurnResolved         Phase = "turn_resolved"
	PhaseGameOver             Phase = "game_over"
)

// NoWinner marks a game still in progress
const NoWinner = -1

// Preference names accepted by SetPreference
const (
	PrefManualDice = "manual_dice"
	PrefAutoMove   = "auto_move"
	PrefAutoRoll   = "auto_roll"
)

// Preferences are per-session toggles that change which transitions fire on their own
type Preferences struct {
	ManualDice bool `json:"manual_dice"`
	AutoMove   bool `json:"auto_move"`
	AutoRoll   bool `json:"auto_roll"`
}

// GameState is the complete state of one game
type GameState struct {
	Players          []*Player   `json:"players"`
	CurrentPlayer    int         `json:"current_player"`
	DiceValue        int         `json:"dice_value"`
	DiceRolled       bool        `json:"dice_rolled"`
	CanRollAgain     bool        `json:"can_roll_again"`
	ConsecutiveSixes int         `json:"consecutive_sixes"`
	SkipDelay        int         `json:"skip_delay"`
	Preferences      Preferences `json:"preferences"`
	ConfigName       string      `json:"config_name"`

	Phase          Phase  `json:"phase"`
	Winner         int    `json:"winner"`
	ForfeitPending bool   `json:"forfeit_pending"`
	SkipPending    bool   `json:"skip_pending"`
	Movable        []int  `json:"movable"`
	Message        string `json:"message"`
}

// Current returns the player whose turn it is
func (s *GameState) Current() *Player {
	if len(s.Players) == 0 {
		return nil
	}
	return s.Players[s.CurrentPlayer]
}

// PlayerCount returns the number of seats in play
func (s *GameState) PlayerCount() int {
	return len(s.Players)
}

// Clone returns a deep copy safe to hand to other goroutines
func (s *GameState) Clone() *GameState {
	c := *s
	c.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.clone()
	}
	if s.Movable != nil {
		c.Movable = append([]int(nil), s.Movable...)
	}
	return &c
}

// RollResult reports the outcome of a roll
type RollResult struct {
	Value     int       `json:"value"`
	Movable   []int     `json:"movable"`
	Forfeited bool      `json:"forfeited"`
	Skipped   bool      `json:"skipped"`
	AutoMove  *TokenRef `json:"auto_move,omitempty"`
	Events    []Event   `json:"events"`
}

// MoveResult reports the outcome of a token selection. Events holds the
// move_applied signal followed by the outcome signals.
type MoveResult struct {
	Token     TokenRef   `json:"token"`
	Path      []Cell     `json:"path"`
	Captured  []TokenRef `json:"captured,omitempty"`
	BonusTurn bool       `json:"bonus_turn"`
	Won       bool       `json:"won"`
	Events    []Event    `json:"events"`
}
