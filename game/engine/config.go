package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	MinSkipDelay = 1
	MaxSkipDelay = 60

	// Upper bound for any pacing delay in a profile
	MaxPacingMillis = 10000
)

// GameConfig is a named profile: default preferences and pacing for new games
type GameConfig struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	SkipDelaySeconds int    `json:"skip_delay_seconds"`
	ManualDice       bool   `json:"manual_dice"`
	AutoMove         bool   `json:"auto_move"`
	AutoRoll         bool   `json:"auto_roll"`

	// Pacing in milliseconds
	RollRevealMs    int `json:"roll_reveal_ms"`
	ForfeitDelayMs  int `json:"forfeit_delay_ms"`
	AutoMoveDelayMs int `json:"auto_move_delay_ms"`
	AutoRollDelayMs int `json:"auto_roll_delay_ms"`
	StepDelayMs     int `json:"step_delay_ms"`
	StepLeadInMs    int `json:"step_lead_in_ms"`
}

// DefaultGameConfig returns the classic profile
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:             "Classic",
		Description:      "Standard pacing, every choice made by hand",
		SkipDelaySeconds: 1,
		RollRevealMs:     800,
		ForfeitDelayMs:   1500,
		AutoMoveDelayMs:  300,
		AutoRollDelayMs:  500,
		StepDelayMs:      180,
		StepLeadInMs:     50,
	}
}

// Preferences returns the toggles a new game starts with
func (c *GameConfig) Preferences() Preferences {
	return Preferences{ManualDice: c.ManualDice, AutoMove: c.AutoMove, AutoRoll: c.AutoRoll}
}

// AnimationDuration is how long a move of the given path takes to play
func (c *GameConfig) AnimationDuration(pathLen int) time.Duration {
	steps := pathLen - 1
	if steps < 0 {
		steps = 0
	}
	return ms(c.StepLeadInMs) + time.Duration(steps)*ms(c.StepDelayMs)
}

func (c *GameConfig) RollReveal() time.Duration    { return ms(c.RollRevealMs) }
func (c *GameConfig) ForfeitDelay() time.Duration  { return ms(c.ForfeitDelayMs) }
func (c *GameConfig) AutoMoveDelay() time.Duration { return ms(c.AutoMoveDelayMs) }
func (c *GameConfig) AutoRollDelay() time.Duration { return ms(c.AutoRollDelayMs) }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// ValidateGameConfig checks a profile for usable values
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if config.SkipDelaySeconds < MinSkipDelay || config.SkipDelaySeconds > MaxSkipDelay {
		return fmt.Errorf("config validation: skip_delay_seconds must be between %d and %d, got %d",
			MinSkipDelay, MaxSkipDelay, config.SkipDelaySeconds)
	}

	pacing := []struct {
		name  string
		value int
	}{
		{"roll_reveal_ms", config.RollRevealMs},
		{"forfeit_delay_ms", config.ForfeitDelayMs},
		{"auto_move_delay_ms", config.AutoMoveDelayMs},
		{"auto_roll_delay_ms", config.AutoRollDelayMs},
		{"step_delay_ms", config.StepDelayMs},
		{"step_lead_in_ms", config.StepLeadInMs},
	}
	for _, p := range pacing {
		if p.value < 0 || p.value > MaxPacingMillis {
			return fmt.Errorf("config validation: %s must be between 0 and %d, got %d", p.name, MaxPacingMillis, p.value)
		}
	}

	return nil
}

// LoadGameConfig reads and validates a profile file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
