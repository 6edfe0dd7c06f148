package service

import (
	"time"

	"github.com/wricardo/ludo-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	GameID         string             `json:"game_id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// RollResult contains the result of a roll request
type RollResult struct {
	Roll      *engine.RollResult `json:"roll"`
	GameState *engine.GameState  `json:"game_state"`
}

// MoveResult contains the result of a token selection
type MoveResult struct {
	Move      *engine.MoveResult `json:"move"`
	GameState *engine.GameState  `json:"game_state"`
}

// HistoryEntry is one recorded engine event
type HistoryEntry struct {
	Seq       int          `json:"seq"`
	GameID    string       `json:"game_id"`
	Event     engine.Event `json:"event"`
	Timestamp time.Time    `json:"timestamp"`
}

// HistoryOptions configures event history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated event history
type HistoryResponse struct {
	Events      []HistoryEntry `json:"events"`
	TotalEvents int            `json:"total_events"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename         string `json:"filename"`
	ConfigID         string `json:"config_id"` // The identifier to use for session creation
	Name             string `json:"name"`      // Display name
	Description      string `json:"description"`
	SkipDelaySeconds int    `json:"skip_delay_seconds"`
	ManualDice       bool   `json:"manual_dice"`
	AutoMove         bool   `json:"auto_move"`
	AutoRoll         bool   `json:"auto_roll"`
}

// NewConfigInfo summarizes a profile stored under filename
func NewConfigInfo(filename, configID string, config *engine.GameConfig) *ConfigInfo {
	return &ConfigInfo{
		Filename:         filename,
		ConfigID:         configID,
		Name:             config.Name,
		Description:      config.Description,
		SkipDelaySeconds: config.SkipDelaySeconds,
		ManualDice:       config.ManualDice,
		AutoMove:         config.AutoMove,
		AutoRoll:         config.AutoRoll,
	}
}
