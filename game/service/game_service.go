package service

import (
	"context"
	"time"

	"github.com/wricardo/ludo-game/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, playerCount int, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	NewGame(ctx context.Context, sessionID string, playerCount int) (*engine.GameState, error)
	Roll(ctx context.Context, sessionID string) (*RollResult, error)
	RollValue(ctx context.Context, sessionID string, value int) (*RollResult, error)
	SelectToken(ctx context.Context, sessionID string, color engine.Color, index int) (*MoveResult, error)
	SetSkipDelay(ctx context.Context, sessionID string, seconds int) (*engine.GameState, error)
	SetPreference(ctx context.Context, sessionID, name string, value bool) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	ExportState(ctx context.Context, sessionID string) (*engine.Record, error)
	ImportState(ctx context.Context, sessionID string, record *engine.Record) (*engine.GameState, error)
	GetEventHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error

	// Resume arms the timers of every known session, e.g. after loading them from storage
	Resume(ctx context.Context) error
	// Close cancels all pending timers
	Close() error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.GameConfig, playerCount int) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// EventPublisher receives every batch of engine events together with the
// state they produced
type EventPublisher interface {
	Publish(sessionID string, events []engine.Event, state *engine.GameState)
}

// Session represents an active game session
type Session struct {
	ID             string
	GameID         string
	ConfigID       string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
