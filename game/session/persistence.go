package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/ludo-game/game/engine"
	"github.com/wricardo/ludo-game/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions
type PersistedSessionData struct {
	ID             string          `json:"id"`
	ConfigName     string          `json:"config_name"`
	GameID         string          `json:"game_id"`
	Version        string          `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	Record         json.RawMessage `json:"record"`
}

// newPersistedData captures a session for storage
func newPersistedData(session *service.Session) (*PersistedSessionData, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	record, err := engine.EncodeRecord(session.Engine.Serialize())
	if err != nil {
		return nil, fmt.Errorf("failed to encode game record: %w", err)
	}
	return &PersistedSessionData{
		ID:             session.ID,
		ConfigName:     session.ConfigID,
		GameID:         session.GameID,
		Version:        engine.GameVersion,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Record:         record,
	}, nil
}

// restoreSession rebuilds a session from stored data. A record that fails
// to decode or validate is discarded and replaced by a fresh game, so one
// bad save never locks a session.
func restoreSession(data *PersistedSessionData, configs service.ConfigManager, logger *zap.Logger) (*service.Session, error) {
	gameConfig, err := configs.LoadConfig(data.ConfigName)
	if err != nil {
		if !errors.Is(err, service.ErrConfigNotFound) {
			return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
		}
		logger.Warn("profile of persisted session is gone, using default",
			zap.String("session", data.ID),
			zap.String("config", data.ConfigName))
		gameConfig = configs.GetDefault()
	}

	rec, decodeErr := engine.DecodeRecord(data.Record)
	playerCount := recordPlayerCount(data.Record)

	gameEngine, err := engine.NewEngine(gameConfig, playerCount, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}

	gameID := data.GameID
	if decodeErr == nil {
		_, decodeErr = gameEngine.LoadRecord(rec)
	}
	if decodeErr != nil {
		logger.Warn("discarding corrupt game record",
			zap.String("session", data.ID),
			zap.Int("players", playerCount),
			zap.Error(decodeErr))
		gameID = ""
	}

	return &service.Session{
		ID:             data.ID,
		GameID:         gameID,
		ConfigID:       data.ConfigName,
		Engine:         gameEngine,
		Config:         gameConfig,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// recordPlayerCount reads the seat count of a record that may not validate,
// falling back to a full table
func recordPlayerCount(raw json.RawMessage) int {
	var head struct {
		PlayerCount int `json:"playerCount"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return engine.MaxPlayers
	}
	if head.PlayerCount < engine.MinPlayers || head.PlayerCount > engine.MaxPlayers {
		return engine.MaxPlayers
	}
	return head.PlayerCount
}
