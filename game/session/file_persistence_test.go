package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/ludo-game/game/config"
	"github.com/wricardo/ludo-game/game/engine"
	"github.com/wricardo/ludo-game/game/service"
)

func newTestPersistence(t *testing.T) (*FilePersistence, *config.Manager, string) {
	t.Helper()
	tempDir := t.TempDir()

	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	persistence, err := NewFilePersistence(tempDir, configManager, nil)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	return persistence, configManager, tempDir
}

func newTestSession(t *testing.T, id string, gameConfig *engine.GameConfig, dice engine.Dice) *service.Session {
	t.Helper()
	eng, err := engine.NewEngine(gameConfig, 4, dice)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return &service.Session{
		ID:             id,
		GameID:         "game-" + id,
		ConfigID:       config.DefaultConfigName,
		Engine:         eng,
		Config:         gameConfig,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
}

func TestFilePersistence(t *testing.T) {
	persistence, configManager, _ := newTestPersistence(t)
	session := newTestSession(t, "test1", configManager.GetDefault(), engine.NewSequenceDice(6, 4))

	t.Run("Save and Load Session", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		if !persistence.Exists("test1") {
			t.Error("Session should exist after save")
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if loaded.ID != session.ID || loaded.GameID != session.GameID || loaded.ConfigID != session.ConfigID {
			t.Errorf("Loaded identity %s/%s/%s does not match", loaded.ID, loaded.GameID, loaded.ConfigID)
		}
		if loaded.Engine.GetState().PlayerCount() != 4 {
			t.Errorf("Expected 4 players, got %d", loaded.Engine.GetState().PlayerCount())
		}
	})

	t.Run("Save State Changes", func(t *testing.T) {
		if _, err := session.Engine.Roll(); err != nil {
			t.Fatalf("Roll failed: %v", err)
		}
		if _, err := session.Engine.SelectToken(engine.Red, 2); err != nil {
			t.Fatalf("SelectToken failed: %v", err)
		}
		if err := session.Engine.CompleteMove(); err != nil {
			t.Fatalf("CompleteMove failed: %v", err)
		}
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save updated session: %v", err)
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load updated session: %v", err)
		}
		token := loaded.Engine.GetState().Players[0].Tokens[2]
		if token.InBase || token.Position != 0 {
			t.Errorf("Expected red token 2 on its start cell, got in_base=%v position=%d", token.InBase, token.Position)
		}
		if loaded.Engine.GetState().CurrentPlayer != 0 {
			t.Errorf("Expected red to keep the turn after a six, got player %d", loaded.Engine.GetState().CurrentPlayer)
		}
	})

	t.Run("List All Sessions", func(t *testing.T) {
		session2 := newTestSession(t, "test2", configManager.GetDefault(), nil)
		if err := persistence.Save(session2); err != nil {
			t.Fatalf("Failed to save second session: %v", err)
		}

		sessionIDs, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}

		found := make(map[string]bool)
		for _, id := range sessionIDs {
			found[id] = true
		}
		if !found["test1"] || !found["test2"] {
			t.Errorf("Expected sessions not found in list %v", sessionIDs)
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		if err := persistence.Delete("test2"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if persistence.Exists("test2") {
			t.Error("Session should not exist after delete")
		}
		if _, err := persistence.Load("test2"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Error Cases", func(t *testing.T) {
		if _, err := persistence.Load("nonexistent"); err == nil {
			t.Error("Should get error when loading non-existent session")
		}
		if err := persistence.Delete("nonexistent"); err == nil {
			t.Error("Should get error when deleting non-existent session")
		}
		if err := persistence.Save(nil); err == nil {
			t.Error("Should get error when saving nil session")
		}
	})
}

func TestFilePersistenceFileStructure(t *testing.T) {
	persistence, configManager, tempDir := newTestPersistence(t)
	session := newTestSession(t, "File_Test", configManager.GetDefault(), nil)

	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	// File names are lowercased
	expectedFile := filepath.Join(tempDir, "file_test.json")
	data, err := os.ReadFile(expectedFile)
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}

	content := string(data)
	for _, field := range []string{`"id"`, `"config_name"`, `"game_id"`, `"created_at"`, `"record"`, `"playerCount"`} {
		if !strings.Contains(content, field) {
			t.Errorf("Session file should contain field %s", field)
		}
	}

	if _, err := os.Stat(expectedFile + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temporary file should be renamed away")
	}
}

func TestFilePersistenceRecovery(t *testing.T) {
	persistence, _, tempDir := newTestPersistence(t)

	write := func(t *testing.T, id string, data PersistedSessionData) {
		t.Helper()
		raw, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("Failed to marshal: %v", err)
		}
		if err := os.WriteFile(filepath.Join(tempDir, id+".json"), raw, 0644); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
	}

	t.Run("corrupt record becomes a fresh game", func(t *testing.T) {
		write(t, "broken", PersistedSessionData{
			ID:         "broken",
			ConfigName: config.DefaultConfigName,
			GameID:     "old-game",
			Record:     json.RawMessage(`{"playerCount":3,"currentPlayer":7,"players":[]}`),
		})

		loaded, err := persistence.Load("broken")
		if err != nil {
			t.Fatalf("Expected recovery, got %v", err)
		}
		state := loaded.Engine.GetState()
		if state.PlayerCount() != 3 {
			t.Errorf("Expected player count 3 to be kept, got %d", state.PlayerCount())
		}
		if state.Phase != engine.PhaseAwaitingRoll || state.CurrentPlayer != 0 {
			t.Errorf("Expected a fresh game, got phase %s player %d", state.Phase, state.CurrentPlayer)
		}
		if loaded.GameID != "" {
			t.Errorf("Expected game ID to be cleared, got %q", loaded.GameID)
		}
	})

	t.Run("unreadable record falls back to four players", func(t *testing.T) {
		write(t, "garbage", PersistedSessionData{
			ID:         "garbage",
			ConfigName: config.DefaultConfigName,
			Record:     json.RawMessage(`"not a record"`),
		})

		loaded, err := persistence.Load("garbage")
		if err != nil {
			t.Fatalf("Expected recovery, got %v", err)
		}
		if loaded.Engine.GetState().PlayerCount() != engine.MaxPlayers {
			t.Errorf("Expected %d players, got %d", engine.MaxPlayers, loaded.Engine.GetState().PlayerCount())
		}
	})

	t.Run("missing profile uses the default", func(t *testing.T) {
		eng, _ := engine.NewEngine(nil, 2, nil)
		record, _ := engine.EncodeRecord(eng.Serialize())
		write(t, "orphan", PersistedSessionData{
			ID:         "orphan",
			ConfigName: "deleted-profile",
			GameID:     "g1",
			Record:     record,
		})

		loaded, err := persistence.Load("orphan")
		if err != nil {
			t.Fatalf("Expected fallback, got %v", err)
		}
		if loaded.Config == nil || loaded.Config.Name == "" {
			t.Error("Expected the default profile")
		}
		if loaded.GameID != "g1" || loaded.Engine.GetState().PlayerCount() != 2 {
			t.Errorf("Expected game g1 with 2 players, got %q with %d", loaded.GameID, loaded.Engine.GetState().PlayerCount())
		}
	})

	t.Run("invalid JSON fails", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(tempDir, "junk.json"), []byte("{"), 0644); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
		if _, err := persistence.Load("junk"); err == nil {
			t.Error("Expected an error for an unparseable file")
		}
	})
}
