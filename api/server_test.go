package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wricardo/ludo-game/game/config"
	"github.com/wricardo/ludo-game/game/engine"
	"github.com/wricardo/ludo-game/game/service"
	"github.com/wricardo/ludo-game/game/session"
	"github.com/wricardo/ludo-game/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	CreateSessionFunc func(ctx context.Context, playerCount int, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	NewGameFunc       func(ctx context.Context, sessionID string, playerCount int) (*engine.GameState, error)
	RollFunc          func(ctx context.Context, sessionID string) (*service.RollResult, error)
	RollValueFunc     func(ctx context.Context, sessionID string, value int) (*service.RollResult, error)
	SelectTokenFunc   func(ctx context.Context, sessionID string, color engine.Color, index int) (*service.MoveResult, error)
	SetSkipDelayFunc  func(ctx context.Context, sessionID string, seconds int) (*engine.GameState, error)
	SetPreferenceFunc func(ctx context.Context, sessionID, name string, value bool) (*engine.GameState, error)

	GetGameStateFunc    func(ctx context.Context, sessionID string) (*engine.GameState, error)
	ExportStateFunc     func(ctx context.Context, sessionID string) (*engine.Record, error)
	ImportStateFunc     func(ctx context.Context, sessionID string, record *engine.Record) (*engine.GameState, error)
	GetEventHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

func newState() *engine.GameState {
	eng, _ := engine.NewEngine(nil, 4, nil)
	return eng.GetState().Clone()
}

func (m *MockGameService) CreateSession(ctx context.Context, playerCount int, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, playerCount, configName)
	}
	return &service.SessionInfo{ID: "test-session", ConfigName: configName, CreatedAt: time.Now(), GameState: newState()}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, ConfigName: "test-config", CreatedAt: time.Now(), GameState: newState()}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) NewGame(ctx context.Context, sessionID string, playerCount int) (*engine.GameState, error) {
	if m.NewGameFunc != nil {
		return m.NewGameFunc(ctx, sessionID, playerCount)
	}
	return newState(), nil
}

func (m *MockGameService) Roll(ctx context.Context, sessionID string) (*service.RollResult, error) {
	if m.RollFunc != nil {
		return m.RollFunc(ctx, sessionID)
	}
	return &service.RollResult{Roll: &engine.RollResult{Value: 3}, GameState: newState()}, nil
}

func (m *MockGameService) RollValue(ctx context.Context, sessionID string, value int) (*service.RollResult, error) {
	if m.RollValueFunc != nil {
		return m.RollValueFunc(ctx, sessionID, value)
	}
	return &service.RollResult{Roll: &engine.RollResult{Value: value}, GameState: newState()}, nil
}

func (m *MockGameService) SelectToken(ctx context.Context, sessionID string, color engine.Color, index int) (*service.MoveResult, error) {
	if m.SelectTokenFunc != nil {
		return m.SelectTokenFunc(ctx, sessionID, color, index)
	}
	return &service.MoveResult{Move: &engine.MoveResult{Token: engine.TokenRef{Color: color, Index: index}}, GameState: newState()}, nil
}

func (m *MockGameService) SetSkipDelay(ctx context.Context, sessionID string, seconds int) (*engine.GameState, error) {
	if m.SetSkipDelayFunc != nil {
		return m.SetSkipDelayFunc(ctx, sessionID, seconds)
	}
	return newState(), nil
}

func (m *MockGameService) SetPreference(ctx context.Context, sessionID, name string, value bool) (*engine.GameState, error) {
	if m.SetPreferenceFunc != nil {
		return m.SetPreferenceFunc(ctx, sessionID, name, value)
	}
	return newState(), nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return newState(), nil
}

func (m *MockGameService) ExportState(ctx context.Context, sessionID string) (*engine.Record, error) {
	if m.ExportStateFunc != nil {
		return m.ExportStateFunc(ctx, sessionID)
	}
	eng, _ := engine.NewEngine(nil, 2, nil)
	return eng.Serialize(), nil
}

func (m *MockGameService) ImportState(ctx context.Context, sessionID string, record *engine.Record) (*engine.GameState, error) {
	if m.ImportStateFunc != nil {
		return m.ImportStateFunc(ctx, sessionID, record)
	}
	return newState(), nil
}

func (m *MockGameService) GetEventHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetEventHistoryFunc != nil {
		return m.GetEventHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{Events: []service.HistoryEntry{}, Page: opts.Page, PageSize: opts.Limit}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return engine.DefaultGameConfig(), nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

func (m *MockGameService) Resume(ctx context.Context) error { return nil }
func (m *MockGameService) Close() error                     { return nil }

func do(t *testing.T, server http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name        string
		body        interface{}
		wantPlayers int
		wantConfig  string
	}{
		{"empty body", nil, 4, ""},
		{"player count and config", map[string]interface{}{"player_count": 2, "config": "quick"}, 2, "quick"},
		{"deprecated config_id", map[string]interface{}{"config_id": "relaxed"}, 4, "relaxed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPlayers int
			var gotConfig string
			mock := &MockGameService{
				CreateSessionFunc: func(ctx context.Context, playerCount int, configName string) (*service.SessionInfo, error) {
					gotPlayers, gotConfig = playerCount, configName
					return &service.SessionInfo{ID: "ab12", ConfigName: configName, GameState: newState()}, nil
				},
			}

			rec := do(t, NewServer(mock, nil, nil), "POST", "/api/sessions", tt.body)
			if rec.Code != http.StatusCreated {
				t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
			}
			if gotPlayers != tt.wantPlayers || gotConfig != tt.wantConfig {
				t.Errorf("Expected (%d, %q), got (%d, %q)", tt.wantPlayers, tt.wantConfig, gotPlayers, gotConfig)
			}
			if decode(t, rec)["id"] != "ab12" {
				t.Error("Expected session ID in response")
			}
		})
	}
}

func TestCreateSessionUnknownConfig(t *testing.T) {
	mock := &MockGameService{
		CreateSessionFunc: func(ctx context.Context, playerCount int, configName string) (*service.SessionInfo, error) {
			return nil, fmt.Errorf("%w: '%s'", service.ErrConfigNotFound, configName)
		},
	}
	rec := do(t, NewServer(mock, nil, nil), "POST", "/api/sessions", map[string]string{"config": "nope"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mock := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-time.Hour)},
				{ID: "new", CreatedAt: now, LastAccessedAt: now},
				{ID: "mid", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-30 * time.Minute)},
			}, nil
		},
	}
	server := NewServer(mock, nil, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"new", "mid", "old"}},
		{"?sort=created&order=asc", []string{"old", "mid", "new"}},
		{"?limit=1", []string{"new"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, server, "GET", "/api/sessions"+tt.query, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rec.Code)
			}
			var resp struct {
				Count    int                   `json:"count"`
				Total    int                   `json:"total"`
				Sessions []service.SessionInfo `json:"sessions"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}
			if resp.Total != 3 || resp.Count != len(tt.want) {
				t.Errorf("Expected count %d of 3, got %d of %d", len(tt.want), resp.Count, resp.Total)
			}
			for i, id := range tt.want {
				if resp.Sessions[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantRejected bool
	}{
		{"session not found", fmt.Errorf("%w: zz", service.ErrSessionNotFound), http.StatusNotFound, false},
		{"rejection", engine.ErrRollPending, http.StatusConflict, true},
		{"wrapped rejection", fmt.Errorf("%w: seat", engine.ErrInvalidValue), http.StatusConflict, true},
		{"corrupt record", fmt.Errorf("%w: bad", engine.ErrCorruptState), http.StatusUnprocessableEntity, false},
		{"invalid config", service.ErrInvalidConfig, http.StatusBadRequest, false},
		{"other", fmt.Errorf("disk full"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockGameService{
				RollFunc: func(ctx context.Context, sessionID string) (*service.RollResult, error) {
					return nil, tt.err
				},
			}
			rec := do(t, NewServer(mock, nil, nil), "POST", "/api/sessions/ab12/roll", nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			resp := decode(t, rec)
			if resp["error"] == nil {
				t.Error("Expected an error message")
			}
			if rejected, _ := resp["rejected"].(bool); rejected != tt.wantRejected {
				t.Errorf("Expected rejected=%v, got %v", tt.wantRejected, resp["rejected"])
			}
		})
	}
}

func TestRoll(t *testing.T) {
	var called string
	var gotValue int
	mock := &MockGameService{
		RollFunc: func(ctx context.Context, sessionID string) (*service.RollResult, error) {
			called = "roll"
			return &service.RollResult{Roll: &engine.RollResult{Value: 2}, GameState: newState()}, nil
		},
		RollValueFunc: func(ctx context.Context, sessionID string, value int) (*service.RollResult, error) {
			called, gotValue = "value", value
			return &service.RollResult{Roll: &engine.RollResult{Value: value}, GameState: newState()}, nil
		},
	}
	server := NewServer(mock, nil, nil)

	if rec := do(t, server, "POST", "/api/sessions/ab12/roll", nil); rec.Code != http.StatusOK || called != "roll" {
		t.Errorf("Expected a random roll, got %d via %s", rec.Code, called)
	}
	if rec := do(t, server, "POST", "/api/sessions/ab12/roll", map[string]int{"value": 5}); rec.Code != http.StatusOK || called != "value" || gotValue != 5 {
		t.Errorf("Expected a manual roll of 5, got %d via %s (%d)", rec.Code, called, gotValue)
	}
	if rec := do(t, server, "POST", "/api/sessions/ab12/roll", "{"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for a bad body, got %d", rec.Code)
	}
}

func TestSelectToken(t *testing.T) {
	var gotColor engine.Color
	var gotIndex int
	mock := &MockGameService{
		SelectTokenFunc: func(ctx context.Context, sessionID string, color engine.Color, index int) (*service.MoveResult, error) {
			gotColor, gotIndex = color, index
			return &service.MoveResult{Move: &engine.MoveResult{Token: engine.TokenRef{Color: color, Index: index}}, GameState: newState()}, nil
		},
	}
	server := NewServer(mock, nil, nil)

	rec := do(t, server, "POST", "/api/sessions/ab12/select", map[string]interface{}{"color": "Green", "index": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if gotColor != engine.Green || gotIndex != 0 {
		t.Errorf("Expected green/0, got %s/%d", gotColor, gotIndex)
	}

	if rec := do(t, server, "POST", "/api/sessions/ab12/select", map[string]string{"color": "red"}); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without an index, got %d", rec.Code)
	}
}

func TestSettings(t *testing.T) {
	var gotSeconds int
	var gotName string
	var gotValue bool
	mock := &MockGameService{
		SetSkipDelayFunc: func(ctx context.Context, sessionID string, seconds int) (*engine.GameState, error) {
			gotSeconds = seconds
			if seconds > engine.MaxSkipDelay {
				return nil, fmt.Errorf("%w: skip delay", engine.ErrInvalidValue)
			}
			return newState(), nil
		},
		SetPreferenceFunc: func(ctx context.Context, sessionID, name string, value bool) (*engine.GameState, error) {
			gotName, gotValue = name, value
			return newState(), nil
		},
	}
	server := NewServer(mock, nil, nil)

	if rec := do(t, server, "PUT", "/api/sessions/ab12/skip-delay", map[string]int{"seconds": 5}); rec.Code != http.StatusOK || gotSeconds != 5 {
		t.Errorf("Expected skip delay 5 to be applied, got %d (%d)", rec.Code, gotSeconds)
	}
	if rec := do(t, server, "PUT", "/api/sessions/ab12/skip-delay", map[string]int{"seconds": 99}); rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for an out of range delay, got %d", rec.Code)
	}
	if rec := do(t, server, "PUT", "/api/sessions/ab12/preferences/autoRoll", map[string]bool{"enabled": true}); rec.Code != http.StatusOK || gotName != "autoRoll" || !gotValue {
		t.Errorf("Expected autoRoll on, got %d (%s=%v)", rec.Code, gotName, gotValue)
	}
	if rec := do(t, server, "PUT", "/api/sessions/ab12/preferences/autoRoll", map[string]string{}); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without enabled, got %d", rec.Code)
	}
}

func TestRecord(t *testing.T) {
	var imported *engine.Record
	mock := &MockGameService{
		ImportStateFunc: func(ctx context.Context, sessionID string, record *engine.Record) (*engine.GameState, error) {
			imported = record
			return newState(), nil
		},
	}
	server := NewServer(mock, nil, nil)

	rec := do(t, server, "GET", "/api/sessions/ab12/record", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	exported := rec.Body.String()

	if rec := do(t, server, "PUT", "/api/sessions/ab12/record", exported); rec.Code != http.StatusOK {
		t.Fatalf("Expected import to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
	if imported == nil || imported.PlayerCount != 2 {
		t.Error("Expected the exported record to be imported")
	}

	imported = nil
	if rec := do(t, server, "PUT", "/api/sessions/ab12/record", `{"playerCount":9}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422 for a corrupt record, got %d", rec.Code)
	}
	if imported != nil {
		t.Error("Corrupt records should not reach the service")
	}
}

func TestHistory(t *testing.T) {
	tests := []struct {
		query string
		want  service.HistoryOptions
	}{
		{"", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"?page=3&limit=5&order=asc", service.HistoryOptions{Page: 3, Limit: 5, Order: "asc"}},
		{"?page=-1&limit=x&order=sideways", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got service.HistoryOptions
			mock := &MockGameService{
				GetEventHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{}, nil
				},
			}
			if rec := do(t, NewServer(mock, nil, nil), "GET", "/api/sessions/ab12/history"+tt.query, nil); rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rec.Code)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestConfigs(t *testing.T) {
	var savedID string
	mock := &MockGameService{
		LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
			if configName != "classic" {
				return nil, service.ErrConfigNotFound
			}
			return engine.DefaultGameConfig(), nil
		},
		SaveConfigFunc: func(ctx context.Context, configName string, config *engine.GameConfig) error {
			savedID = configName
			return nil
		},
	}
	server := NewServer(mock, nil, nil)

	if rec := do(t, server, "GET", "/api/configs/classic.json", nil); rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if rec := do(t, server, "GET", "/api/configs/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}

	cfg := engine.DefaultGameConfig()
	cfg.Name = "Fast Friends"
	rec := do(t, server, "POST", "/api/configs", cfg)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}
	if savedID != "fast_friends" {
		t.Errorf("Expected config ID fast_friends, got %q", savedID)
	}

	if rec := do(t, server, "POST", "/api/configs", map[string]string{"description": "no name"}); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without a name, got %d", rec.Code)
	}
}

func TestUnifiedSessions(t *testing.T) {
	won := newState()
	won.Winner = 1
	mock := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "a", ConfigName: "classic", GameState: newState()},
				{ID: "b", ConfigName: "quick", GameState: won},
			}, nil
		},
	}
	server := NewServer(mock, nil, nil)

	resp := decode(t, do(t, server, "GET", "/api/sessions/unified", nil))
	if resp["count"].(float64) != 2 || resp["finished"].(float64) != 1 {
		t.Errorf("Expected 2 sessions with 1 finished, got %v/%v", resp["count"], resp["finished"])
	}

	resp = decode(t, do(t, server, "GET", "/api/sessions/unified?configName=quick", nil))
	sessions := resp["sessions"].([]interface{})
	if len(sessions) != 1 || sessions[0].(map[string]interface{})["winner"] != "blue" {
		t.Errorf("Expected the finished quick session won by blue, got %v", sessions)
	}
}

func TestWebSocketEndpoint(t *testing.T) {
	server := NewServer(&MockGameService{}, nil, nil)
	if rec := do(t, server, "GET", "/ws?session=ab12", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 without a hub, got %d", rec.Code)
	}
}

func TestDeleteSessionNotifiesWatchers(t *testing.T) {
	hub := websocket.NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	mock := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return &service.SessionInfo{ID: "ab12", GameState: newState()}, nil
		},
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error { return nil },
	}
	ts := httptest.NewServer(NewServer(mock, hub, nil))
	defer ts.Close()

	conn, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws?session=ab12", nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount("ab12") == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	req, _ := http.NewRequest("DELETE", ts.URL+"/api/sessions/ab12", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read notification: %v", err)
	}
	var msg websocket.Message
	if err := json.Unmarshal([]byte(strings.Split(string(data), "\n")[0]), &msg); err != nil {
		t.Fatalf("Failed to decode %q: %v", data, err)
	}
	if msg.Event != websocket.EventSessionDeleted || msg.SessionID != "ab12" {
		t.Errorf("Unexpected notification %+v", msg)
	}
}

func TestHealth(t *testing.T) {
	resp := decode(t, do(t, NewServer(&MockGameService{}, nil, nil), "GET", "/api/health", nil))
	if resp["status"] != "healthy" || resp["version"] != engine.GameVersion {
		t.Errorf("Unexpected health response %v", resp)
	}
}

// Drives the real service through HTTP with hand-entered dice
func TestServerWithGameService(t *testing.T) {
	configs, err := config.NewManager("../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), configs)
	t.Cleanup(func() { svc.Close() })
	server := NewServer(svc, nil, nil)

	rec := do(t, server, "POST", "/api/sessions", map[string]interface{}{"player_count": 2, "config": "tabletop"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Failed to create session: %d %s", rec.Code, rec.Body.String())
	}
	id := decode(t, rec)["id"].(string)
	base := "/api/sessions/" + id

	// Keep the move in the test's hands
	if rec := do(t, server, "PUT", base+"/preferences/autoMove", map[string]bool{"enabled": false}); rec.Code != http.StatusOK {
		t.Fatalf("Failed to disable auto-move: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, server, "POST", base+"/roll", nil); rec.Code != http.StatusConflict {
		t.Errorf("Expected random rolls to be rejected in manual mode, got %d", rec.Code)
	}
	if rec := do(t, server, "POST", base+"/roll", map[string]int{"value": 6}); rec.Code != http.StatusOK {
		t.Fatalf("Manual roll failed: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, server, "POST", base+"/roll", map[string]int{"value": 6}); rec.Code != http.StatusConflict {
		t.Errorf("Expected a second roll to be rejected, got %d", rec.Code)
	}
	if rec := do(t, server, "POST", base+"/select", map[string]interface{}{"color": "blue", "index": 0}); rec.Code != http.StatusConflict {
		t.Errorf("Expected selecting another player's token to be rejected, got %d", rec.Code)
	}

	rec = do(t, server, "POST", base+"/select", map[string]interface{}{"color": "red", "index": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("Select failed: %d %s", rec.Code, rec.Body.String())
	}
	var move service.MoveResult
	if err := json.NewDecoder(rec.Body).Decode(&move); err != nil {
		t.Fatalf("Failed to decode move: %v", err)
	}
	if !move.Move.BonusTurn || len(move.Move.Path) != 2 {
		t.Errorf("Expected an exit from base with a bonus turn, got %+v", move.Move)
	}

	if rec := do(t, server, "GET", "/api/sessions/zzzz/state", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown session, got %d", rec.Code)
	}
}
