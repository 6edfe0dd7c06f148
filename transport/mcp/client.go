package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/ludo-game/game/engine"
	"github.com/wricardo/ludo-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Ludo",
		engine.GameVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Ludo - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Move all four of your tokens from base, once around the board and into the center.

TURN FLOW:
1. roll_dice (or roll_dice with value when manual dice are on)
2. select_token with one of the movable token indexes from the roll
3. Repeat. Rolling a 6 or capturing grants another roll.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage tables
- game_state: board, turn and legal tokens
- roll_dice: roll for the current player
- select_token: move a token by the rolled value
- set_preference: toggle manual_dice, auto_move or auto_roll
- set_skip_delay: seconds before a turn without moves is skipped
- new_game: start over with 2-4 players
- export_state / import_state: save and restore a game record
- event_history: what happened so far
- list_configs: available profiles
- game_instructions: full rules

A rejected action leaves the game unchanged; read the message and try again.`),
	)

	c.registerTools()
}

func sessionParam() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_count": map[string]interface{}{
					"type":        "integer",
					"description": "Number of players, 2 to 4 (default 4)",
				},
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Profile to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionParam()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionParam()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the dice for the current player. Pass value only when manual dice are enabled.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"value": map[string]interface{}{
					"type":        "integer",
					"description": "Dice value 1-6 (manual dice mode only)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRollDice)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_token",
		Description: "Move one of the current player's tokens by the rolled value",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"color": map[string]interface{}{
					"type":        "string",
					"description": "Token color (must be the current player's)",
					"enum":        []string{"red", "blue", "green", "yellow"},
				},
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Token index 0-3",
				},
			},
			Required: []string{"session_id", "color", "index"},
		},
	}, c.handleSelectToken)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_preference",
		Description: "Turn a session preference on or off",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Preference name",
					"enum":        []string{engine.PrefManualDice, engine.PrefAutoMove, engine.PrefAutoRoll},
				},
				"enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "New value",
				},
			},
			Required: []string{"session_id", "name", "enabled"},
		},
	}, c.handleSetPreference)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_skip_delay",
		Description: "Set how many seconds a turn without legal moves waits before it is skipped",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"seconds": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Seconds, %d to %d", engine.MinSkipDelay, engine.MaxSkipDelay),
				},
			},
			Required: []string{"session_id", "seconds"},
		},
	}, c.handleSetSkipDelay)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Discard the current game and start a new one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"player_count": map[string]interface{}{
					"type":        "integer",
					"description": "Number of players, 2 to 4 (default: keep the current table)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "export_state",
		Description: "Export the game as a JSON record",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionParam()},
			Required:   []string{"session_id"},
		},
	}, c.handleExportState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "import_state",
		Description: "Replace the game with a JSON record from export_state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"record": map[string]interface{}{
					"type":        "string",
					"description": "The record JSON",
				},
			},
			Required: []string{"session_id", "record"},
		},
	}, c.handleImportState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "event_history",
		Description: "Get the game's event history with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Events per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "desc (newest first, default) or asc",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleEventHistory)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game profiles",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	switch b := body.(type) {
	case nil:
	case json.RawMessage:
		reqBody = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error    string `json:"error"`
			Rejected bool   `json:"rejected"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		switch {
		case errResp.Rejected:
			return fmt.Errorf("rejected: %s", errResp.Error)
		case errResp.Error != "":
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if configName, _ := args["config_name"].(string); configName != "" {
		body["config"] = configName
	}
	if n, ok := intArg(args, "player_count"); ok {
		body["player_count"] = n
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Config: %s, Players: %d, Phase: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.GameState.PlayerCount(), s.GameState.Phase, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleRollDice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	var body interface{}
	if v, ok := intArg(args, "value"); ok {
		body = map[string]int{"value": v}
	}

	var result service.RollResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/roll"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRollResult(&result)), nil
}

func (c *Client) handleSelectToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	color, _ := args["color"].(string)
	index, ok := intArg(args, "index")
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}

	body := map[string]interface{}{"color": color, "index": index}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/select"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleSetPreference(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	name, _ := args["name"].(string)
	enabled, ok := args["enabled"].(bool)
	if !ok {
		return mcp.NewToolResultError("enabled must be true or false"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "PUT", sessionPath(sessionID, "/preferences/"+url.PathEscape(name)), map[string]bool{"enabled": enabled}, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s set to %v\n\n%s", name, enabled, formatGameState(&state))), nil
}

func (c *Client) handleSetSkipDelay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	seconds, ok := intArg(args, "seconds")
	if !ok {
		return mcp.NewToolResultError("seconds is required"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "PUT", sessionPath(sessionID, "/skip-delay"), map[string]int{"seconds": seconds}, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Skip delay set to %ds", state.SkipDelay)), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	body := map[string]int{}
	if n, ok := intArg(args, "player_count"); ok {
		body["player_count"] = n
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/new-game"), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleExportState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var record json.RawMessage
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/record"), nil, &record); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(bytes.TrimSpace(record))), nil
}

func (c *Client) handleImportState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	record, _ := args["record"].(string)
	if strings.TrimSpace(record) == "" {
		return mcp.NewToolResultError("record is required"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "PUT", sessionPath(sessionID, "/record"), json.RawMessage(record), &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Game restored\n\n" + formatGameState(&state)), nil
}

func (c *Client) handleEventHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		params.Set("order", order)
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Skip delay: %ds, manual dice: %v, auto-move: %v, auto-roll: %v\n\n",
			config.Name, config.ConfigID, config.Description,
			config.SkipDelaySeconds, config.ManualDice, config.AutoMove, config.AutoRoll)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Ludo - Complete Instructions

GAME OBJECTIVE:
Be the first player to bring all four tokens into the center of the board.

BOARD:
• 52 shared cells form the main track. Each color enters it at its own start cell.
• After almost a full lap a token turns into its own 6-cell home stretch; the last cell is the center.
• The four start cells are safe: nobody is captured there.

PLAYERS:
• 2 players: red, blue. 3 players: red, blue, green. 4 players: red, blue, green, yellow.

TURN:
1. Roll the die (roll_dice).
2. Pick one of the movable tokens the roll lists (select_token).
• A token leaves base only on a 6 and lands on its start cell.
• A token must land exactly on the center; overshooting is not allowed.
• If no token can move, the turn is skipped after the skip delay.

BONUS ROLLS:
• Rolling a 6 grants another roll.
• Capturing grants another roll.
• A third 6 in a row forfeits the turn; nothing moves.

CAPTURE:
Landing on an opponent's token outside a safe cell sends it back to base.

WINNING:
The first player with all four tokens in the center wins and the game ends.

PREFERENCES:
• manual_dice: enter dice values yourself (roll_dice with value)
• auto_move: when only one token (or only tokens in base) can move, it moves by itself
• auto_roll: the next roll happens by itself

TIPS:
• Token positions are counted from the owner's start: -1 is base, 0-51 the track, 52-57 the home stretch.
• Use game_state after every action; moves animate for a moment before the next turn starts.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nGame: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.GameID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil || len(state.Players) == 0 {
		return "No game state available"
	}

	var b strings.Builder
	current := state.Current()
	fmt.Fprintf(&b, "Turn: %s | Phase: %s", current.Color, state.Phase)
	if state.DiceRolled {
		fmt.Fprintf(&b, " | Dice: %d", state.DiceValue)
	}
	if state.ConsecutiveSixes > 0 {
		fmt.Fprintf(&b, " | Sixes: %d/%d", state.ConsecutiveSixes, engine.MaxConsecutiveSixes)
	}
	b.WriteString("\n\n")

	for i, p := range state.Players {
		marker := " "
		if i == state.CurrentPlayer {
			marker = "▶"
		}
		fmt.Fprintf(&b, "%s %-6s %s\n", marker, p.Color, formatTokens(p))
	}

	if len(state.Movable) > 0 {
		fmt.Fprintf(&b, "\nMovable tokens: %v\n", state.Movable)
	}

	prefs := state.Preferences
	fmt.Fprintf(&b, "\nManual dice: %v | Auto-move: %v | Auto-roll: %v | Skip delay: %ds\n",
		prefs.ManualDice, prefs.AutoMove, prefs.AutoRoll, state.SkipDelay)

	if state.Winner != engine.NoWinner {
		fmt.Fprintf(&b, "\nWINNER: %s\n", state.Players[state.Winner].Color)
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatTokens(p *engine.Player) string {
	parts := make([]string, 0, len(p.Tokens))
	for _, t := range p.Tokens {
		switch {
		case t.Finished:
			parts = append(parts, fmt.Sprintf("%d:done", t.Index))
		case t.InBase:
			parts = append(parts, fmt.Sprintf("%d:base", t.Index))
		case t.InHomeStretch():
			parts = append(parts, fmt.Sprintf("%d:home%d", t.Index, t.Position-engine.HomeStretchBase+1))
		default:
			parts = append(parts, fmt.Sprintf("%d:%d", t.Index, t.Position))
		}
	}
	return strings.Join(parts, "  ")
}

func formatRollResult(result *service.RollResult) string {
	var b strings.Builder
	roll := result.Roll
	fmt.Fprintf(&b, "Rolled: %d\n", roll.Value)

	switch {
	case roll.Forfeited:
		b.WriteString("Third 6 in a row: turn forfeited\n")
	case roll.Skipped:
		b.WriteString("No legal moves: turn will be skipped\n")
	case roll.AutoMove != nil:
		fmt.Fprintf(&b, "Only one choice: %s token %d moves automatically\n", roll.AutoMove.Color, roll.AutoMove.Index)
	case len(roll.Movable) > 0:
		fmt.Fprintf(&b, "Movable tokens: %v\n", roll.Movable)
	}

	writeEvents(&b, roll.Events)
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	move := result.Move
	fmt.Fprintf(&b, "✓ Moved %s token %d (%d cells)\n", move.Token.Color, move.Token.Index, len(move.Path)-1)
	for _, v := range move.Captured {
		fmt.Fprintf(&b, "Captured %s token %d\n", v.Color, v.Index)
	}
	if move.Won {
		b.WriteString("Game won!\n")
	} else if move.BonusTurn {
		b.WriteString("Bonus roll earned\n")
	}

	writeEvents(&b, move.Events)
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func writeEvents(b *strings.Builder, events []engine.Event) {
	if len(events) == 0 {
		return
	}
	b.WriteString("Events:\n")
	for _, event := range events {
		fmt.Fprintf(b, "- %s", event.Type)
		if event.Message != "" {
			fmt.Fprintf(b, ": %s", event.Message)
		}
		b.WriteString("\n")
	}
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalEvents)

	for _, entry := range history.Events {
		ev := entry.Event
		fmt.Fprintf(&b, "%d. [%s] %s", entry.Seq, entry.Timestamp.Format("15:04:05"), ev.Type)
		if ev.Color != "" {
			fmt.Fprintf(&b, " %s", ev.Color)
		}
		if ev.Dice > 0 {
			fmt.Fprintf(&b, " dice=%d", ev.Dice)
		}
		if ev.Token != nil {
			fmt.Fprintf(&b, " token=%d", ev.Token.Index)
		}
		if ev.Victim != nil {
			fmt.Fprintf(&b, " victim=%s/%d", ev.Victim.Color, ev.Victim.Index)
		}
		if ev.Message != "" {
			fmt.Fprintf(&b, " %q", ev.Message)
		}
		b.WriteString("\n")
	}
	if history.HasNext {
		b.WriteString("\nMore events on the next page.\n")
	}

	return b.String()
}
