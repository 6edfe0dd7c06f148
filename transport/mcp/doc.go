// Package mcp exposes the Ludo server to AI agents over the Model Context
// Protocol.
//
// The Client holds no game state. Every tool call is forwarded to the REST
// API of a running server and the JSON answer is rendered as text an agent
// can read.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: table management
//   - game_state: seats, token positions, dice and movable tokens
//   - roll_dice: roll, or enter a value when manual dice are on
//   - select_token: move a token of the current player
//   - set_preference, set_skip_delay: per-session settings
//   - new_game: restart with 2 to 4 players
//   - export_state, import_state: save and restore a game record
//   - event_history: paginated engine events
//   - list_configs, game_instructions: profiles and rules
//
// A move the rules refuse comes back as a tool error prefixed with
// "rejected:"; the game is unchanged and the agent may try again.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
