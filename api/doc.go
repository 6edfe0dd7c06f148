// Package api provides the HTTP REST API of the Ludo server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"player_count": 2, "config": "quick"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=n)
//   - GET /api/sessions/unified - Summaries for a multi-table view (?sessionIds=a,b or ?configName=x)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/new-game - Start over ({"player_count": n}, 0 keeps the table size)
//   - POST /api/sessions/{id}/roll - Roll the dice; {"value": n} enters a value in manual mode
//   - POST /api/sessions/{id}/select - Move a token ({"color": "red", "index": 0})
//   - PUT /api/sessions/{id}/skip-delay - Seconds before a turn without moves is skipped
//   - PUT /api/sessions/{id}/preferences/{name} - Toggle manualDice, autoMove or autoRoll
//   - GET /api/sessions/{id}/history - Event history (?page=1&limit=20&order=desc)
//
// Save/Load:
//   - GET /api/sessions/{id}/record - Export the game record
//   - PUT /api/sessions/{id}/record - Replace the game with a record
//
// Configuration:
//   - GET /api/configs - List profiles
//   - GET /api/configs/{name} - Get one profile
//   - POST /api/configs - Save a profile
//
// Live Updates:
//   - GET /ws?session={id} - WebSocket stream of engine events
//
// Errors:
//
// Every error body is {"error": "..."}. A game action the rules do not allow
// right now answers 409 with "rejected": true and leaves the game unchanged.
// Unknown sessions and profiles answer 404, a record that fails validation
// 422.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, logger)
//	http.ListenAndServe(":8080", server)
package api
