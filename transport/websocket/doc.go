// Package websocket pushes game events to browsers following a session.
//
// Architecture:
//
// A central Hub owns every connection. Each client gets a read pump that
// keeps the connection alive and a write pump that batches queued messages
// into one frame, separated by newlines.
//
// Message Protocol:
//
// Every message is JSON:
//
//	{"session_id": "ab12", "event": "dice_rolled", "data": {...engine event...}}
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// The hub implements service.EventPublisher. Each batch of engine events is
// followed by one state_update carrying the state the batch produced, so a
// client that only renders state can ignore the rest.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run()
//	defer hub.Stop()
//
//	svc := service.NewGameService(sessions, configs, service.WithPublisher(hub))
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Publish never blocks. When the outbound queue is full messages are dropped
// and logged, and a client whose own queue is full is disconnected.
package websocket
