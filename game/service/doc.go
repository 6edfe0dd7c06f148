// Package service provides the business logic layer for the Ludo game.
//
// The service package implements:
//   - Multi-session game management
//   - Delayed turn transitions (forfeit, auto-skip, auto-move, auto-roll, animation)
//   - Event publishing and per-session event history
//   - Opportunistic persistence after every change
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game profile loading and validation.
// EventPublisher receives engine events, usually the WebSocket hub.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the turn engine. The engine decides every outcome synchronously; the service
// owns time. After each operation it looks at the engine state and keeps at
// most one timer per session pending. One mutex serializes requests and timer
// callbacks, so the engine is only ever touched from one logical thread, and a
// timer cancelled by a later request never acts.
//
// Usage:
//
//	sessionMgr := session.NewManager(session.WithLogger(logger))
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithPublisher(hub),
//		service.WithLogger(logger))
//
//	info, err := gameService.CreateSession(ctx, 4, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	roll, err := gameService.Roll(ctx, info.ID)
//	if err == nil && len(roll.Roll.Movable) > 0 {
//		_, err = gameService.SelectToken(ctx, info.ID, roll.GameState.Current().Color, roll.Roll.Movable[0])
//	}
//
// Event Ordering:
//
// The events of a move are published in two batches. move_applied goes out
// right away; capture, bonus_turn, turn_advanced and game_won follow once the
// move animation has had time to play.
package service
