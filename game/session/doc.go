// Package session provides session storage for the Ludo server.
//
// Core Types:
//
// Manager keeps the live sessions in memory and hands them to the game
// service. Each session owns one engine, the name of the profile it was
// created from and a game ID that changes whenever a new game starts.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs unless the caller picks one. IDs are
// case-insensitive and limited to letters, digits, '-' and '_' so they are
// safe as file names.
//
// Persistence:
//
// A SessionPersistence stores sessions between runs. FilePersistence writes
// one JSON file per session, PostgresPersistence one row per session. Both
// store the game as an engine Record. A record that cannot be restored is
// replaced with a fresh game of the same table size instead of failing the
// load.
//
// Usage:
//
//	store, err := session.NewFilePersistence("sessions", configs, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(store, session.WithLogger(logger))
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err := manager.Create("", "classic", configs.GetDefault(), 4)
//
// Cleanup:
//
// CleanupExpiredSessions drops idle sessions from memory. Stored copies stay
// and are loaded again on the next Get.
package session
