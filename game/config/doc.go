// Package config provides game profile management for the Ludo game.
//
// The config package handles:
//   - Loading game profiles from JSON files
//   - Profile validation
//   - Default profile selection
//   - Profile discovery and listing
//
// Profile Format:
//
// Profiles are stored as JSON files in the configs directory (or CONFIG_DIR).
// Each profile defines:
//   - The auto-skip countdown in seconds
//   - Initial preferences (manual dice, auto-move, auto-roll)
//   - Pacing of roll reveal, forfeit announcement, auto actions and move animation
//
// Available Profiles:
//
//   - classic: standard pacing, every choice made by hand
//   - quick: short delays with auto-move and auto-roll on
//   - relaxed: long skip countdown and slow animation
//   - tabletop: manual dice for play with physical dice
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("quick")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When the directory holds no classic profile, the first valid profile
// becomes the default; an empty directory falls back to a built-in profile.
package config
