// Package config provides configuration management for the Candy Land game.
//
// Game configurations are JSON files in the configs directory. Each one
// names a difficulty (normal or extreme), the human player's default piece
// and the message templates used for turn announcements:
//
//	{
//	  "name": "classic",
//	  "description": "...",
//	  "difficulty": "normal",
//	  "piece_selection": 0,
//	  "messages": {"welcome": "...", "moved": "%s drew %s and moved to space %d", ...}
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	gameConfig, err := manager.LoadConfig("extreme")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default is classic.json when present, otherwise the first valid file,
// otherwise the built-in classic configuration.
package config
