// Package session provides session management for the Candy Land game.
//
// Manager keeps every live game in memory, keyed case-insensitively by a
// short ID. Each session owns its own engine. With WithSeed, a game's deck
// is derived from the manager seed and the session ID, so a seeded server
// replays the same game for the same ID while sessions never share a deck.
//
// Persistence:
//
// With a SessionPersistence attached (FilePersistence writes one JSON file
// per session) games are written on creation and after each game
// operation, and are paged back in by Get after a restart or an eviction.
// The snapshot carries the full game state, including the remaining deck
// in draw order, and the session's configuration.
//
// These snapshots are separate from the numbered save slots in package
// savegame, which hold only what a player chooses to save.
//
// Retention:
//
// Expire treats games by outcome. Finished games are deleted, snapshot
// included, once unused for Retention.Finished. Unfinished games are only
// evicted from memory after Retention.Idle and stay resumable on disk.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", configMgr)
//	manager := session.NewManager(session.WithPersistence(persistence))
//	_, _ = manager.Restore()
//
//	sess, err := manager.Create("", config)
//	sess, err = manager.Get(sess.ID)
//	deleted, evicted := manager.Expire(session.Retention{Finished: time.Hour, Idle: 24 * time.Hour})
package session
