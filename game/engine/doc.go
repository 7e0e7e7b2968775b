// Package engine provides the core rules of the Candy Land game.
//
// The engine package implements the game mechanics including:
//   - The 64-card deck and its self-refilling draw supply
//   - Board topology: space colors, shortcuts, licorice and geometry
//   - Movement resolution for color, double and destination cards
//   - The turn sequencer for one human and three computer players
//   - Overlap layout for pieces sharing a space
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is the aggregate state of a game,
// while GameConfig carries difficulty, piece selection and message
// templates loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// The human draws; the computers take their turns before Draw returns.
//	state, err := gameEngine.Draw()
//
// Game Rules:
//
// Pieces travel a 137-space track from space 0 to the Candy Castle on
// space 136. A color card moves a piece to the next space of that color, a
// double card one full color cycle beyond that, and a destination card
// straight to its named space. Landing on 27 or 49 takes a shortcut;
// landing on licorice (12, 44, 82) costs the next turn. The first player,
// by index, found on the final space wins.
package engine
