// Package service provides the business logic layer for the Candy Land game.
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the engine. It owns session isolation and serializes every operation on
// a game, so a draw, a single step, a save and a load never interleave.
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
// SaveStore keeps saved games in numbered slots.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	saves := savegame.NewSlotStore("saves")
//	gameService := service.NewGameService(sessionMgr, configMgr, saves)
//
//	info, err := gameService.CreateSession(ctx, "extreme", service.UseConfigPiece)
//	result, err := gameService.DrawCard(ctx, info.ID, false)
//	for _, ev := range result.Events {
//		fmt.Println(ev.Message)
//	}
//
// DrawCard resolves the human draw and all computer turns of the round.
// StepTurn resolves one player turn per call for clients that pace the
// computers themselves.
package service
