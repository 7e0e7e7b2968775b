// Package mcp exposes the Candy Land game to AI agents over the Model
// Context Protocol.
//
// Client is a thin proxy: every tool call is translated into a request
// against the REST API (package api) and the JSON response is rendered as
// plain text for the agent. Tool failures are returned as MCP tool errors,
// never as protocol errors.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, draw_card, step_turn, reset_game, draw_history
//   - save_game, load_game, list_saves
//   - list_configs, describe_space, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode: one JSON-RPC message per POST
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
