// Package api provides the HTTP REST API for the Candy Land game server.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session {config_id, piece}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Several sessions side by side with standings
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/draw - The human draws; computer turns follow {reset}
//   - POST /api/sessions/{id}/step - Resolve a single player turn
//   - POST /api/sessions/{id}/reset - Start a new game
//   - GET /api/sessions/{id}/history - Draw history (?page&limit&order&player)
//
// Saved games:
//   - POST /api/sessions/{id}/save - Save to a slot {slot}
//   - POST /api/sessions/{id}/load - Load from a slot {slot}
//   - GET /api/saves - Describe slots 1 to 3
//   - DELETE /api/saves/{slot} - Clear a slot
//
// Board and configuration:
//   - GET /api/board, GET /api/board/spaces/{position}
//   - GET /api/configs, POST /api/configs, GET /api/configs/{name}
//
// Every state-changing call is also pushed to WebSocket clients of the
// session (GET /ws?session={id}).
//
// Errors are JSON objects of the form {"error": "message"}. Unknown sessions
// and configs map to 404, bad pieces and slots to 400, a draw or a save
// while the computers are still moving to 409, and save calls without a
// slot store to 503. A failed save write is not an error: the response carries
// "saved": false.
package api
