// Package websocket pushes live game updates to browser clients.
//
// A single Hub goroutine owns the set of connected clients, grouped by
// session ID. Clients connect with ?session=<id> and only listen: every
// draw, step, reset, save and load on that session is broadcast as a JSON
// Message carrying the event name and, where relevant, the resulting state.
//
// Broadcasts never block the caller. When the hub's queue is full the
// update is dropped and logged, and a client whose own buffer fills up is
// disconnected.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//	hub.BroadcastUpdate(sessionID, websocket.EventDraw, state, nil)
package websocket
