package service

import (
	"time"

	"github.com/wricardo/candyland-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// DrawResult contains the outcome of a draw or a single step
type DrawResult struct {
	Success   bool                `json:"success"`
	GameState *engine.GameState   `json:"game_state"`
	Message   string              `json:"message"`
	Turns     []engine.DrawRecord `json:"turns,omitempty"`
	Events    []GameEvent         `json:"events,omitempty"`
	Standings []engine.Standing   `json:"standings,omitempty"`
	Winner    int                 `json:"winner"`
	GameOver  bool                `json:"game_over"`
	// Waiting is true when the next action belongs to the human player.
	Waiting bool `json:"waiting"`
}

// Event types reported in DrawResult.Events
const (
	EventDraw     = "draw"
	EventShortcut = "shortcut"
	EventLicorice = "licorice"
	EventSkip     = "skip"
	EventVictory  = "victory"
	EventReset    = "reset"
	EventLoad     = "load"
	EventSave     = "save"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Player    int       `json:"player"`
	Position  int       `json:"position"`
}

// SaveResult reports whether a game was written to a slot. A failed write
// is not an error.
type SaveResult struct {
	Slot    int    `json:"slot"`
	SaveID  string `json:"save_id"`
	Saved   bool   `json:"saved"`
	Message string `json:"message"`
}

// LoadResult reports whether a slot held a game.
type LoadResult struct {
	Slot      int               `json:"slot"`
	Loaded    bool              `json:"loaded"`
	Message   string            `json:"message"`
	GameState *engine.GameState `json:"game_state"`
}

// HistoryOptions configures draw history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
	// Player restricts the history to one seat when set.
	Player *int `json:"player,omitempty"`
}

// HistoryResponse contains paginated draw history
type HistoryResponse struct {
	Draws       []engine.DrawRecord `json:"draws"`
	TotalDraws  int                 `json:"total_draws"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`
	Description    string `json:"description"`
	Difficulty     string `json:"difficulty"`
	PieceSelection int    `json:"piece_selection"`
}
