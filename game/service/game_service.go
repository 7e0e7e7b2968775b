package service

import (
	"context"
	"time"

	"github.com/wricardo/candyland-game/game/engine"
	"github.com/wricardo/candyland-game/game/savegame"
)

// UseConfigPiece asks CreateSession to keep the configuration's piece.
const UseConfigPiece = -1

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, piece int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	DrawCard(ctx context.Context, sessionID string, reset bool) (*DrawResult, error)
	StepTurn(ctx context.Context, sessionID string) (*DrawResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetDrawHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Saved games
	SaveGame(ctx context.Context, sessionID string, slot int) (*SaveResult, error)
	LoadGame(ctx context.Context, sessionID string, slot int) (*LoadResult, error)
	ListSaves(ctx context.Context) ([]savegame.SlotInfo, error)
	DeleteSave(ctx context.Context, slot int) error

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	// Touch marks a session as used; Save writes it out after a change.
	Touch(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// SaveStore holds saved games in numbered slots.
type SaveStore interface {
	Write(slot int, rec *savegame.Record) error
	Read(slot int) (*savegame.Record, bool)
	Delete(slot int) error
	List() []savegame.SlotInfo
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
