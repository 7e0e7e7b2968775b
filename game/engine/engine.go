package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrNotHumanTurn  = errors.New("not the human player's turn")
	ErrInvalidState  = errors.New("invalid game state")
	ErrInvalidPlayer = errors.New("invalid player index")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Snapshot() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	Winner() int
	Phase() Phase

	// Turn sequencing
	StartTurn() error
	Step() bool
	Settle()
	Draw() (*GameState, error)
	CheckWinner() int

	// Presentation accessors
	PositionOf(player int) (int, error)
	DrawnCards(player int) ([]Card, error)
	Flags(player int) (PlayerFlags, error)
	Pieces() [PlayerCount]Point

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// Saved games
	Load(players []SavedPlayer, deck []Card) error

	// History
	GetDrawHistory() []DrawRecord
	GetLastDraw() *DrawRecord
}

// GameEngine implements the Engine interface. It is not safe for
// concurrent use; callers serialize access.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
}

// Option configures a GameEngine.
type Option func(*GameEngine)

// WithRand sets the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(e *GameEngine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed makes shuffles reproducible.
func WithSeed(seed uint64) Option {
	return func(e *GameEngine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{config: config}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.rng == nil {
		engine.rng = newRand()
	}
	engine.state = InitGameStateFromConfig(config, engine.rng)

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	engine, _ := NewEngine(DefaultConfig(), opts...)
	return engine
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Snapshot returns a deep copy of the current state that is safe to read
// while the game continues.
func (e *GameEngine) Snapshot() *GameState {
	return e.state.Clone()
}

// SetState replaces the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Deck == nil {
		state.Deck = NewDeck(e.rng)
	}
	state.Deck.setRand(e.rng)
	e.state = state
	return nil
}

// Reset starts a new game with the same configuration. History is kept.
func (e *GameEngine) Reset() *GameState {
	prevHistory := e.state.History
	prevTotal := e.state.TotalDraws

	e.state = InitGameStateFromConfig(e.config, e.rng)
	e.state.History = prevHistory
	e.state.TotalDraws = prevTotal
	e.state.Message = e.config.Messages.NewGame

	return e.state
}

// IsGameOver returns whether a winner has been recorded
func (e *GameEngine) IsGameOver() bool {
	return e.state.Winner != NoWinner
}

// Winner returns the winning player index, or NoWinner.
func (e *GameEngine) Winner() int {
	return e.state.Winner
}

// Phase returns the turn sequencer state.
func (e *GameEngine) Phase() Phase {
	return e.state.Phase
}

func (e *GameEngine) player(index int) (*Player, error) {
	if index < 0 || index >= PlayerCount {
		return nil, fmt.Errorf("player %d: %w", index, ErrInvalidPlayer)
	}
	return &e.state.Players[index], nil
}

// PositionOf returns the track position of a player.
func (e *GameEngine) PositionOf(player int) (int, error) {
	p, err := e.player(player)
	if err != nil {
		return 0, err
	}
	return p.Position, nil
}

// DrawnCards returns the cards a player drew this round.
func (e *GameEngine) DrawnCards(player int) ([]Card, error) {
	p, err := e.player(player)
	if err != nil {
		return nil, err
	}
	return append([]Card(nil), p.DrawnCards...), nil
}

// PlayerFlags are the per-turn markers a presentation layer highlights.
type PlayerFlags struct {
	SkipNextTurn    bool `json:"skip_next_turn"`
	SkipCurrentTurn bool `json:"skip_current_turn"`
	ShortcutTaken   bool `json:"shortcut_taken"`
}

// Flags returns the skip and shortcut markers of a player.
func (e *GameEngine) Flags(player int) (PlayerFlags, error) {
	p, err := e.player(player)
	if err != nil {
		return PlayerFlags{}, err
	}
	return PlayerFlags{
		SkipNextTurn:    p.SkipNextTurn,
		SkipCurrentTurn: p.SkipCurrentTurn,
		ShortcutTaken:   p.ShortcutTaken,
	}, nil
}

// Pieces returns the current on-board location of every piece.
func (e *GameEngine) Pieces() [PlayerCount]Point {
	var pieces [PlayerCount]Point
	for i, p := range e.state.Players {
		pieces[i] = p.Piece
	}
	return pieces
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and resets the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.state = InitGameStateFromConfig(config, e.rng)
	return nil
}

// SavedPlayer is the per-player part of a saved game.
type SavedPlayer struct {
	TokenIndex   int  `json:"token_index"`
	SkipNextTurn bool `json:"skip_next_turn"`
	Position     int  `json:"position"`
}

// Load replaces the game with a saved one. Play resumes with the human's
// turn at the start of a round. Pieces are laid out once per player in
// index order.
func (e *GameEngine) Load(players []SavedPlayer, deck []Card) error {
	if len(players) != PlayerCount {
		return fmt.Errorf("load: %d players: %w", len(players), ErrInvalidState)
	}
	for i, sp := range players {
		if sp.Position < StartPosition || sp.Position > FinishPosition {
			return fmt.Errorf("load: player %d position %d: %w", i, sp.Position, ErrInvalidState)
		}
		if sp.TokenIndex < 0 || sp.TokenIndex >= PlayerCount {
			return fmt.Errorf("load: player %d token %d: %w", i, sp.TokenIndex, ErrInvalidState)
		}
	}

	state := InitGameStateFromConfig(e.config, e.rng)
	state.History = e.state.History
	state.TotalDraws = e.state.TotalDraws
	state.Deck = NewDeckFromCards(deck, e.rng)
	state.Loaded = true
	state.Message = e.config.Messages.Loaded

	for i, sp := range players {
		state.Players[i].TokenIndex = sp.TokenIndex
		state.Players[i].SkipNextTurn = sp.SkipNextTurn
		state.Players[i].Position = sp.Position
	}
	e.state = state

	for i := range state.Players {
		e.relayout(i)
	}
	if e.checkWinner() {
		state.Phase = PhaseGameOver
	}
	return nil
}

// relayout runs the overlap layout for the piece that just moved.
func (e *GameEngine) relayout(mover int) {
	var positions [PlayerCount]int
	for i, p := range e.state.Players {
		positions[i] = p.Position
	}
	pieces := Layout(positions, mover, e.Pieces())
	for i := range e.state.Players {
		e.state.Players[i].Piece = pieces[i]
	}
}

// GetDrawHistory returns the complete draw history
func (e *GameEngine) GetDrawHistory() []DrawRecord {
	return e.state.History
}

// GetLastDraw returns the last resolved turn, or nil if none
func (e *GameEngine) GetLastDraw() *DrawRecord {
	if len(e.state.History) == 0 {
		return nil
	}
	return &e.state.History[len(e.state.History)-1]
}
