package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/candyland-game/game/engine"
	"github.com/wricardo/candyland-game/game/savegame"
)

var (
	ErrInvalidPiece   = errors.New("piece must be between 0 and 3")
	ErrSavesDisabled  = errors.New("saved games are not configured")
	ErrSessionMissing = errors.New("session not found")
	ErrUnknownConfig  = errors.New("config not found")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	saves    SaveStore
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. saves may be nil,
// in which case the save and load operations report ErrSavesDisabled.
func NewGameService(sessions SessionManager, configs ConfigManager, saves SaveStore) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		saves:    saves,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionMissing, err)
	}
	s.sessions.Touch(sessionID)
	return sess, nil
}

// persist auto-saves the session snapshot. Failures are logged only.
func (s *gameServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"session": sessionID,
			"after":   after,
		}).Warn("failed to persist session")
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.Snapshot(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session. piece overrides the
// configuration's piece selection unless it is UseConfigPiece.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, piece int) (*SessionInfo, error) {
	if piece != UseConfigPiece && (piece < 0 || piece >= engine.PlayerCount) {
		return nil, fmt.Errorf("piece %d: %w", piece, ErrInvalidPiece)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrUnknownConfig, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrUnknownConfig, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	if piece != UseConfigPiece && piece != config.PieceSelection {
		custom := *config
		custom.PieceSelection = piece
		config = &custom
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.WithFields(log.Fields{
		"session": sess.ID,
		"config":  configID,
		"piece":   config.PieceSelection,
	}).Info("session created")

	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DrawCard performs the human draw and resolves every computer turn of the
// round. Drawing after the game has been won is not an error: the result
// reports Success=false with the winner.
func (s *gameServiceImpl) DrawCard(ctx context.Context, sessionID string, reset bool) (*DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var events []GameEvent
	if reset {
		sess.Engine.Reset()
		events = append(events, GameEvent{
			Type:      EventReset,
			Message:   "Game reset",
			Timestamp: time.Now(),
			Player:    engine.HumanPlayer,
		})
	}

	before := len(sess.Engine.GetDrawHistory())
	hadWinner := sess.Engine.IsGameOver()

	_, err = sess.Engine.Draw()
	switch {
	case errors.Is(err, engine.ErrGameOver):
		return s.drawResult(sess, before, hadWinner, events, false), nil
	case err != nil:
		return nil, fmt.Errorf("draw: %w", err)
	}

	s.persist(sessionID, "draw")
	return s.drawResult(sess, before, hadWinner, events, true), nil
}

// StepTurn advances the game by one player turn. From the human's turn it
// performs the human draw; after the last computer it hands control back.
func (s *gameServiceImpl) StepTurn(ctx context.Context, sessionID string) (*DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	before := len(sess.Engine.GetDrawHistory())
	hadWinner := sess.Engine.IsGameOver()

	if sess.Engine.Phase() == engine.PhaseAwaitingHuman {
		if err := sess.Engine.StartTurn(); err != nil {
			return nil, fmt.Errorf("step: %w", err)
		}
	}
	if !sess.Engine.Step() {
		return s.drawResult(sess, before, hadWinner, nil, false), nil
	}

	s.persist(sessionID, "step")
	return s.drawResult(sess, before, hadWinner, nil, true), nil
}

func (s *gameServiceImpl) drawResult(sess *Session, before int, hadWinner bool, events []GameEvent, success bool) *DrawResult {
	state := sess.Engine.Snapshot()
	turns := append([]engine.DrawRecord{}, state.History[before:]...)
	events = append(events, turnEvents(turns)...)
	if state.Winner != engine.NoWinner && !hadWinner {
		events = append(events, GameEvent{
			Type:      EventVictory,
			Message:   state.Message,
			Timestamp: time.Now(),
			Player:    state.Winner,
			Position:  state.Players[state.Winner].Position,
		})
	}

	return &DrawResult{
		Success:   success,
		GameState: state,
		Message:   state.Message,
		Turns:     turns,
		Events:    events,
		Standings: engine.Standings(state),
		Winner:    state.Winner,
		GameOver:  state.Winner != engine.NoWinner,
		Waiting:   state.Phase == engine.PhaseAwaitingHuman,
	}
}

// turnEvents describes resolved turns as events.
func turnEvents(turns []engine.DrawRecord) []GameEvent {
	events := []GameEvent{}
	for _, rec := range turns {
		ts := time.Unix(rec.Timestamp, 0)
		name := engine.PlayerName(rec.Player)

		if rec.Skipped {
			events = append(events, GameEvent{
				Type:      EventSkip,
				Message:   fmt.Sprintf("%s skipped a turn on space %d", name, rec.From),
				Timestamp: ts,
				Player:    rec.Player,
				Position:  rec.From,
			})
			continue
		}

		card := "a card"
		if rec.Chosen != nil {
			card = rec.Chosen.Label()
		}
		events = append(events, GameEvent{
			Type:      EventDraw,
			Message:   fmt.Sprintf("%s drew %s: %d -> %d", name, card, rec.From, rec.To),
			Timestamp: ts,
			Player:    rec.Player,
			Position:  rec.To,
		})
		if rec.Shortcut != "" {
			events = append(events, GameEvent{
				Type:      EventShortcut,
				Message:   fmt.Sprintf("%s took %s to space %d", name, rec.Shortcut, rec.To),
				Timestamp: ts,
				Player:    rec.Player,
				Position:  rec.To,
			})
		}
		if rec.Licorice {
			events = append(events, GameEvent{
				Type:      EventLicorice,
				Message:   fmt.Sprintf("%s is stuck in licorice and will lose a turn", name),
				Timestamp: ts,
				Player:    rec.Player,
				Position:  rec.To,
			})
		}
	}
	return events
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.Reset()
	s.persist(sessionID, "reset")
	return sess.Engine.Snapshot(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Snapshot(), nil
}

// GetDrawHistory returns paginated draw history
func (s *gameServiceImpl) GetDrawHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var history []engine.DrawRecord
	for _, rec := range sess.Engine.GetDrawHistory() {
		if opts.Player != nil && rec.Player != *opts.Player {
			continue
		}
		history = append(history, rec)
	}
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	draws := []engine.DrawRecord{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			draws = append(draws, history[i])
		}
	} else if start < total {
		draws = append(draws, history[start:end]...)
	}

	return &HistoryResponse{
		Draws:       draws,
		TotalDraws:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// SaveGame writes the session's game to a slot. Only a game between
// rounds can be saved: while computer turns are pending it returns
// engine.ErrNotHumanTurn. A failed write is logged and reported through
// SaveResult.Saved.
func (s *gameServiceImpl) SaveGame(ctx context.Context, sessionID string, slot int) (*SaveResult, error) {
	if s.saves == nil {
		return nil, ErrSavesDisabled
	}
	if !savegame.ValidSlot(slot) {
		return nil, fmt.Errorf("save slot %d: %w", slot, savegame.ErrInvalidSlot)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	switch phase := sess.Engine.Phase(); phase {
	case engine.PhaseAwaitingHuman, engine.PhaseRoundComplete, engine.PhaseGameOver:
	default:
		return nil, fmt.Errorf("save in phase %s: %w", phase, engine.ErrNotHumanTurn)
	}

	saveID := uuid.NewString()
	logger := log.WithFields(log.Fields{
		"session": sessionID,
		"slot":    slot,
		"save_id": saveID,
	})

	rec := savegame.FromState(sess.Engine.GetState())
	if err := s.saves.Write(slot, rec); err != nil {
		logger.WithError(err).Warn("failed to write saved game")
		return &SaveResult{
			Slot:    slot,
			SaveID:  saveID,
			Saved:   false,
			Message: fmt.Sprintf("Could not save to slot %d", slot),
		}, nil
	}

	logger.Info("game saved")
	return &SaveResult{
		Slot:    slot,
		SaveID:  saveID,
		Saved:   true,
		Message: fmt.Sprintf("Game saved to slot %d", slot),
	}, nil
}

// LoadGame replaces the session's game with the one in a slot. An empty
// or unreadable slot leaves the game untouched and reports Loaded=false.
func (s *gameServiceImpl) LoadGame(ctx context.Context, sessionID string, slot int) (*LoadResult, error) {
	if s.saves == nil {
		return nil, ErrSavesDisabled
	}
	if !savegame.ValidSlot(slot) {
		return nil, fmt.Errorf("load slot %d: %w", slot, savegame.ErrInvalidSlot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	rec, ok := s.saves.Read(slot)
	if !ok {
		return &LoadResult{
			Slot:      slot,
			Loaded:    false,
			Message:   fmt.Sprintf("No saved game in slot %d", slot),
			GameState: sess.Engine.Snapshot(),
		}, nil
	}

	if err := rec.Restore(sess.Engine); err != nil {
		log.WithError(err).WithFields(log.Fields{"session": sessionID, "slot": slot}).Warn("saved game rejected")
		return &LoadResult{
			Slot:      slot,
			Loaded:    false,
			Message:   fmt.Sprintf("Slot %d does not hold a valid game", slot),
			GameState: sess.Engine.Snapshot(),
		}, nil
	}

	s.persist(sessionID, "load")
	state := sess.Engine.Snapshot()
	return &LoadResult{
		Slot:      slot,
		Loaded:    true,
		Message:   state.Message,
		GameState: state,
	}, nil
}

// ListSaves describes every save slot
func (s *gameServiceImpl) ListSaves(ctx context.Context) ([]savegame.SlotInfo, error) {
	if s.saves == nil {
		return nil, ErrSavesDisabled
	}
	return s.saves.List(), nil
}

// DeleteSave empties a save slot
func (s *gameServiceImpl) DeleteSave(ctx context.Context, slot int) error {
	if s.saves == nil {
		return ErrSavesDisabled
	}
	return s.saves.Delete(slot)
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
