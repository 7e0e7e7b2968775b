package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/candyland-game/game/config"
	"github.com/wricardo/candyland-game/game/engine"
	"github.com/wricardo/candyland-game/game/savegame"
	"github.com/wricardo/candyland-game/game/service"
	"github.com/wricardo/candyland-game/game/session"
	"github.com/wricardo/candyland-game/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	CreateSessionFunc func(ctx context.Context, configName string, piece int) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	DrawCardFunc func(ctx context.Context, sessionID string, reset bool) (*service.DrawResult, error)
	StepTurnFunc func(ctx context.Context, sessionID string) (*service.DrawResult, error)
	ResetFunc    func(ctx context.Context, sessionID string) (*engine.GameState, error)

	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetDrawHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	SaveGameFunc   func(ctx context.Context, sessionID string, slot int) (*service.SaveResult, error)
	LoadGameFunc   func(ctx context.Context, sessionID string, slot int) (*service.LoadResult, error)
	ListSavesFunc  func(ctx context.Context) ([]savegame.SlotInfo, error)
	DeleteSaveFunc func(ctx context.Context, slot int) error

	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

func (m *MockGameService) CreateSession(ctx context.Context, configName string, piece int) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName, piece)
	}
	return &service.SessionInfo{ID: "test-session", ConfigName: configName, CreatedAt: time.Now()}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, ConfigName: "classic", CreatedAt: time.Now()}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) DrawCard(ctx context.Context, sessionID string, reset bool) (*service.DrawResult, error) {
	if m.DrawCardFunc != nil {
		return m.DrawCardFunc(ctx, sessionID, reset)
	}
	return &service.DrawResult{Success: true, GameState: &engine.GameState{}, Winner: engine.NoWinner}, nil
}

func (m *MockGameService) StepTurn(ctx context.Context, sessionID string) (*service.DrawResult, error) {
	if m.StepTurnFunc != nil {
		return m.StepTurnFunc(ctx, sessionID)
	}
	return &service.DrawResult{Success: true, GameState: &engine.GameState{}, Winner: engine.NoWinner}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetDrawHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetDrawHistoryFunc != nil {
		return m.GetDrawHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Draws:      []engine.DrawRecord{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) SaveGame(ctx context.Context, sessionID string, slot int) (*service.SaveResult, error) {
	if m.SaveGameFunc != nil {
		return m.SaveGameFunc(ctx, sessionID, slot)
	}
	return &service.SaveResult{Slot: slot, Saved: true}, nil
}

func (m *MockGameService) LoadGame(ctx context.Context, sessionID string, slot int) (*service.LoadResult, error) {
	if m.LoadGameFunc != nil {
		return m.LoadGameFunc(ctx, sessionID, slot)
	}
	return &service.LoadResult{Slot: slot, Loaded: true, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) ListSaves(ctx context.Context) ([]savegame.SlotInfo, error) {
	if m.ListSavesFunc != nil {
		return m.ListSavesFunc(ctx)
	}
	return []savegame.SlotInfo{{Slot: 1}, {Slot: 2}, {Slot: 3}}, nil
}

func (m *MockGameService) DeleteSave(ctx context.Context, slot int) error {
	if m.DeleteSaveFunc != nil {
		return m.DeleteSaveFunc(ctx, slot)
	}
	return nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	cfg := engine.DefaultConfig()
	cfg.Name = configName
	return cfg, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	t.Helper()
	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(server *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	parseResponse(t, w, &resp)
	return resp["error"]
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		expectConfig   string
		expectPiece    int
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "default config and piece",
			requestBody:    nil,
			expectConfig:   "",
			expectPiece:    service.UseConfigPiece,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "config_id with piece",
			requestBody:    map[string]interface{}{"config_id": "extreme", "piece": 2},
			expectConfig:   "extreme",
			expectPiece:    2,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "deprecated config_name",
			requestBody:    map[string]interface{}{"config_name": "classic"},
			expectConfig:   "classic",
			expectPiece:    service.UseConfigPiece,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid piece",
			requestBody:    map[string]interface{}{"piece": 7},
			expectPiece:    7,
			serviceErr:     fmt.Errorf("piece 7: %w", service.ErrInvalidPiece),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown config",
			requestBody:    map[string]interface{}{"config_id": "nope"},
			expectConfig:   "nope",
			expectPiece:    service.UseConfigPiece,
			serviceErr:     fmt.Errorf("%w: 'nope'", service.ErrUnknownConfig),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unexpected failure",
			expectPiece:    service.UseConfigPiece,
			serviceErr:     fmt.Errorf("service error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockGameService{
				CreateSessionFunc: func(ctx context.Context, configName string, piece int) (*service.SessionInfo, error) {
					assert.Equal(t, tt.expectConfig, configName)
					assert.Equal(t, tt.expectPiece, piece)
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &service.SessionInfo{ID: "ab12", ConfigName: configName}, nil
				},
			}
			server := setupTestServer(t, mock)

			w := serve(server, makeRequest("POST", "/api/sessions", tt.requestBody))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.serviceErr != nil {
				assert.Equal(t, tt.serviceErr.Error(), errorMessage(t, w))
				return
			}
			var resp service.SessionInfo
			parseResponse(t, w, &resp)
			assert.Equal(t, "ab12", resp.ID)
		})
	}
}

func TestCreateSessionRejectsBadBody(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})
	req := httptest.NewRequest("POST", "/api/sessions", bytes.NewBufferString("{not json"))

	w := serve(server, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mock := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now},
				{ID: "mid", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-time.Hour)},
				{ID: "new", CreatedAt: now, LastAccessedAt: now.Add(-2 * time.Hour)},
			}, nil
		},
	}
	server := setupTestServer(t, mock)

	tests := []struct {
		query    string
		expected []string
	}{
		{"", []string{"old", "mid", "new"}},
		{"?sort=created", []string{"new", "mid", "old"}},
		{"?sort=created&order=asc", []string{"old", "mid", "new"}},
		{"?sort=created&limit=1", []string{"new"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := serve(server, makeRequest("GET", "/api/sessions"+tt.query, nil))
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			assert.Equal(t, len(tt.expected), resp.Count)
			assert.Equal(t, 3, resp.Total)
			var ids []string
			for _, s := range resp.Sessions {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestGetSession(t *testing.T) {
	mock := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "ab12" {
				return nil, fmt.Errorf("%w: %s", service.ErrSessionMissing, sessionID)
			}
			return &service.SessionInfo{ID: sessionID}, nil
		},
	}
	server := setupTestServer(t, mock)

	w := serve(server, makeRequest("GET", "/api/sessions/ab12", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(server, makeRequest("GET", "/api/sessions/zz99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, errorMessage(t, w), "session not found")
}

func TestDeleteSession(t *testing.T) {
	deleted := ""
	mock := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID == "gone" {
				return fmt.Errorf("session not found")
			}
			deleted = sessionID
			return nil
		},
	}
	server := setupTestServer(t, mock)

	w := serve(server, makeRequest("DELETE", "/api/sessions/ab12", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ab12", deleted)

	w = serve(server, makeRequest("DELETE", "/api/sessions/gone", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Game Operation Tests

func TestGetGameState(t *testing.T) {
	mock := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			state := &engine.GameState{Round: 4, Winner: engine.NoWinner}
			state.Players[1].Position = 33
			return state, nil
		},
	}
	server := setupTestServer(t, mock)

	w := serve(server, makeRequest("GET", "/api/sessions/ab12/state", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var state engine.GameState
	parseResponse(t, w, &state)
	assert.Equal(t, 4, state.Round)
	assert.Equal(t, 33, state.Players[1].Position)
}

func TestDraw(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectReset    bool
		serviceErr     error
		expectedStatus int
	}{
		{name: "no body", expectedStatus: http.StatusOK},
		{name: "reset first", body: map[string]bool{"reset": true}, expectReset: true, expectedStatus: http.StatusOK},
		{
			name:           "computers still moving",
			serviceErr:     fmt.Errorf("draw: %w", engine.ErrNotHumanTurn),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown session",
			serviceErr:     fmt.Errorf("%w: x", service.ErrSessionMissing),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockGameService{
				DrawCardFunc: func(ctx context.Context, sessionID string, reset bool) (*service.DrawResult, error) {
					assert.Equal(t, "ab12", sessionID)
					assert.Equal(t, tt.expectReset, reset)
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					chosen := engine.Single(engine.Red)
					return &service.DrawResult{
						Success:   true,
						GameState: &engine.GameState{Round: 1, Winner: engine.NoWinner},
						Turns:     []engine.DrawRecord{{Player: 0, Chosen: &chosen, From: 0, To: 6}},
						Winner:    engine.NoWinner,
						Waiting:   true,
					}, nil
				},
			}
			server := setupTestServer(t, mock)

			w := serve(server, makeRequest("POST", "/api/sessions/ab12/draw", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.serviceErr == nil {
				var resp service.DrawResult
				parseResponse(t, w, &resp)
				assert.True(t, resp.Success)
				assert.True(t, resp.Waiting)
				require.Len(t, resp.Turns, 1)
				assert.Equal(t, 6, resp.Turns[0].To)
			}
		})
	}
}

func TestStep(t *testing.T) {
	calls := 0
	mock := &MockGameService{
		StepTurnFunc: func(ctx context.Context, sessionID string) (*service.DrawResult, error) {
			calls++
			return &service.DrawResult{
				Success:   true,
				GameState: &engine.GameState{Phase: engine.PhaseResolvingComputer, Winner: engine.NoWinner},
				Winner:    engine.NoWinner,
			}, nil
		},
	}
	server := setupTestServer(t, mock)

	w := serve(server, makeRequest("POST", "/api/sessions/ab12/step", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
	var resp service.DrawResult
	parseResponse(t, w, &resp)
	assert.Equal(t, engine.PhaseResolvingComputer, resp.GameState.Phase)
}

func TestReset(t *testing.T) {
	mock := &MockGameService{
		ResetFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			if sessionID == "missing" {
				return nil, service.ErrSessionMissing
			}
			return &engine.GameState{Phase: engine.PhaseAwaitingHuman, Winner: engine.NoWinner}, nil
		},
	}
	server := setupTestServer(t, mock)

	w := serve(server, makeRequest("POST", "/api/sessions/ab12/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	parseResponse(t, w, &resp)
	assert.Equal(t, "Game reset successfully", resp.Message)
	assert.Equal(t, engine.PhaseAwaitingHuman, resp.State.Phase)

	w = serve(server, makeRequest("POST", "/api/sessions/missing/reset", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHistory(t *testing.T) {
	var got service.HistoryOptions
	mock := &MockGameService{
		GetDrawHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
			got = opts
			return &service.HistoryResponse{Draws: []engine.DrawRecord{}, Page: opts.Page, PageSize: opts.Limit}, nil
		},
	}
	server := setupTestServer(t, mock)

	t.Run("defaults", func(t *testing.T) {
		w := serve(server, makeRequest("GET", "/api/sessions/ab12/history", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, got.Page)
		assert.Equal(t, 20, got.Limit)
		assert.Equal(t, "desc", got.Order)
		assert.Nil(t, got.Player)
	})

	t.Run("explicit", func(t *testing.T) {
		w := serve(server, makeRequest("GET", "/api/sessions/ab12/history?page=2&limit=5&order=asc&player=3", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, got.Page)
		assert.Equal(t, 5, got.Limit)
		assert.Equal(t, "asc", got.Order)
		require.NotNil(t, got.Player)
		assert.Equal(t, 3, *got.Player)
	})

	t.Run("bad values fall back", func(t *testing.T) {
		w := serve(server, makeRequest("GET", "/api/sessions/ab12/history?page=-1&limit=x&order=sideways", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, got.Page)
		assert.Equal(t, 20, got.Limit)
		assert.Equal(t, "desc", got.Order)
	})

	t.Run("bad player", func(t *testing.T) {
		w := serve(server, makeRequest("GET", "/api/sessions/ab12/history?player=4", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// Saved Game Tests

func TestSaveGame(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		serviceErr     error
		saved          bool
		expectedStatus int
	}{
		{name: "saved", body: map[string]int{"slot": 2}, saved: true, expectedStatus: http.StatusOK},
		{name: "write failed", body: map[string]int{"slot": 2}, saved: false, expectedStatus: http.StatusOK},
		{
			name:           "bad slot",
			body:           map[string]int{"slot": 9},
			serviceErr:     fmt.Errorf("save slot 9: %w", savegame.ErrInvalidSlot),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "saves disabled",
			body:           map[string]int{"slot": 1},
			serviceErr:     service.ErrSavesDisabled,
			expectedStatus: http.StatusServiceUnavailable,
		},
		{name: "missing body", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockGameService{
				SaveGameFunc: func(ctx context.Context, sessionID string, slot int) (*service.SaveResult, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &service.SaveResult{Slot: slot, Saved: tt.saved}, nil
				},
			}
			server := setupTestServer(t, mock)

			w := serve(server, makeRequest("POST", "/api/sessions/ab12/save", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if w.Code == http.StatusOK {
				var resp service.SaveResult
				parseResponse(t, w, &resp)
				assert.Equal(t, 2, resp.Slot)
				assert.Equal(t, tt.saved, resp.Saved)
			}
		})
	}
}

func TestLoadGame(t *testing.T) {
	mock := &MockGameService{
		LoadGameFunc: func(ctx context.Context, sessionID string, slot int) (*service.LoadResult, error) {
			return &service.LoadResult{Slot: slot, Loaded: slot == 1, GameState: &engine.GameState{Winner: engine.NoWinner}}, nil
		},
	}
	server := setupTestServer(t, mock)

	for slot, loaded := range map[int]bool{1: true, 3: false} {
		w := serve(server, makeRequest("POST", "/api/sessions/ab12/load", map[string]int{"slot": slot}))
		require.Equal(t, http.StatusOK, w.Code)
		var resp service.LoadResult
		parseResponse(t, w, &resp)
		assert.Equal(t, loaded, resp.Loaded, "slot %d", slot)
	}
}

func TestSaves(t *testing.T) {
	var deleted int
	mock := &MockGameService{
		DeleteSaveFunc: func(ctx context.Context, slot int) error {
			if !savegame.ValidSlot(slot) {
				return fmt.Errorf("delete slot %d: %w", slot, savegame.ErrInvalidSlot)
			}
			deleted = slot
			return nil
		},
	}
	server := setupTestServer(t, mock)

	w := serve(server, makeRequest("GET", "/api/saves", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var slots []savegame.SlotInfo
	parseResponse(t, w, &slots)
	assert.Len(t, slots, 3)

	w = serve(server, makeRequest("DELETE", "/api/saves/3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, deleted)

	w = serve(server, makeRequest("DELETE", "/api/saves/0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(server, makeRequest("DELETE", "/api/saves/first", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Board Tests

func TestBoard(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := serve(server, makeRequest("GET", "/api/board", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var board struct {
		FinishPosition int            `json:"finish_position"`
		Spaces         []engine.Space `json:"spaces"`
	}
	parseResponse(t, w, &board)
	assert.Equal(t, engine.FinishPosition, board.FinishPosition)
	assert.Len(t, board.Spaces, engine.TrackLength)
}

func TestBoardSpace(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := serve(server, makeRequest("GET", "/api/board/spaces/27", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var space engine.Space
	parseResponse(t, w, &space)
	assert.Equal(t, engine.SpaceShortcut, space.Kind)
	assert.Equal(t, 56, space.ShortcutTo)

	w = serve(server, makeRequest("GET", "/api/board/spaces/137", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(server, makeRequest("GET", "/api/board/spaces/castle", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Configuration Tests

func TestListConfigs(t *testing.T) {
	mock := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{
				{ConfigID: "classic", Difficulty: "normal"},
				{ConfigID: "extreme", Difficulty: "extreme"},
			}, nil
		},
	}
	server := setupTestServer(t, mock)

	w := serve(server, makeRequest("GET", "/api/configs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var configs []service.ConfigInfo
	parseResponse(t, w, &configs)
	require.Len(t, configs, 2)
	assert.Equal(t, "extreme", configs[1].Difficulty)
}

func TestGetConfig(t *testing.T) {
	mock := &MockGameService{
		LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
			if configName != "classic" {
				return nil, fmt.Errorf("configuration not found")
			}
			return engine.DefaultConfig(), nil
		},
	}
	server := setupTestServer(t, mock)

	w := serve(server, makeRequest("GET", "/api/configs/classic.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var cfg engine.GameConfig
	parseResponse(t, w, &cfg)
	assert.Equal(t, engine.Normal, cfg.Difficulty)

	w = serve(server, makeRequest("GET", "/api/configs/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateConfig(t *testing.T) {
	var saved *engine.GameConfig
	mock := &MockGameService{
		SaveConfigFunc: func(ctx context.Context, configName string, config *engine.GameConfig) error {
			saved = config
			return nil
		},
	}
	server := setupTestServer(t, mock)

	cfg := engine.DefaultConfig()
	cfg.Name = "party"
	cfg.Difficulty = engine.Extreme
	w := serve(server, makeRequest("POST", "/api/configs", cfg))
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, saved)
	assert.Equal(t, engine.Extreme, saved.Difficulty)

	saved = nil
	cfg.Difficulty = "nightmare"
	w = serve(server, makeRequest("POST", "/api/configs", cfg))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, saved)

	w = serve(server, makeRequest("POST", "/api/configs", map[string]string{"description": "no name"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Config name is required", errorMessage(t, w))
}

// Misc

func TestUnifiedSessions(t *testing.T) {
	finished := &engine.GameState{Winner: 2}
	finished.Players[2].Position = engine.FinishPosition
	mock := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "a1", ConfigName: "classic", GameState: &engine.GameState{Winner: engine.NoWinner}},
				{ID: "b2", ConfigName: "extreme", GameState: finished},
			}, nil
		},
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID == "b2" {
				return &service.SessionInfo{ID: "b2", GameState: finished}, nil
			}
			return nil, service.ErrSessionMissing
		},
	}
	server := setupTestServer(t, mock)

	type unified struct {
		Count    int                      `json:"count"`
		Finished int                      `json:"finished"`
		Sessions []map[string]interface{} `json:"sessions"`
	}

	var resp unified
	w := serve(server, makeRequest("GET", "/api/sessions/unified", nil))
	require.Equal(t, http.StatusOK, w.Code)
	parseResponse(t, w, &resp)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 1, resp.Finished)

	resp = unified{}
	w = serve(server, makeRequest("GET", "/api/sessions/unified?configName=classic", nil))
	parseResponse(t, w, &resp)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "a1", resp.Sessions[0]["session_id"])

	resp = unified{}
	w = serve(server, makeRequest("GET", "/api/sessions/unified?sessionIds=b2,zz", nil))
	parseResponse(t, w, &resp)
	require.Equal(t, 1, resp.Count)
	standings := resp.Sessions[0]["standings"].([]interface{})
	assert.Equal(t, float64(2), standings[0].(map[string]interface{})["player"])
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := serve(server, makeRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	parseResponse(t, w, &resp)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, float64(0), resp["websocket_clients"])
}

func TestWebSocketRequiresSession(t *testing.T) {
	mock := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, service.ErrSessionMissing
		},
	}
	server := setupTestServer(t, mock)

	w := serve(server, makeRequest("GET", "/ws", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(server, makeRequest("GET", "/ws?session=zz99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// End-to-end through the real service, session manager and slot store.
func TestServerWithRealService(t *testing.T) {
	configs, err := config.NewManager("../configs")
	require.NoError(t, err)
	sessions := session.NewManager(session.WithEngineOptions(engine.WithSeed(42)))
	svc := service.NewGameService(sessions, configs, savegame.NewSlotStore(t.TempDir()))
	server := NewServer(svc, nil)

	w := serve(server, makeRequest("POST", "/api/sessions", map[string]interface{}{"config_id": "extreme", "piece": 1}))
	require.Equal(t, http.StatusCreated, w.Code)
	var info service.SessionInfo
	parseResponse(t, w, &info)
	require.NotEmpty(t, info.ID)
	assert.Equal(t, engine.Extreme, info.GameConfig.Difficulty)
	assert.Equal(t, 1, info.GameState.Players[0].TokenIndex)
	base := "/api/sessions/" + info.ID

	// One step resolves only the human; a draw now is out of turn.
	w = serve(server, makeRequest("POST", base+"/step", nil))
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(server, makeRequest("POST", base+"/draw", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	// A draw with reset starts over and plays a full round.
	w = serve(server, makeRequest("POST", base+"/draw", map[string]bool{"reset": true}))
	require.Equal(t, http.StatusOK, w.Code)
	var draw service.DrawResult
	parseResponse(t, w, &draw)
	assert.True(t, draw.Success)
	assert.Len(t, draw.Turns, engine.PlayerCount)
	assert.True(t, draw.Waiting)
	for _, turn := range draw.Turns[1:] {
		assert.Len(t, turn.Cards, 2, "extreme computers draw two cards")
	}

	w = serve(server, makeRequest("GET", base+"/history?order=asc&player=0", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var history service.HistoryResponse
	parseResponse(t, w, &history)
	assert.NotEmpty(t, history.Draws)
	for _, rec := range history.Draws {
		assert.Equal(t, 0, rec.Player)
	}

	w = serve(server, makeRequest("POST", base+"/save", map[string]int{"slot": 1}))
	require.Equal(t, http.StatusOK, w.Code)
	var saved service.SaveResult
	parseResponse(t, w, &saved)
	assert.True(t, saved.Saved)

	w = serve(server, makeRequest("GET", "/api/saves", nil))
	var slots []savegame.SlotInfo
	parseResponse(t, w, &slots)
	require.Len(t, slots, savegame.MaxSlot)
	assert.True(t, slots[0].Occupied)
	assert.False(t, slots[1].Occupied)

	w = serve(server, makeRequest("POST", base+"/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(server, makeRequest("POST", base+"/load", map[string]int{"slot": 1}))
	require.Equal(t, http.StatusOK, w.Code)
	var loaded service.LoadResult
	parseResponse(t, w, &loaded)
	require.True(t, loaded.Loaded)
	for i := range loaded.GameState.Players {
		assert.Equal(t, draw.GameState.Players[i].Position, loaded.GameState.Players[i].Position)
	}

	w = serve(server, makeRequest("POST", base+"/load", map[string]int{"slot": 2}))
	require.Equal(t, http.StatusOK, w.Code)
	parseResponse(t, w, &loaded)
	assert.False(t, loaded.Loaded)

	w = serve(server, makeRequest("GET", "/api/sessions/nope1/state", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
