package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/candyland-game/game/engine"
	"github.com/wricardo/candyland-game/game/savegame"
	"github.com/wricardo/candyland-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Candy Land",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Candy Land - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Be the first of four players to reach the Candy Castle on space 136. You are
player 0 ("You"); three computer players take their turns after each of your
draws.

AVAILABLE TOOLS:
- create_session: Start a new game (optional config_id and piece)
- game_state: Positions, phase and the last message
- draw_card: Draw your card; the computers then play out the round
- step_turn: Resolve one player's turn at a time
- reset_game: Start over in the same session
- draw_history: Every resolved turn
- save_game / load_game / list_saves: Save slots 1 to 3
- describe_space: What is on a board space (color, shortcut, licorice)
- list_sessions, get_session, list_configs, game_instructions`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func slotProperty(action string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     savegame.MinSlot,
		"maximum":     savegame.MaxSlot,
		"description": fmt.Sprintf("Save slot to %s (1-3)", action),
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config and piece selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, e.g. classic or extreme (optional)",
				},
				"piece": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"maximum":     engine.PlayerCount - 1,
					"description": "Token for the human player: 0 Cookie, 1 Sucker, 2 Candy Cane, 3 Pink Candy (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "draw_card",
		Description: "Draw a card for the human player. The three computer players then take their turns and the round result is returned.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Start a new game before drawing",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleDrawCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step_turn",
		Description: "Resolve a single player's turn. From the human's turn this draws the human's card; call again to play each computer in order.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleStepTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "draw_history",
		Description: "Get the resolved turns of a session, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"player": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"maximum":     engine.PlayerCount - 1,
					"description": "Only show this player's turns (0 is you)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleDrawHistory)

	// Saved games
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_game",
		Description: "Save the game to a slot, overwriting what is there",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"slot":       slotProperty("write"),
			},
			Required: []string{"session_id", "slot"},
		},
	}, c.handleSaveGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "load_game",
		Description: "Load a saved game from a slot into the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"slot":       slotProperty("read"),
			},
			Required: []string{"session_id", "slot"},
		},
	}, c.handleLoadGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_saves",
		Description: "Show which save slots hold a game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSaves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_space",
		Description: "Describe a board space: its color, and whether it is a shortcut entrance, licorice, a destination card target, the start or the Candy Castle.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"position": map[string]interface{}{
					"type":        "integer",
					"minimum":     engine.StartPosition,
					"maximum":     engine.FinishPosition,
					"description": "Track position (0 is the start, 136 the Candy Castle)",
				},
			},
			Required: []string{"position"},
		},
	}, c.handleDescribeSpace)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]interface{}{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body["config_id"] = configID
	}
	if piece, ok := intArg(args, "piece"); ok {
		body["piece"] = piece
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.GameState != nil && s.GameState.Winner != engine.NoWinner {
			status = engine.PlayerName(s.GameState.Winner) + " won"
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s, %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleDrawCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	body := map[string]interface{}{
		"reset": request.GetBool("reset", false),
	}

	var result service.DrawResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/draw"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatDrawResult(&result)), nil
}

func (c *Client) handleStepTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var result service.DrawResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/step"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatDrawResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDrawHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := request.GetString("session_id", "")

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if player, ok := intArg(args, "player"); ok {
		params.Set("player", fmt.Sprint(player))
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleSaveGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	slot, ok := intArg(request.GetArguments(), "slot")
	if !ok {
		return mcp.NewToolResultError("slot is required"), nil
	}

	var result service.SaveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/save"), map[string]int{"slot": slot}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Saved {
		return mcp.NewToolResultText(fmt.Sprintf("✗ %s. The game is still in progress.", result.Message)), nil
	}
	return mcp.NewToolResultText("✓ " + result.Message), nil
}

func (c *Client) handleLoadGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	slot, ok := intArg(request.GetArguments(), "slot")
	if !ok {
		return mcp.NewToolResultError("slot is required"), nil
	}

	var result service.LoadResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/load"), map[string]int{"slot": slot}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Loaded {
		return mcp.NewToolResultText(fmt.Sprintf("✗ %s", result.Message)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("✓ %s\n\n%s", result.Message, formatGameState(result.GameState))), nil
}

func (c *Client) handleListSaves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var slots []savegame.SlotInfo
	if err := c.apiCall(ctx, "GET", "/api/saves", nil, &slots); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSlots(slots)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		token := ""
		if config.PieceSelection >= 0 && config.PieceSelection < len(engine.TokenNames) {
			token = engine.TokenNames[config.PieceSelection]
		}
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Difficulty: %s, Your piece: %s\n\n",
			config.Name, config.ConfigID, config.Description, config.Difficulty, token)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleDescribeSpace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	position, ok := intArg(request.GetArguments(), "position")
	if !ok {
		return mcp.NewToolResultError("position is required"), nil
	}

	var space engine.Space
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/board/spaces/%d", position), nil, &space); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSpace(space)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🍭 Candy Land - Complete Instructions

GAME OBJECTIVE:
Reach the Candy Castle (space 136) before the three computer players.

THE BOARD:
• Spaces 1 to 135 repeat the colors purple, yellow, blue, green, orange, red
• Space 0 is the start, space 136 the Candy Castle
• Rainbow Trail: landing exactly on 27 takes you to 56
• Gumdrop Pass: landing exactly on 49 takes you to 74
• Licorice on spaces 12, 44 and 82: landing there costs your next turn

THE CARDS (64 in the deck):
• Single color (48): move forward to the next space of that color
• Double color (12): move to the second space of that color
• Drawing the color you stand on moves you a full lap of six spaces
• Peppermint Forest (20), Gumdrop Mountains (36), Peanut Acres (72),
  Lollipop Woods (99): jump straight to that space, even backwards
• Any move that would pass 136 stops on the Candy Castle
• When the deck runs out it is rebuilt and reshuffled

TURN ORDER:
1. You draw (draw_card, or step_turn to go one player at a time)
2. Computer 1, Computer 2 and Computer 3 draw in order
3. The round ends and it is your turn again
A player who lost a turn to licorice is skipped once, then plays normally.

DIFFICULTY:
• classic: every computer draws one card
• extreme: each computer draws two cards and keeps the better one

WINNING:
The first player to reach space 136 wins. If several players are on the
Candy Castle at once, the lowest player number wins.

SAVED GAMES:
Three slots (1-3). save_game overwrites a slot, load_game replaces the game
in your session, list_saves shows what each slot holds.

TIPS:
• Use describe_space to see what lies ahead of a piece
• draw_history with player=0 shows only your draws

Good luck on the way to the Candy Castle!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast Accessed: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.LastAccessedAt.Format("2006-01-02 15:04:05"))
	if session.GameConfig != nil {
		result += fmt.Sprintf("Difficulty: %s\n", session.GameConfig.Difficulty)
	}
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return result
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state"
	}

	var b strings.Builder
	b.WriteString("=== GAME STATE ===\n")
	fmt.Fprintf(&b, "Round: %d  Phase: %s", state.Round, state.Phase)
	if state.Difficulty != "" {
		fmt.Fprintf(&b, "  Difficulty: %s", state.Difficulty)
	}
	if state.Deck != nil {
		fmt.Fprintf(&b, "  Cards left: %d", state.Deck.Len())
	}
	b.WriteString("\n\n")

	b.WriteString("PLAYERS:\n")
	for i, p := range state.Players {
		fmt.Fprintf(&b, "  %-11s %-12s space %3d (%s)", engine.PlayerName(i), tokenName(p.TokenIndex), p.Position, spaceLabel(p.Position))
		if p.SkipNextTurn {
			b.WriteString("  [loses next turn]")
		}
		if p.SkipCurrentTurn {
			b.WriteString("  [skipped]")
		}
		b.WriteString("\n")
	}

	if state.Winner != engine.NoWinner {
		fmt.Fprintf(&b, "\n🏰 %s reached the Candy Castle!\n", engine.PlayerName(state.Winner))
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", state.Message)
	}
	return b.String()
}

func tokenName(index int) string {
	if index >= 0 && index < len(engine.TokenNames) {
		return engine.TokenNames[index]
	}
	return "?"
}

func spaceLabel(position int) string {
	space, err := engine.DescribeSpace(position)
	if err != nil {
		return "off board"
	}
	switch space.Kind {
	case engine.SpaceStart:
		return "start"
	case engine.SpaceFinish:
		return space.Name
	case engine.SpacePlain:
		return space.Color.String()
	}
	return fmt.Sprintf("%s, %s", space.Color, space.Name)
}

func formatDrawResult(result *service.DrawResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ ")
	} else {
		b.WriteString("✗ ")
	}
	b.WriteString(result.Message)
	b.WriteString("\n")

	if len(result.Events) > 0 {
		b.WriteString("\nTURNS:\n")
		for _, ev := range result.Events {
			fmt.Fprintf(&b, "  [%s] %s\n", ev.Type, ev.Message)
		}
	}

	if len(result.Standings) > 0 {
		b.WriteString("\nSTANDINGS:\n")
		for i, st := range result.Standings {
			fmt.Fprintf(&b, "  %d. %-11s space %3d, %d to go\n", i+1, st.Name, st.Position, st.Remaining)
		}
	}

	switch {
	case result.GameOver:
		fmt.Fprintf(&b, "\n🏰 GAME OVER: %s won. Use reset_game or draw_card with reset=true to play again.\n",
			engine.PlayerName(result.Winner))
	case result.Waiting:
		b.WriteString("\nYour turn: call draw_card.\n")
	default:
		b.WriteString("\nComputers are still playing: call step_turn.\n")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Draw History (Page %d/%d, Total: %d draws):\n\n",
		history.Page, history.TotalPages, history.TotalDraws)

	for _, rec := range history.Draws {
		fmt.Fprintf(&b, "#%d round %d %s: ", rec.Number, rec.Round, engine.PlayerName(rec.Player))
		switch {
		case rec.Skipped:
			fmt.Fprintf(&b, "skipped on %d", rec.From)
		case rec.Chosen != nil:
			fmt.Fprintf(&b, "%s, %d -> %d", rec.Chosen.Label(), rec.From, rec.To)
			if len(rec.Cards) > 1 {
				fmt.Fprintf(&b, " (drew %d cards)", len(rec.Cards))
			}
		}
		if rec.Shortcut != "" {
			fmt.Fprintf(&b, " via %s", rec.Shortcut)
		}
		if rec.Licorice {
			b.WriteString(" [licorice]")
		}
		b.WriteString("\n")
	}

	if history.HasNext {
		fmt.Fprintf(&b, "\nMore draws on page %d.\n", history.Page+1)
	}
	return b.String()
}

func formatSlots(slots []savegame.SlotInfo) string {
	var b strings.Builder
	b.WriteString("Save Slots:\n")
	for _, slot := range slots {
		if !slot.Occupied {
			fmt.Fprintf(&b, "  %d: empty\n", slot.Slot)
			continue
		}
		fmt.Fprintf(&b, "  %d: positions %v, %d cards left, saved %s\n",
			slot.Slot, slot.Positions, slot.DeckSize, slot.SavedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

func formatSpace(space engine.Space) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Space %d\nColor: %s\nKind: %s\n", space.Position, space.Color, space.Kind)
	if space.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", space.Name)
	}
	switch space.Kind {
	case engine.SpaceShortcut:
		fmt.Fprintf(&b, "Landing here exactly moves you to space %d.\n", space.ShortcutTo)
	case engine.SpaceLicorice:
		b.WriteString("Landing here costs your next turn.\n")
	case engine.SpaceDestination:
		b.WriteString("A special card sends you straight here.\n")
	case engine.SpaceFinish:
		b.WriteString("Reaching this space wins the game.\n")
	}
	return b.String()
}
