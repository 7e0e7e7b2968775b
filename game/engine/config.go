package engine

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
)

// Messages holds the player-facing text templates of a configuration.
type Messages struct {
	Welcome  string `json:"welcome"`
	YourTurn string `json:"your_turn"`
	Moved    string `json:"moved"`
	Shortcut string `json:"shortcut"`
	Licorice string `json:"licorice"`
	Skipped  string `json:"skipped"`
	Victory  string `json:"victory"`
	GameOver string `json:"game_over"`
	Loaded   string `json:"loaded"`
	NewGame  string `json:"new_game"`
}

// GameConfig represents a game configuration loaded from JSON.
type GameConfig struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Difficulty     Difficulty `json:"difficulty"`
	PieceSelection int        `json:"piece_selection"`
	Messages       Messages   `json:"messages"`
}

// DefaultConfig returns the built-in classic configuration.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:           "classic",
		Description:    "Classic Candy Land: every computer player draws one card per turn",
		Difficulty:     Normal,
		PieceSelection: 0,
		Messages: Messages{
			Welcome:  "Welcome to Candy Land! Draw a card to start your journey to the Candy Castle.",
			YourTurn: "Your turn! Draw a card.",
			Moved:    "%s drew %s and moved to space %d",
			Shortcut: "%s took %s to space %d",
			Licorice: "%s is stuck in licorice on space %d",
			Skipped:  "%s lost a turn to licorice",
			Victory:  "%s reached the Candy Castle after %d rounds!",
			GameOver: "The game is over. Reset to play again.",
			Loaded:   "Saved game loaded. Your turn!",
			NewGame:  "New game started. Draw a card!",
		},
	}
}

// ValidateGameConfig validates a game configuration for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	switch config.Difficulty {
	case Normal, Extreme:
	default:
		return fmt.Errorf("config validation: difficulty must be %q or %q, got %q", Normal, Extreme, config.Difficulty)
	}

	if config.PieceSelection < 0 || config.PieceSelection >= PlayerCount {
		return fmt.Errorf("config validation: piece_selection must be between 0 and %d, got %d",
			PlayerCount-1, config.PieceSelection)
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.YourTurn == "" {
		return fmt.Errorf("config validation: messages.your_turn is required")
	}

	// Format strings
	formats := []struct {
		field, value, verbs string
	}{
		{"moved", config.Messages.Moved, "%s%s%d"},
		{"shortcut", config.Messages.Shortcut, "%s%s%d"},
		{"licorice", config.Messages.Licorice, "%s%d"},
		{"skipped", config.Messages.Skipped, "%s"},
		{"victory", config.Messages.Victory, "%s%d"},
	}
	for _, f := range formats {
		if got := formatVerbs(f.value); got != f.verbs {
			return fmt.Errorf("config validation: messages.%s must contain the verbs %s in order, got %q",
				f.field, f.verbs, f.value)
		}
	}

	return nil
}

// formatVerbs returns the %s and %d verbs of a template in order.
func formatVerbs(s string) string {
	var b strings.Builder
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '%' {
			continue
		}
		switch s[i+1] {
		case 's', 'd':
			b.WriteByte('%')
			b.WriteByte(s[i+1])
		}
		i++
	}
	return b.String()
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// InitGameStateFromConfig creates a fresh game: every piece on the start
// space in its corner, tokens assigned from the piece selection and a
// shuffled full deck.
func InitGameStateFromConfig(config *GameConfig, rng *rand.Rand) *GameState {
	if config == nil {
		config = DefaultConfig()
	}

	deck := NewDeck(rng)
	deck.Initialize()
	deck.Shuffle()

	state := &GameState{
		Deck:       deck,
		Turn:       HumanPlayer,
		Phase:      PhaseAwaitingHuman,
		Winner:     NoWinner,
		Difficulty: config.Difficulty,
		Message:    config.Messages.Welcome,
		ConfigName: config.Name,
		History:    []DrawRecord{},
	}

	tokens := AssignTokens(config.PieceSelection)
	var positions [PlayerCount]int
	pieces := DefaultLayout(positions)
	for i := range state.Players {
		state.Players[i] = Player{
			Index:      i,
			Position:   StartPosition,
			TokenIndex: tokens[i],
			DrawnCards: []Card{},
			Piece:      pieces[i],
		}
	}

	return state
}
