package engine

import (
	"fmt"
	"sort"
)

// TokenNames are the selectable game pieces, indexed by token.
var TokenNames = [PlayerCount]string{"Cookie", "Sucker", "Candy Cane", "Pink Candy"}

// AssignTokens returns the token of every player when the human picks
// selection. The computer whose default token collides with the pick
// takes token 0 instead.
func AssignTokens(selection int) [PlayerCount]int {
	var tokens [PlayerCount]int
	tokens[HumanPlayer] = selection
	for i := 1; i < PlayerCount; i++ {
		if selection == i {
			tokens[i] = 0
		} else {
			tokens[i] = i
		}
	}
	return tokens
}

// PlayerName returns the display name of a player index.
func PlayerName(index int) string {
	if index == HumanPlayer {
		return "You"
	}
	return fmt.Sprintf("Computer %d", index)
}

// Standing is a player's progress toward the finish.
type Standing struct {
	Player    int    `json:"player"`
	Name      string `json:"name"`
	Token     string `json:"token"`
	Position  int    `json:"position"`
	Remaining int    `json:"remaining"`
	Color     Color  `json:"color"`
}

// Standings orders players by distance remaining, nearest first. Ties keep
// index order.
func Standings(state *GameState) []Standing {
	standings := make([]Standing, 0, PlayerCount)
	for i, p := range state.Players {
		token := ""
		if p.TokenIndex >= 0 && p.TokenIndex < len(TokenNames) {
			token = TokenNames[p.TokenIndex]
		}
		standings = append(standings, Standing{
			Player:    i,
			Name:      PlayerName(i),
			Token:     token,
			Position:  p.Position,
			Remaining: FinishPosition - p.Position,
			Color:     ColorAt(p.Position),
		})
	}
	sort.SliceStable(standings, func(a, b int) bool {
		return standings[a].Remaining < standings[b].Remaining
	})
	return standings
}
