package engine

import (
	"encoding/json"
	"testing"
)

func TestColorValues(t *testing.T) {
	tests := []struct {
		color    Color
		name     string
		expected int
	}{
		{Purple, "purple", 1},
		{Yellow, "yellow", 2},
		{Blue, "blue", 3},
		{Green, "green", 4},
		{Orange, "orange", 5},
		{Red, "red", 6},
	}

	for _, test := range tests {
		if test.color.Value() != test.expected {
			t.Errorf("%s: expected value %d, got %d", test.name, test.expected, test.color.Value())
		}
		if test.color.String() != test.name {
			t.Errorf("Expected name %s, got %s", test.name, test.color.String())
		}
		parsed, err := ParseColor(" " + test.name + " ")
		if err != nil || parsed != test.color {
			t.Errorf("ParseColor(%q) = %v, %v", test.name, parsed, err)
		}
	}

	if _, err := ParseColor("magenta"); err == nil {
		t.Error("Expected error for unknown color")
	}
}

func TestSpecialTargets(t *testing.T) {
	tests := []struct {
		special Special
		name    string
		target  int
	}{
		{PeppermintForest, "Peppermint Forest", 20},
		{GumdropMountains, "Gumdrop Mountains", 36},
		{PeanutAcres, "Peanut Acres", 72},
		{LollipopWoods, "Lollipop Woods", 99},
	}

	for _, test := range tests {
		if test.special.Target() != test.target {
			t.Errorf("%s: expected target %d, got %d", test.name, test.target, test.special.Target())
		}
		if test.special.Name() != test.name {
			t.Errorf("Expected name %q, got %q", test.name, test.special.Name())
		}
	}
}

func TestCardText(t *testing.T) {
	tests := []struct {
		card  Card
		text  string
		label string
	}{
		{Single(Red), "red", "Red"},
		{Double(Purple), "double-purple", "Double Purple"},
		{Destination(GumdropMountains), "gumdrop-mountains", "Gumdrop Mountains"},
	}

	for _, test := range tests {
		if test.card.String() != test.text {
			t.Errorf("Expected %q, got %q", test.text, test.card.String())
		}
		if test.card.Label() != test.label {
			t.Errorf("Expected label %q, got %q", test.label, test.card.Label())
		}
		parsed, err := ParseCard(test.text)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", test.text, err)
		}
		if parsed != test.card {
			t.Errorf("ParseCard(%q) = %+v, want %+v", test.text, parsed, test.card)
		}
	}

	for _, bad := range []string{"", "double-", "double-pink", "candy-castle"} {
		if _, err := ParseCard(bad); err == nil {
			t.Errorf("Expected error parsing %q", bad)
		}
	}
}

func TestPlayerJSONCarriesCardsAsText(t *testing.T) {
	p := Player{Index: 2, Position: 27, DrawnCards: []Card{Double(Blue), Destination(PeanutAcres)}}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Failed to marshal player: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	cards, ok := raw["drawn_cards"].([]interface{})
	if !ok || len(cards) != 2 {
		t.Fatalf("Expected two drawn cards, got %v", raw["drawn_cards"])
	}
	if cards[0] != "double-blue" || cards[1] != "peanut-acres" {
		t.Errorf("Unexpected card encoding: %v", cards)
	}
}

func TestAssignTokens(t *testing.T) {
	tests := []struct {
		selection int
		expected  [PlayerCount]int
	}{
		{0, [PlayerCount]int{0, 1, 2, 3}},
		{1, [PlayerCount]int{1, 0, 2, 3}},
		{2, [PlayerCount]int{2, 1, 0, 3}},
		{3, [PlayerCount]int{3, 1, 2, 0}},
	}

	for _, test := range tests {
		got := AssignTokens(test.selection)
		if got != test.expected {
			t.Errorf("AssignTokens(%d) = %v, want %v", test.selection, got, test.expected)
		}
	}
}

func TestStandings(t *testing.T) {
	state := InitGameStateFromConfig(nil, nil)
	state.Players[0].Position = 40
	state.Players[1].Position = 90
	state.Players[2].Position = 90
	state.Players[3].Position = 5

	standings := Standings(state)
	order := []int{standings[0].Player, standings[1].Player, standings[2].Player, standings[3].Player}
	expected := []int{1, 2, 0, 3}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("Expected order %v, got %v", expected, order)
		}
	}
	if standings[0].Remaining != FinishPosition-90 {
		t.Errorf("Expected remaining %d, got %d", FinishPosition-90, standings[0].Remaining)
	}
}
