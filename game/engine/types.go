package engine

import (
	"fmt"
	"strings"
)

const (
	// Track bounds
	StartPosition  = 0
	FinishPosition = 136
	TrackLength    = FinishPosition + 1

	PlayerCount = 4
	HumanPlayer = 0
	NoWinner    = -1

	// Deck composition
	SinglesPerColor = 8
	DoublesPerColor = 2
	FullDeckSize    = SinglesPerColor*6 + DoublesPerColor*6 + 4

	WebSocketBufferSize = 256
)

// Color is one of the six track colors.
type Color int

const (
	Purple Color = iota
	Yellow
	Blue
	Green
	Orange
	Red
)

// Palette lists the track colors in board order. Position p > 0 has color
// Palette[(p-1) % 6].
var Palette = [...]Color{Purple, Yellow, Blue, Green, Orange, Red}

var colorNames = [...]string{"purple", "yellow", "blue", "green", "orange", "red"}

// Value returns the 1..6 distance code of the color.
func (c Color) Value() int {
	return int(c) + 1
}

// Valid reports whether c is one of the six board colors.
func (c Color) Valid() bool {
	return c >= Purple && c <= Red
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(colorNames[c]), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses a case-insensitive color name.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range colorNames {
		if name == s {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// Special identifies one of the four fixed destination cards.
type Special int

const (
	NoSpecial Special = iota
	PeppermintForest
	GumdropMountains
	PeanutAcres
	LollipopWoods
)

// Specials lists the destination cards in deck construction order.
var Specials = [...]Special{PeppermintForest, GumdropMountains, PeanutAcres, LollipopWoods}

var specialInfo = map[Special]struct {
	name   string
	slug   string
	target int
}{
	PeppermintForest: {"Peppermint Forest", "peppermint-forest", 20},
	GumdropMountains: {"Gumdrop Mountains", "gumdrop-mountains", 36},
	PeanutAcres:      {"Peanut Acres", "peanut-acres", 72},
	LollipopWoods:    {"Lollipop Woods", "lollipop-woods", 99},
}

// Target returns the absolute track position the card sends a player to.
func (s Special) Target() int {
	return specialInfo[s].target
}

// Name returns the display name of the destination.
func (s Special) Name() string {
	if info, ok := specialInfo[s]; ok {
		return info.name
	}
	return "none"
}

// CardKind tags the variant carried by a Card.
type CardKind int

const (
	SingleColor CardKind = iota
	DoubleColor
	SpecialDestination
)

// Card is a single draw from the deck. Color is meaningful for the color
// kinds, Special for destination cards.
type Card struct {
	Kind    CardKind
	Color   Color
	Special Special
}

// Single, Double and Destination build the three kinds of card.
func Single(c Color) Card {
	return Card{Kind: SingleColor, Color: c}
}

func Double(c Color) Card {
	return Card{Kind: DoubleColor, Color: c}
}

func Destination(s Special) Card {
	return Card{Kind: SpecialDestination, Special: s}
}

// String returns the card slug used in JSON, e.g. "double-red".
func (c Card) String() string {
	switch c.Kind {
	case SingleColor:
		return c.Color.String()
	case DoubleColor:
		return "double-" + c.Color.String()
	case SpecialDestination:
		if info, ok := specialInfo[c.Special]; ok {
			return info.slug
		}
	}
	return "invalid"
}

// Label returns a human readable description of the card.
func (c Card) Label() string {
	switch c.Kind {
	case SingleColor:
		return capitalize(c.Color.String())
	case DoubleColor:
		return "Double " + capitalize(c.Color.String())
	case SpecialDestination:
		return c.Special.Name()
	}
	return "Invalid card"
}

func (c Card) MarshalText() ([]byte, error) {
	s := c.String()
	if s == "invalid" {
		return nil, fmt.Errorf("invalid card %+v", c)
	}
	return []byte(s), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses the textual form produced by Card.String.
func ParseCard(s string) (Card, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, sp := range Specials {
		if specialInfo[sp].slug == s {
			return Destination(sp), nil
		}
	}
	if rest, ok := strings.CutPrefix(s, "double-"); ok {
		color, err := ParseColor(rest)
		if err != nil {
			return Card{}, fmt.Errorf("parse card %q: %w", s, err)
		}
		return Double(color), nil
	}
	color, err := ParseColor(s)
	if err != nil {
		return Card{}, fmt.Errorf("parse card %q: %w", s, err)
	}
	return Single(color), nil
}

// Point is a piece location in board pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Difficulty controls how many cards a computer player draws per turn.
type Difficulty string

const (
	Normal  Difficulty = "normal"
	Extreme Difficulty = "extreme"
)

// Phase is the turn sequencer state.
type Phase string

const (
	PhaseAwaitingHuman     Phase = "awaiting_human_input"
	PhaseResolvingHuman    Phase = "resolving_human_draw"
	PhaseResolvingComputer Phase = "resolving_computer_draw"
	PhaseRoundComplete     Phase = "round_complete"
	PhaseGameOver          Phase = "game_over"
)

// Player is one seat at the table. Player 0 is the human.
type Player struct {
	Index        int  `json:"index"`
	Position     int  `json:"position"`
	SkipNextTurn bool `json:"skip_next_turn"`
	// SkipCurrentTurn is display-only: the player was skipped this round.
	SkipCurrentTurn bool   `json:"skip_current_turn"`
	TokenIndex      int    `json:"token_index"`
	ShortcutTaken   bool   `json:"shortcut_taken"`
	DrawnCards      []Card `json:"drawn_cards"`
	Piece           Point  `json:"piece"`
}

// GameState is the aggregate state of one game.
type GameState struct {
	Players    [PlayerCount]Player `json:"players"`
	Deck       *Deck               `json:"deck"`
	Turn       int                 `json:"turn"`
	Phase      Phase               `json:"phase"`
	Round      int                 `json:"round"`
	Winner     int                 `json:"winner"`
	Active     bool                `json:"active"`
	Difficulty Difficulty          `json:"difficulty"`
	Loaded     bool                `json:"loaded,omitempty"`
	Message    string              `json:"message"`
	ConfigName string              `json:"config_name"`
	History    []DrawRecord        `json:"history"`
	TotalDraws int                 `json:"total_draws"`
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	for i := range c.Players {
		c.Players[i].DrawnCards = append([]Card{}, s.Players[i].DrawnCards...)
	}
	if s.Deck != nil {
		c.Deck = &Deck{cards: s.Deck.Cards(), rng: s.Deck.rng}
	}
	c.History = make([]DrawRecord, len(s.History))
	for i, rec := range s.History {
		rec.Cards = append([]Card(nil), rec.Cards...)
		if rec.Chosen != nil {
			chosen := *rec.Chosen
			rec.Chosen = &chosen
		}
		c.History[i] = rec
	}
	return &c
}

// DrawRecord is one resolved turn in the game history.
type DrawRecord struct {
	Number    int    `json:"number"`
	Round     int    `json:"round"`
	Player    int    `json:"player"`
	Cards     []Card `json:"cards,omitempty"`
	Chosen    *Card  `json:"chosen,omitempty"`
	Steps     int    `json:"steps"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	Shortcut  string `json:"shortcut,omitempty"`
	Licorice  bool   `json:"licorice,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
