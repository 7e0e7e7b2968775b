package engine

import (
	"encoding/json"
	"math/rand/v2"
)

// Deck is the ordered card supply. The front of Cards is the next draw.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck returns an empty deck drawing randomness from rng. A nil rng
// uses a randomly seeded source.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = newRand()
	}
	return &Deck{rng: rng}
}

// NewDeckFromCards returns a deck holding cards in draw order.
func NewDeckFromCards(cards []Card, rng *rand.Rand) *Deck {
	d := NewDeck(rng)
	d.cards = append([]Card(nil), cards...)
	return d
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Initialize replaces the contents with a fresh, unshuffled full deck.
func (d *Deck) Initialize() {
	cards := make([]Card, 0, FullDeckSize)
	for _, c := range Palette {
		for i := 0; i < SinglesPerColor; i++ {
			cards = append(cards, Single(c))
		}
	}
	for _, c := range Palette {
		for i := 0; i < DoublesPerColor; i++ {
			cards = append(cards, Double(c))
		}
	}
	for _, s := range Specials {
		cards = append(cards, Destination(s))
	}
	d.cards = cards
}

// Shuffle permutes the deck uniformly.
func (d *Deck) Shuffle() {
	if len(d.cards) == 0 {
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// EnsureNonEmpty refills and shuffles an exhausted deck. It must be called
// before every Draw.
func (d *Deck) EnsureNonEmpty() {
	if len(d.cards) == 0 {
		d.Initialize()
		d.Shuffle()
	}
}

// Draw removes and returns the front card. ok is false only when the deck
// is empty, which EnsureNonEmpty rules out.
func (d *Deck) Draw() (card Card, ok bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card = d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Len returns the number of cards left to draw.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in draw order.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

func (d *Deck) setRand(rng *rand.Rand) {
	d.rng = rng
}

func (d *Deck) MarshalJSON() ([]byte, error) {
	if d.cards == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.cards)
}

func (d *Deck) UnmarshalJSON(data []byte) error {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return err
	}
	d.cards = cards
	if d.rng == nil {
		d.rng = newRand()
	}
	return nil
}
