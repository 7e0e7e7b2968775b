package savegame

import (
	"strconv"
	"strings"

	"github.com/wricardo/candyland-game/game/engine"
)

// difficultyPrefix is written ahead of the player fields. It is not read
// back.
const difficultyPrefix = "0."

// Record is the persisted part of a game: per-player token, skip flag and
// position, and the remaining deck in draw order.
type Record struct {
	Players []engine.SavedPlayer `json:"players"`
	Deck    []engine.Card        `json:"deck"`
}

// alphabet maps save symbols to cards. Colors run red to purple, which is
// not the board order.
var alphabet = map[byte]engine.Card{
	'A': engine.Single(engine.Red),
	'B': engine.Single(engine.Orange),
	'C': engine.Single(engine.Yellow),
	'D': engine.Single(engine.Green),
	'E': engine.Single(engine.Blue),
	'F': engine.Single(engine.Purple),
	'G': engine.Double(engine.Red),
	'H': engine.Double(engine.Orange),
	'I': engine.Double(engine.Yellow),
	'J': engine.Double(engine.Green),
	'K': engine.Double(engine.Blue),
	'L': engine.Double(engine.Purple),
	'M': engine.Destination(engine.PeppermintForest),
	'N': engine.Destination(engine.GumdropMountains),
	'O': engine.Destination(engine.PeanutAcres),
	'P': engine.Destination(engine.LollipopWoods),
}

var symbols = func() map[engine.Card]byte {
	m := make(map[engine.Card]byte, len(alphabet))
	for sym, card := range alphabet {
		m[card] = sym
	}
	return m
}()

// Symbol returns the save letter of a card.
func Symbol(card engine.Card) (byte, bool) {
	sym, ok := symbols[card]
	return sym, ok
}

// Encode renders a record as a single line.
func Encode(rec *Record) string {
	var b strings.Builder
	b.WriteString(difficultyPrefix)
	for _, p := range rec.Players {
		b.WriteString(strconv.Itoa(p.TokenIndex))
		if p.SkipNextTurn {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
		b.WriteString(strconv.Itoa(p.Position))
		b.WriteByte('.')
	}
	for _, card := range rec.Deck {
		if sym, ok := Symbol(card); ok {
			b.WriteByte(sym)
		}
	}
	return b.String()
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// playerCount counts the fields ahead of the first deck letter.
func playerCount(line string) int {
	count := -1
	for i := 0; i < len(line); i++ {
		if isLetter(line[i]) {
			break
		}
		if line[i] == '.' {
			count++
		}
	}
	return count
}

// Decode parses a saved line. ok is false for anything that is not a
// well-formed four-player save. Unknown deck symbols are dropped.
func Decode(line string) (rec *Record, ok bool) {
	line = strings.TrimSpace(line)
	if len(line) < len(difficultyPrefix) || line[1] != '.' {
		return nil, false
	}
	if playerCount(line) != engine.PlayerCount {
		return nil, false
	}

	rec = &Record{Players: make([]engine.SavedPlayer, 0, engine.PlayerCount)}

	i := len(difficultyPrefix)
	for len(rec.Players) < engine.PlayerCount {
		var (
			p          engine.SavedPlayer
			digits     int
			terminated bool
		)
		for ; i < len(line); i++ {
			c := line[i]
			if c == '.' {
				i++
				terminated = true
				break
			}
			if !isDigit(c) {
				return nil, false
			}
			d := int(c - '0')
			switch digits {
			case 0:
				p.TokenIndex = d
			case 1:
				p.SkipNextTurn = c == '1'
			default:
				p.Position = p.Position*10 + d
				if p.Position > engine.FinishPosition {
					return nil, false
				}
			}
			digits++
		}
		if !terminated || digits < 3 {
			return nil, false
		}
		if p.TokenIndex >= engine.PlayerCount {
			return nil, false
		}
		rec.Players = append(rec.Players, p)
	}

	rec.Deck = make([]engine.Card, 0, len(line)-i)
	for ; i < len(line); i++ {
		if card, known := alphabet[line[i]]; known {
			rec.Deck = append(rec.Deck, card)
		}
	}
	return rec, true
}

// FromState captures the inter-round state of a game.
func FromState(state *engine.GameState) *Record {
	rec := &Record{Players: make([]engine.SavedPlayer, 0, engine.PlayerCount)}
	for _, p := range state.Players {
		rec.Players = append(rec.Players, engine.SavedPlayer{
			TokenIndex:   p.TokenIndex,
			SkipNextTurn: p.SkipNextTurn,
			Position:     p.Position,
		})
	}
	if state.Deck != nil {
		rec.Deck = state.Deck.Cards()
	}
	return rec
}

// Restore loads the record into a game engine.
func (r *Record) Restore(e engine.Engine) error {
	return e.Load(r.Players, r.Deck)
}
