package engine

import (
	"errors"
	"fmt"
)

var ErrPositionOutOfRange = errors.New("position out of range")

// ColorAt returns the color of a track position. The start space shares
// the last palette color so that the color sequence wraps cleanly.
func ColorAt(position int) Color {
	if position <= 0 {
		return Palette[len(Palette)-1]
	}
	r := position % len(Palette)
	if r == 0 {
		return Palette[len(Palette)-1]
	}
	return Palette[r-1]
}

// CardValue returns the 1..6 distance code of a position, 0 at the start.
func CardValue(position int) int {
	if position <= 0 {
		return 0
	}
	r := position % len(Palette)
	if r == 0 {
		return len(Palette)
	}
	return r
}

// Shortcut teleports a piece landing on From to To.
type Shortcut struct {
	Name string `json:"name"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

var shortcuts = map[int]Shortcut{
	27: {Name: "Rainbow Trail", From: 27, To: 56},
	49: {Name: "Gumdrop Pass", From: 49, To: 74},
}

var licoriceSpaces = map[int]bool{12: true, 44: true, 82: true}

// ShortcutAt reports the shortcut starting at position, if any.
func ShortcutAt(position int) (Shortcut, bool) {
	sc, ok := shortcuts[position]
	return sc, ok
}

// IsLicorice reports whether landing on position costs the next turn.
func IsLicorice(position int) bool {
	return licoriceSpaces[position]
}

// SpaceKind classifies a track position.
type SpaceKind string

const (
	SpaceStart       SpaceKind = "start"
	SpaceFinish      SpaceKind = "finish"
	SpaceShortcut    SpaceKind = "shortcut"
	SpaceLicorice    SpaceKind = "licorice"
	SpaceDestination SpaceKind = "destination"
	SpacePlain       SpaceKind = "plain"
)

// Space describes a single track position.
type Space struct {
	Position   int       `json:"position"`
	Color      Color     `json:"color"`
	Kind       SpaceKind `json:"kind"`
	Name       string    `json:"name,omitempty"`
	ShortcutTo int       `json:"shortcut_to,omitempty"`
	Origin     Point     `json:"origin"`
}

// DescribeSpace returns the metadata for a track position.
func DescribeSpace(position int) (Space, error) {
	if position < StartPosition || position > FinishPosition {
		return Space{}, fmt.Errorf("describe space %d: %w", position, ErrPositionOutOfRange)
	}

	space := Space{
		Position: position,
		Color:    ColorAt(position),
		Kind:     SpacePlain,
		Origin:   CellOrigin(position),
	}

	switch {
	case position == StartPosition:
		space.Kind = SpaceStart
	case position == FinishPosition:
		space.Kind = SpaceFinish
		space.Name = "Candy Castle"
	case IsLicorice(position):
		space.Kind = SpaceLicorice
		space.Name = "Licorice"
	}
	if sc, ok := ShortcutAt(position); ok {
		space.Kind = SpaceShortcut
		space.Name = sc.Name
		space.ShortcutTo = sc.To
	}
	for _, sp := range Specials {
		if sp.Target() == position {
			space.Kind = SpaceDestination
			space.Name = sp.Name()
		}
	}

	return space, nil
}

// Board returns every space on the track in order.
func Board() []Space {
	spaces := make([]Space, 0, TrackLength)
	for i := StartPosition; i <= FinishPosition; i++ {
		space, _ := DescribeSpace(i)
		spaces = append(spaces, space)
	}
	return spaces
}

// Board geometry in unscaled pixels. The track snakes across rows of
// twenty cells and drops two cells at each end.
const (
	cellSize      = 32
	cellPitch     = 64
	boardLeftX    = 32
	boardRightX   = 1248
	boardTopY     = 32
	renderScale32 = float32(1 / 1.2)
)

var cellOrigins = buildCellOrigins()

func buildCellOrigins() [TrackLength]Point {
	var cells [TrackLength]Point
	place := func(i, x, y int) {
		if i >= TrackLength {
			return
		}
		cells[i] = Point{
			X: float64(int(renderScale32 * float32(x))),
			Y: float64(int(renderScale32 * float32(y))),
		}
	}

	x, y := boardLeftX, boardTopY
	rightward := true
	for i := 0; i < TrackLength; i++ {
		if x == boardRightX || (x == boardLeftX && y != boardTopY) {
			place(i, x, y)
			i++
			y += cellPitch
			place(i, x, y)
			i++
			y += cellPitch
			rightward = x == boardLeftX
		}
		place(i, x, y)
		if rightward {
			x += cellPitch
		} else {
			x -= cellPitch
		}
	}
	return cells
}

// CellOrigin returns the scaled top-left corner of a position's cell.
func CellOrigin(position int) Point {
	if position < StartPosition {
		position = StartPosition
	}
	if position > FinishPosition {
		position = FinishPosition
	}
	return cellOrigins[position]
}

// CellCenter returns the point a lone piece is drawn at.
func CellCenter(position int) Point {
	return CellOrigin(position).Add(Point{X: cellSize / 2, Y: cellSize / 2})
}
