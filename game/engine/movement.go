package engine

// StepsFor returns how far card moves a piece standing on position. For a
// destination card the result is the absolute target position, not a
// distance; ResolveMove applies it as such.
func StepsFor(card Card, position int) int {
	switch card.Kind {
	case SpecialDestination:
		return card.Special.Target()
	case DoubleColor:
		return colorSteps(card.Color, position) + len(Palette)
	default:
		return colorSteps(card.Color, position)
	}
}

// colorSteps is the distance to the next space of color c. Drawing the
// color you stand on always advances a full cycle.
func colorSteps(c Color, position int) int {
	drawn := c.Value()
	current := CardValue(position)

	switch {
	case current > drawn:
		return (len(Palette) - current) + drawn
	case current == drawn:
		return len(Palette)
	default:
		return drawn - current
	}
}

// MoveOutcome reports the side effects of a single resolved move.
type MoveOutcome struct {
	From     int    `json:"from"`
	To       int    `json:"to"`
	Steps    int    `json:"steps"`
	Shortcut string `json:"shortcut,omitempty"`
	Licorice bool   `json:"licorice,omitempty"`
	Finished bool   `json:"finished,omitempty"`
}

// ResolveMove applies card to p and returns the updated player. The order
// is fixed: move, at most one shortcut, licorice check on the landing
// space, then the finish clamp.
func ResolveMove(p Player, card Card, steps int) (Player, MoveOutcome) {
	out := MoveOutcome{From: p.Position, Steps: steps}

	if card.Kind == SpecialDestination {
		p.Position = steps
	} else {
		p.Position += steps
	}

	if sc, ok := ShortcutAt(p.Position); ok {
		p.Position = sc.To
		p.ShortcutTaken = true
		out.Shortcut = sc.Name
	}

	if IsLicorice(p.Position) {
		p.SkipNextTurn = true
		out.Licorice = true
	}

	if p.Position >= FinishPosition {
		p.Position = FinishPosition
		out.Finished = true
	}

	out.To = p.Position
	return p, out
}
