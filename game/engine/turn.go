package engine

import (
	"fmt"
	"time"
)

// StartTurn begins the human player's draw. The round is resolved by
// subsequent calls to Step, or all at once by Settle. A round that was
// stepped through to RoundComplete is wrapped up first.
func (e *GameEngine) StartTurn() error {
	s := e.state
	if s.Phase == PhaseRoundComplete {
		e.Settle()
	}
	if s.Winner != NoWinner {
		s.Message = e.config.Messages.GameOver
		return ErrGameOver
	}
	if s.Phase != PhaseAwaitingHuman {
		return fmt.Errorf("start turn in phase %s: %w", s.Phase, ErrNotHumanTurn)
	}

	s.Active = true
	e.beginRound()
	s.Turn = HumanPlayer
	s.Phase = PhaseResolvingHuman
	return nil
}

// Step performs one state transition. It returns false when the engine is
// waiting for the human or the game is over.
func (e *GameEngine) Step() bool {
	s := e.state
	switch s.Phase {
	case PhaseResolvingHuman, PhaseResolvingComputer:
		e.resolveTurn(s.Turn)
		e.advance()
	case PhaseRoundComplete:
		if s.Players[HumanPlayer].SkipNextTurn {
			// The human's skipped turn is played out here and the
			// computers go again without waiting for input.
			e.beginRound()
			e.resolveTurn(HumanPlayer)
			e.advance()
			return true
		}
		s.Phase = PhaseAwaitingHuman
		s.Message = e.config.Messages.YourTurn
	default:
		return false
	}
	return true
}

// Settle steps until the engine needs human input or the game ends.
func (e *GameEngine) Settle() {
	for e.Step() {
	}
}

// Draw is the human's draw action: it resolves the human turn and every
// computer turn that follows before returning control.
func (e *GameEngine) Draw() (*GameState, error) {
	if err := e.StartTurn(); err != nil {
		return e.state, err
	}
	e.Settle()
	return e.state, nil
}

// CheckWinner records and returns the winner. Players are scanned in index
// order, so when several have finished the lowest index wins. An existing
// winner is never replaced.
func (e *GameEngine) CheckWinner() int {
	e.checkWinner()
	return e.state.Winner
}

func (e *GameEngine) checkWinner() bool {
	s := e.state
	if s.Winner != NoWinner {
		return true
	}
	for i, p := range s.Players {
		if p.Position >= FinishPosition {
			s.Winner = i
			s.Active = false
			s.Message = fmt.Sprintf(e.config.Messages.Victory, PlayerName(i), s.Round)
			return true
		}
	}
	return false
}

// beginRound clears the per-round display state of every player.
func (e *GameEngine) beginRound() {
	s := e.state
	s.Round++
	for i := range s.Players {
		s.Players[i].DrawnCards = []Card{}
		s.Players[i].ShortcutTaken = false
		s.Players[i].SkipCurrentTurn = false
	}
}

// advance moves to the next player once the current turn has committed.
func (e *GameEngine) advance() {
	s := e.state
	if e.checkWinner() {
		s.Phase = PhaseGameOver
		return
	}
	s.Turn++
	if s.Turn >= PlayerCount {
		s.Turn = HumanPlayer
		s.Phase = PhaseRoundComplete
		return
	}
	s.Phase = PhaseResolvingComputer
}

// resolveTurn plays one player's turn: a skip if they are owed one,
// otherwise a draw and a move.
func (e *GameEngine) resolveTurn(index int) {
	s := e.state
	p := &s.Players[index]
	rec := DrawRecord{
		Round:     s.Round,
		Player:    index,
		From:      p.Position,
		Timestamp: time.Now().Unix(),
	}

	if p.SkipNextTurn {
		p.SkipNextTurn = false
		p.SkipCurrentTurn = true
		rec.Skipped = true
		rec.To = p.Position
		s.Message = fmt.Sprintf(e.config.Messages.Skipped, PlayerName(index))
		e.relayout(index)
		e.record(rec)
		return
	}

	chosen, drawn := e.drawFor(index)
	steps := StepsFor(chosen, p.Position)
	moved, outcome := ResolveMove(*p, chosen, steps)
	moved.DrawnCards = drawn
	*p = moved

	rec.Cards = drawn
	rec.Chosen = &chosen
	rec.Steps = steps
	rec.To = outcome.To
	rec.Shortcut = outcome.Shortcut
	rec.Licorice = outcome.Licorice

	msgs := e.config.Messages
	switch {
	case outcome.Shortcut != "":
		s.Message = fmt.Sprintf(msgs.Shortcut, PlayerName(index), outcome.Shortcut, outcome.To)
	case outcome.Licorice:
		s.Message = fmt.Sprintf(msgs.Licorice, PlayerName(index), outcome.To)
	default:
		s.Message = fmt.Sprintf(msgs.Moved, PlayerName(index), chosen.Label(), outcome.To)
	}

	e.relayout(index)
	e.record(rec)
}

// drawFor draws the cards for one turn and returns the card to play. On
// extreme difficulty computers draw two and keep the one that moves them
// further; a tie keeps the second.
func (e *GameEngine) drawFor(index int) (Card, []Card) {
	deck := e.state.Deck
	deck.EnsureNonEmpty()
	first, _ := deck.Draw()
	if index == HumanPlayer || e.state.Difficulty != Extreme {
		return first, []Card{first}
	}

	deck.EnsureNonEmpty()
	second, _ := deck.Draw()
	pos := e.state.Players[index].Position
	if StepsFor(first, pos) <= StepsFor(second, pos) {
		return second, []Card{first, second}
	}
	return first, []Card{first, second}
}

func (e *GameEngine) record(rec DrawRecord) {
	s := e.state
	s.TotalDraws++
	rec.Number = s.TotalDraws
	s.History = append(s.History, rec)
}
