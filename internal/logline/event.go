package logline

import (
	"github.com/lox/pn2ps/internal/card"
)

// Event is the tagged result of parsing one line. The concrete type is
// determined by Classify.
type Event interface {
	Kind() Kind
}

// StartEvent opens a hand.
type StartEvent struct{ Start }

// EndEvent closes a hand.
type EndEvent struct{ Number int }

// StacksEvent announces seats and stacks.
type StacksEvent struct {
	Entries []StackEntry
	// Err is set when a tuple lacked a parseable seat number.
	Err error
}

// HoleCardsEvent carries the hero's cards.
type HoleCardsEvent struct{ Cards []card.Card }

// BoardEvent deals board cards for one street of either run.
type BoardEvent struct {
	Street Kind
	Cards  []card.Card
}

// RunItTwiceEvent marks that the remaining board is dealt twice.
type RunItTwiceEvent struct{}

// UncalledBetEvent returns an unmatched bet to its owner.
type UncalledBetEvent struct{ Uncalled }

// ActionEvent is a player action.
type ActionEvent struct{ Action }

// UnrecognizedEvent is any other line; it is kept but ignored.
type UnrecognizedEvent struct{ Text string }

func (StartEvent) Kind() Kind        { return HandStart }
func (EndEvent) Kind() Kind          { return HandEnd }
func (StacksEvent) Kind() Kind       { return Stacks }
func (HoleCardsEvent) Kind() Kind    { return HoleCards }
func (e BoardEvent) Kind() Kind      { return e.Street }
func (RunItTwiceEvent) Kind() Kind   { return RunItTwice }
func (UncalledBetEvent) Kind() Kind  { return UncalledBet }
func (ActionEvent) Kind() Kind       { return PlayerAction }
func (UnrecognizedEvent) Kind() Kind { return Unrecognized }

// Parse classifies line and extracts its kind-specific fields.
func Parse(line string) Event {
	switch kind := Classify(line); kind {
	case HandStart:
		return StartEvent{ParseHandStart(line)}
	case HandEnd:
		return EndEvent{Number: ParseHandEnd(line)}
	case Stacks:
		entries, err := ParseStacks(line)
		return StacksEvent{Entries: entries, Err: err}
	case HoleCards:
		return HoleCardsEvent{Cards: ParseHoleCards(line)}
	case Flop, Turn, River, SecondFlop, SecondTurn, SecondRiver:
		return BoardEvent{Street: kind, Cards: ParseBoard(line)}
	case RunItTwice:
		return RunItTwiceEvent{}
	case UncalledBet:
		return UncalledBetEvent{ParseUncalledBet(line)}
	case PlayerAction:
		if a, ok := ParseAction(line); ok {
			return ActionEvent{a}
		}
	}
	return UnrecognizedEvent{Text: line}
}
