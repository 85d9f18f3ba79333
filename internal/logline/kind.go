// Package logline classifies PokerNow narrative log lines and extracts the
// fields each kind of line carries.
//
// Classification is order sensitive: several kinds share substrings, so
// Classify tries its rules in a fixed priority order (see rules).
package logline

import "strings"

// Kind identifies what a single log line describes.
type Kind int

const (
	Unrecognized Kind = iota
	HandStart
	HandEnd
	Stacks
	HoleCards
	Flop
	Turn
	River
	SecondFlop
	SecondTurn
	SecondRiver
	RunItTwice
	UncalledBet
	PlayerAction
)

var kindNames = map[Kind]string{
	Unrecognized: "unrecognized",
	HandStart:    "hand_start",
	HandEnd:      "hand_end",
	Stacks:       "stacks",
	HoleCards:    "hole_cards",
	Flop:         "flop",
	Turn:         "turn",
	River:        "river",
	SecondFlop:   "second_flop",
	SecondTurn:   "second_turn",
	SecondRiver:  "second_river",
	RunItTwice:   "run_it_twice",
	UncalledBet:  "uncalled_bet",
	PlayerAction: "player_action",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsStreet reports whether k deals board cards.
func (k Kind) IsStreet() bool {
	return k >= Flop && k <= SecondRiver
}

// IsSecondRun reports whether k deals a run-it-twice board card.
func (k Kind) IsSecondRun() bool {
	return k >= SecondFlop && k <= SecondRiver
}

// Literal prefixes and markers used by the PokerNow export.
const (
	handStartPrefix   = "-- starting hand "
	handEndPrefix     = "-- ending hand "
	stacksPrefix      = "Player stacks"
	holeCardsPrefix   = "Your hand is "
	uncalledBetPrefix = "Uncalled bet"
	secondRunMarker   = "second run"
	runItTwiceMarker  = "choose to run it twice"
	allInSuffix       = " and go all in"
)

type rule struct {
	kind  Kind
	match func(line string) bool
}

// rules is the classification contract, tried top to bottom. Second-run
// streets must precede their first-run counterparts because both share the
// street prefix.
var rules = []rule{
	{HandStart, prefix(handStartPrefix)},
	{HandEnd, prefix(handEndPrefix)},
	{Stacks, prefix(stacksPrefix)},
	{HoleCards, prefix(holeCardsPrefix)},
	{SecondFlop, street("flop", true)},
	{SecondTurn, street("turn", true)},
	{SecondRiver, street("river", true)},
	{Flop, street("flop", false)},
	{Turn, street("turn", false)},
	{River, street("river", false)},
	{RunItTwice, contains(runItTwiceMarker)},
	{UncalledBet, prefix(uncalledBetPrefix)},
	{PlayerAction, isPlayerAction},
}

// Classify returns the kind of line. Lines no rule matches are Unrecognized.
func Classify(line string) Kind {
	for _, r := range rules {
		if r.match(line) {
			return r.kind
		}
	}
	return Unrecognized
}

func prefix(p string) func(string) bool {
	return func(line string) bool { return strings.HasPrefix(line, p) }
}

func contains(s string) func(string) bool {
	return func(line string) bool { return strings.Contains(line, s) }
}

func street(name string, secondRun bool) func(string) bool {
	return func(line string) bool {
		if len(line) < len(name) || !strings.EqualFold(line[:len(name)], name) {
			return false
		}
		return strings.Contains(line, secondRunMarker) == secondRun
	}
}

// actionMarkers are the substrings that make a quoted-actor line a player action.
var actionMarkers = []string{
	"bets", "raises", "calls", "checks", "folds", "shows",
	"posts a straddle", "collected", "big blind", "small blind",
}

func isPlayerAction(line string) bool {
	_, _, rest, ok := splitActor(line)
	if !ok {
		return false
	}
	for _, m := range actionMarkers {
		if strings.Contains(rest, m) {
			return true
		}
	}
	return false
}
