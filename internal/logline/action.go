package logline

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lox/pn2ps/internal/card"
)

// Verb is a set of action sub-kinds found on a player-action line. Sub-kinds
// are detected independently, so one line can carry several (for example
// SmallBlind|Missing or Bet|AllIn).
type Verb uint16

const (
	Bet Verb = 1 << iota
	Raise
	Call
	Check
	Fold
	Show
	Straddle
	Collect
	BigBlind
	SmallBlind
	Missing
	AllIn
)

var verbMarkers = []struct {
	verb   Verb
	marker string
}{
	{Bet, "bets"},
	{Raise, "raises"},
	{Call, "calls"},
	{Check, "checks"},
	{Fold, "folds"},
	{Show, "shows"},
	{Straddle, "posts a straddle"},
	{Collect, "collected"},
	{BigBlind, "big blind"},
	{SmallBlind, "small blind"},
	{Missing, "missing"},
	{AllIn, "and go all in"},
}

// Has reports whether every verb in f is set.
func (v Verb) Has(f Verb) bool {
	return v&f == f
}

// Voluntary is the set of verbs that open the hole-cards section of a hand
// history; blind posts are not part of it.
const Voluntary = Bet | Raise | Call | Check | Fold | Show | Straddle | Collect

// Action is a parsed player-action line.
type Action struct {
	PlayerName string
	PlayerID   string
	Verbs      Verb
	// Text is the line after the quoted actor, e.g. "raises to 40".
	Text string
}

// ParseAction splits a player-action line into actor and verbs. ok is false
// when the line does not start with a quoted actor.
func ParseAction(line string) (Action, bool) {
	name, id, rest, ok := splitActor(line)
	if !ok {
		return Action{}, false
	}
	a := Action{PlayerName: name, PlayerID: id, Text: rest}
	for _, vm := range verbMarkers {
		if strings.Contains(rest, vm.marker) {
			a.Verbs |= vm.verb
		}
	}
	return a, true
}

func (a Action) withoutAllIn() string {
	return strings.Replace(a.Text, allInSuffix, "", 1)
}

// BetAmount is the last number on a "bets 20" line.
func (a Action) BetAmount() decimal.Decimal {
	fields := strings.Fields(a.withoutAllIn())
	if len(fields) == 0 {
		return decimal.Zero
	}
	return ParseAmount(fields[len(fields)-1])
}

// RaiseAmount is the total a player raised to: "raises to 40".
func (a Action) RaiseAmount() decimal.Decimal {
	return amountAfter(a.withoutAllIn(), "to ")
}

// CallAmount is the street total a player called to: "calls 40".
func (a Action) CallAmount() decimal.Decimal {
	return amountAfter(a.withoutAllIn(), "calls ")
}

// StraddleAmount reads "posts a straddle of 20".
func (a Action) StraddleAmount() decimal.Decimal {
	return amountAfter(a.withoutAllIn(), "of ")
}

// SmallBlindAmount reads "posts a [missing] small blind of 5 [and go all in]".
func (a Action) SmallBlindAmount() decimal.Decimal {
	return amountAfter(a.withoutAllIn(), "small blind of ")
}

// BigBlindAmount reads "posts a big blind of 10 [and go all in]".
func (a Action) BigBlindAmount() decimal.Decimal {
	return amountAfter(a.withoutAllIn(), "big blind of ")
}

// ShownCards decodes "shows a A♠, K♥.".
func (a Action) ShownCards() []card.Card {
	_, shown, found := strings.Cut(a.Text, "shows a ")
	if !found {
		return nil
	}
	return card.DecodeAll(splitCards(shown))
}

// Collection describes a "collected" line.
type Collection struct {
	Amount decimal.Decimal
	// Showdown is set when the pot was won with a described hand.
	Showdown    bool
	Description string
	SecondRun   bool
}

const (
	collectedMarker = "collected "
	withMarker      = " from pot with "
)

// Collected parses "collected 115 from pot [with <description> (combination: ...)]".
func (a Action) Collected() Collection {
	var c Collection
	_, rest, found := strings.Cut(a.Text, collectedMarker)
	if !found {
		return c
	}
	c.SecondRun = strings.Contains(rest, secondRunMarker)

	amount, desc, showdown := strings.Cut(rest, withMarker)
	if showdown {
		c.Showdown = true
		if i := strings.Index(desc, " ("); i >= 0 {
			desc = desc[:i]
		}
		if c.SecondRun {
			if i := strings.Index(desc, " on the "+secondRunMarker); i >= 0 {
				desc = desc[:i]
			}
		}
		c.Description = strings.TrimSpace(desc)
	} else {
		amount, _, _ = strings.Cut(amount, " from pot")
	}
	c.Amount = ParseAmount(amount)
	return c
}

func amountAfter(s, marker string) decimal.Decimal {
	i := strings.LastIndex(s, marker)
	if i < 0 {
		return decimal.Zero
	}
	fields := strings.Fields(s[i+len(marker):])
	if len(fields) == 0 {
		return decimal.Zero
	}
	return ParseAmount(fields[0])
}
