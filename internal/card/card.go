// Package card maps PokerNow's glyph card tokens (e.g. "10♥") to canonical
// two-character card codes (e.g. "Th").
package card

import "strings"

// Suit represents a card suit
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

var suits = [...]Suit{Clubs, Diamonds, Hearts, Spades}

// Glyph returns the suit symbol used in PokerNow logs
func (s Suit) Glyph() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Letter returns the lower-case suit letter used in hand histories
func (s Suit) Letter() string {
	switch s {
	case Clubs:
		return "c"
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Rank represents a card rank
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Code returns the single character rank used in hand histories
func (r Rank) Code() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + r))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Label returns the rank as PokerNow prints it ("10" rather than "T")
func (r Rank) Label() string {
	if r == Ten {
		return "10"
	}
	return r.Code()
}

// Card is one of the 52 cards or Error. The zero value is Error so that an
// unset card never masquerades as a real one.
type Card uint8

// Error is the sentinel for tokens that are not a known card.
const Error Card = 0

const errorLiteral = "Error"

var (
	codes    [53]string
	bySymbol = make(map[string]Card, 52)
)

func init() {
	codes[Error] = errorLiteral
	for _, s := range suits {
		for r := Two; r <= Ace; r++ {
			c := New(r, s)
			codes[c] = r.Code() + s.Letter()
			bySymbol[r.Label()+s.Glyph()] = c
		}
	}
}

// New creates a card from a rank and suit. Out of range values yield Error.
func New(r Rank, s Suit) Card {
	if r < Two || r > Ace || s > Spades {
		return Error
	}
	return Card(uint8(s)*13 + uint8(r-Two) + 1)
}

// Valid reports whether c is one of the 52 real cards
func (c Card) Valid() bool {
	return c >= 1 && c <= 52
}

// String returns the canonical code (e.g. "Th"), or "Error"
func (c Card) String() string {
	if !c.Valid() {
		return errorLiteral
	}
	return codes[c]
}

// Decode maps a PokerNow glyph token to a card. Unknown tokens return Error;
// it never fails.
func Decode(token string) Card {
	token = strings.TrimSpace(strings.ReplaceAll(token, "\ufe0f", ""))
	if c, ok := bySymbol[token]; ok {
		return c
	}
	return Error
}

// DecodeAll decodes every token, substituting Error for unknown ones.
func DecodeAll(tokens []string) []Card {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]Card, len(tokens))
	for i, t := range tokens {
		out[i] = Decode(t)
	}
	return out
}

// Encode returns the canonical code for c. Equivalent to c.String().
func Encode(c Card) string {
	return c.String()
}

// Join renders cards as space separated canonical codes ("Ah Kd 2c").
func Join(cards []Card) string {
	return join(cards, " ")
}

// Concat renders cards back to back ("AhKd2c").
func Concat(cards []Card) string {
	return join(cards, "")
}

func join(cards []Card, sep string) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, sep)
}
