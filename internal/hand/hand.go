// Package hand rebuilds PokerNow hands from their narrative log lines.
package hand

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lox/pn2ps/internal/card"
)

// DefaultSeatCount is the PokerNow table size.
const DefaultSeatCount = 10

// Record is one row of a PokerNow log export.
type Record struct {
	At    string
	Entry string
	Order string
}

// Player is a participant in a single hand.
type Player struct {
	ID    string
	Name  string
	Stack decimal.Decimal
}

// Seat binds a player to a table position for one hand.
type Seat struct {
	Number int
	Player *Player
	// Summary is the seat's default summary line; renderers start from it.
	Summary    string
	PreFlopBet bool
	// BlindAllIn is set when the seat's blind post put it all in.
	BlindAllIn bool
	ShownHand  []card.Card
}

// Board holds the community cards of one run. Nil fields were never dealt.
type Board struct {
	Flop  []card.Card
	Turn  *card.Card
	River *card.Card
}

// Cards returns the dealt cards in order.
func (b Board) Cards() []card.Card {
	cards := make([]card.Card, 0, 5)
	cards = append(cards, b.Flop...)
	if b.Turn != nil {
		cards = append(cards, *b.Turn)
	}
	if b.River != nil {
		cards = append(cards, *b.River)
	}
	return cards
}

// Empty reports whether no card has been dealt.
func (b Board) Empty() bool {
	return b.Flop == nil && b.Turn == nil && b.River == nil
}

// Hand is everything known about one hand after the build pass.
type Hand struct {
	ID     uint64
	Number int
	Date   time.Time

	Dealer             *Player
	SmallBlind         *Player
	BigBlinds          []*Player
	MissingSmallBlinds []*Player
	SmallBlindSize     decimal.Decimal
	BigBlindSize       decimal.Decimal

	Players   []*Player
	Seats     []*Seat
	SeatCount int

	Hole        []card.Card
	Board       Board
	SecondBoard Board
	RanItTwice  bool
	UncalledBet decimal.Decimal

	// RawLines are the hand's log lines, oldest first.
	RawLines []string

	dealerID string
}

// PlayerByID returns the player with the given id, or nil.
func (h *Hand) PlayerByID(id string) *Player {
	for _, p := range h.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// SeatOf returns the seat of the player with the given id, or nil.
func (h *Hand) SeatOf(id string) *Seat {
	for _, s := range h.Seats {
		if s.Player != nil && s.Player.ID == id {
			return s
		}
	}
	return nil
}

// IsBigBlind reports whether the player posted a big blind.
func (h *Hand) IsBigBlind(id string) bool {
	for _, p := range h.BigBlinds {
		if p.ID == id {
			return true
		}
	}
	return false
}

// ButtonSeat returns the dealer's seat when known, otherwise the seat before
// the small blind, wrapping to the last seat of the table.
func (h *Hand) ButtonSeat() int {
	if h.Dealer != nil {
		if s := h.SeatOf(h.Dealer.ID); s != nil {
			return s.Number
		}
	}
	sbSeat := 0
	if h.SmallBlind != nil {
		if s := h.SeatOf(h.SmallBlind.ID); s != nil {
			sbSeat = s.Number
		}
	}
	if sbSeat > 1 {
		return sbSeat - 1
	}
	return h.tableSize()
}

func (h *Hand) tableSize() int {
	if h.SeatCount > 0 {
		return h.SeatCount
	}
	return DefaultSeatCount
}

// SecondRunBoard returns the run-it-twice board. Streets missing from the
// second run fall back to the first run's cards.
func (h *Hand) SecondRunBoard() Board {
	b := h.SecondBoard
	if b.Flop == nil {
		b.Flop = h.Board.Flop
	}
	if b.Turn == nil {
		b.Turn = h.Board.Turn
	}
	if b.River == nil {
		b.River = h.Board.River
	}
	return b
}

// MissingSmallBlindTotal is the small blind size times the number of missing
// small blinds posted. PokerNow includes these in reported pots.
func (h *Hand) MissingSmallBlindTotal() decimal.Decimal {
	return h.SmallBlindSize.Mul(decimal.NewFromInt(int64(len(h.MissingSmallBlinds))))
}
