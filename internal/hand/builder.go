package hand

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/pn2ps/internal/card"
	"github.com/lox/pn2ps/internal/handid"
	"github.com/lox/pn2ps/internal/logline"
)

// state is the accumulator folded over a log's lines: the hand currently
// being built and every hand already closed.
type state struct {
	open *Hand
	done []*Hand
}

// close moves the open hand, if any, to the finished list.
func (st state) close() state {
	if st.open != nil {
		st.done = append(st.done, st.open)
		st.open = nil
	}
	return st
}

// builder applies one line at a time to a state.
type builder struct {
	logger    zerolog.Logger
	nameRemap map[string]string
	seatCount int
}

func (b builder) step(st state, line string, at time.Time) (state, error) {
	ev := logline.Parse(line)

	if start, ok := ev.(logline.StartEvent); ok {
		st = st.close()
		st.open = b.startHand(start.Start, at)
		st.open.RawLines = append(st.open.RawLines, line)
		return st, nil
	}

	h := st.open
	if h == nil {
		return st, fmt.Errorf("%w: %q", ErrNoOpenHand, line)
	}

	switch e := ev.(type) {
	case logline.StacksEvent:
		if e.Err != nil {
			return st, fmt.Errorf("%w: %v", ErrBadSeat, e.Err)
		}
		b.seatPlayers(h, e.Entries)
	case logline.HoleCardsEvent:
		h.Hole = e.Cards
		b.logger.Debug().Uint64("hand_id", h.ID).Str("cards", card.Join(e.Cards)).Msg("hole cards")
	case logline.BoardEvent:
		b.deal(h, e)
	case logline.RunItTwiceEvent:
		h.RanItTwice = true
	case logline.UncalledBetEvent:
		h.UncalledBet = e.Amount
	case logline.ActionEvent:
		b.postBlinds(h, e.Action)
		b.recordShow(h, e.Action)
	case logline.EndEvent:
		if e.Number != 0 && e.Number != h.Number {
			b.logger.Warn().Uint64("hand_id", h.ID).Int("number", h.Number).Int("ending", e.Number).
				Msg("ending line does not match open hand")
		}
	}

	h.RawLines = append(h.RawLines, line)
	return st, nil
}

func (b builder) startHand(start logline.Start, at time.Time) *Hand {
	h := &Hand{
		Number:    start.Number,
		Date:      at,
		SeatCount: b.seatCount,
	}
	if !start.DeadButton {
		h.dealerID = start.DealerID
	}
	h.ID = handid.Derive(h.dealerID, at)
	b.logger.Debug().Uint64("hand_id", h.ID).Int("number", h.Number).Str("dealer", h.dealerID).
		Str("dealer_name", start.DealerName).Msg("hand started")
	return h
}

func (b builder) seatPlayers(h *Hand, entries []logline.StackEntry) {
	if len(h.Seats) > 0 {
		b.logger.Warn().Uint64("hand_id", h.ID).Msg("ignoring repeated stacks announcement")
		return
	}

	players := make([]*Player, 0, len(entries))
	seats := make([]*Seat, 0, len(entries))
	for _, entry := range entries {
		p := &Player{ID: entry.ID, Name: b.displayName(entry), Stack: entry.Stack}
		players = append(players, p)
		seats = append(seats, &Seat{
			Number:  entry.Seat,
			Player:  p,
			Summary: p.Name + " didn't show and lost",
		})
		if h.dealerID != "" && p.ID == h.dealerID {
			h.Dealer = p
		}
	}
	h.Players = players
	h.Seats = seats
}

func (b builder) displayName(entry logline.StackEntry) string {
	if name, ok := b.nameRemap[entry.ID]; ok && entry.ID != "" {
		return name
	}
	if name, ok := b.nameRemap[entry.Name]; ok {
		return name
	}
	return entry.Name
}

func (b builder) deal(h *Hand, e logline.BoardEvent) {
	b.logger.Debug().Uint64("hand_id", h.ID).Str("street", e.Street.String()).Str("cards", card.Join(e.Cards)).Msg("board")

	board := &h.Board
	if e.Street.IsSecondRun() {
		board = &h.SecondBoard
		h.RanItTwice = true
	}
	switch e.Street {
	case logline.Flop, logline.SecondFlop:
		board.Flop = e.Cards
		if board.Flop == nil {
			board.Flop = []card.Card{}
		}
	case logline.Turn, logline.SecondTurn:
		board.Turn = firstCard(e.Cards)
	case logline.River, logline.SecondRiver:
		board.River = firstCard(e.Cards)
	}
}

// firstCard returns the first dealt card, or the Error card when the line
// carried none.
func firstCard(cards []card.Card) *card.Card {
	c := card.Error
	if len(cards) > 0 {
		c = cards[0]
	}
	return &c
}

func (b builder) postBlinds(h *Hand, a logline.Action) {
	p := h.PlayerByID(a.PlayerID)
	if p == nil {
		return
	}
	if !a.Verbs.Has(logline.BigBlind) && !a.Verbs.Has(logline.SmallBlind) {
		return
	}
	if s := h.SeatOf(p.ID); s != nil {
		s.PreFlopBet = true
		if a.Verbs.Has(logline.AllIn) && !a.Verbs.Has(logline.Missing) {
			s.BlindAllIn = true
		}
	}

	if a.Verbs.Has(logline.BigBlind) {
		h.BigBlindSize = a.BigBlindAmount()
		h.BigBlinds = append(h.BigBlinds, p)
		b.logger.Debug().Uint64("hand_id", h.ID).Str("player", p.Name).Str("amount", h.BigBlindSize.String()).Msg("posts big blind")
	}

	if a.Verbs.Has(logline.SmallBlind) {
		h.SmallBlindSize = a.SmallBlindAmount()
		if a.Verbs.Has(logline.Missing) {
			h.MissingSmallBlinds = append(h.MissingSmallBlinds, p)
		} else {
			h.SmallBlind = p
		}
		b.logger.Debug().Uint64("hand_id", h.ID).Str("player", p.Name).Str("amount", h.SmallBlindSize.String()).
			Bool("missing", a.Verbs.Has(logline.Missing)).Msg("posts small blind")
	}
}

func (b builder) recordShow(h *Hand, a logline.Action) {
	if !a.Verbs.Has(logline.Show) {
		return
	}
	if s := h.SeatOf(a.PlayerID); s != nil {
		s.ShownHand = a.ShownCards()
	}
}
