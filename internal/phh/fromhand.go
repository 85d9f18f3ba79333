// Package phh converts built hands into the Poker Hand History TOML format.
package phh

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lox/pn2ps/internal/hand"
	"github.com/lox/pn2ps/internal/logline"
)

const (
	// Variant is the PHH code for no-limit Texas hold'em.
	Variant = "NT"
	// Venue names the site the hands were played on.
	Venue = "PokerNow"
)

// Options control how a hand is converted.
type Options struct {
	// Hero is the player whose hole cards are known.
	Hero string
	// Multiplier scales every amount. Zero means 1.
	Multiplier decimal.Decimal
	Table      string
	// Location is the zone the time fields are reported in. Nil means UTC.
	Location *time.Location
}

// handState tracks chip movement per PHH position while the raw lines are
// replayed.
type handState struct {
	history *HandHistory
	m       decimal.Decimal
	index   map[string]int

	starting      []decimal.Decimal
	contributions []decimal.Decimal
	committed     []decimal.Decimal
	returned      []decimal.Decimal
	winnings      []decimal.Decimal
}

// FromHand converts h into a hand history. Players are ordered starting
// from the seat after the button. h is not modified.
func FromHand(h *hand.Hand, opts Options) *HandHistory {
	m := opts.Multiplier
	if m.IsZero() {
		m = decimal.NewFromInt(1)
	}
	order := positionOrder(h.Seats, h.ButtonSeat())
	n := len(order)

	st := &handState{
		history: &HandHistory{
			Variant:           Variant,
			Venue:             Venue,
			Table:             opts.Table,
			SeatCount:         h.SeatCount,
			Seats:             make([]int, n),
			Antes:             make([]float64, n),
			BlindsOrStraddles: make([]float64, n),
			MinBet:            h.BigBlindSize.Mul(m).InexactFloat64(),
			Actions:           make([]string, 0, n+16),
			Players:           make([]string, n),
			HandID:            strconv.FormatUint(h.ID, 10),
			Timestamp:         h.Date,
		},
		m:             m,
		index:         make(map[string]int, n),
		starting:      make([]decimal.Decimal, n),
		contributions: make([]decimal.Decimal, n),
		committed:     make([]decimal.Decimal, n),
		returned:      make([]decimal.Decimal, n),
		winnings:      make([]decimal.Decimal, n),
	}

	for pos, seat := range order {
		p := seat.Player
		st.index[p.ID] = pos
		st.history.Seats[pos] = seat.Number
		st.history.Players[pos] = p.Name
		st.starting[pos] = p.Stack.Mul(m)
	}
	for pos, seat := range order {
		cards := unknownHole
		if opts.Hero != "" && seat.Player.Name == opts.Hero {
			cards = holeCards(h.Hole)
		}
		st.history.Actions = append(st.history.Actions, fmt.Sprintf("d dh p%d %s", pos+1, cards))
	}

	st.postBlinds(h)
	for _, line := range h.RawLines {
		switch ev := logline.Parse(line).(type) {
		case logline.BoardEvent:
			st.deal(ev)
		case logline.UncalledBetEvent:
			if pos, ok := st.index[ev.PlayerID]; ok {
				st.returned[pos] = st.returned[pos].Add(ev.Amount.Mul(m))
			}
		case logline.ActionEvent:
			st.action(ev.Action)
		}
	}
	st.closeStreet()
	st.finish()
	populateTimeFields(st.history, opts.Location)
	return st.history
}

func positionOrder(seats []*hand.Seat, button int) []*hand.Seat {
	sorted := make([]*hand.Seat, 0, len(seats))
	for _, s := range seats {
		if s.Player != nil {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	start := 0
	for i, s := range sorted {
		if s.Number > button {
			start = i
			break
		}
	}
	order := make([]*hand.Seat, 0, len(sorted))
	for i := range sorted {
		order = append(order, sorted[(start+i)%len(sorted)])
	}
	return order
}

func (st *handState) postBlinds(h *hand.Hand) {
	if h.SmallBlind != nil {
		if pos, ok := st.index[h.SmallBlind.ID]; ok {
			st.blind(pos, h.SmallBlindSize.Mul(st.m))
		}
	}
	for _, p := range h.BigBlinds {
		if pos, ok := st.index[p.ID]; ok {
			st.blind(pos, h.BigBlindSize.Mul(st.m))
		}
	}
	// Missing small blinds are dead money: paid, but not part of the
	// poster's street contribution.
	for _, p := range h.MissingSmallBlinds {
		if pos, ok := st.index[p.ID]; ok {
			st.committed[pos] = st.committed[pos].Add(h.SmallBlindSize.Mul(st.m))
		}
	}
}

func (st *handState) blind(pos int, amount decimal.Decimal) {
	st.history.BlindsOrStraddles[pos] = amount.InexactFloat64()
	st.contributions[pos] = amount
}

func (st *handState) deal(ev logline.BoardEvent) {
	cards := boardCards(ev.Cards)
	if cards == "" {
		return
	}
	if ev.Street.IsSecondRun() {
		st.history.Actions = append(st.history.Actions, "# second run: d db "+cards)
		return
	}
	st.closeStreet()
	st.history.Actions = append(st.history.Actions, "d db "+cards)
}

func (st *handState) closeStreet() {
	for i, c := range st.contributions {
		st.committed[i] = st.committed[i].Add(c)
		st.contributions[i] = decimal.Zero
	}
}

func (st *handState) action(a logline.Action) {
	pos, ok := st.index[a.PlayerID]
	if !ok {
		return
	}
	player := fmt.Sprintf("p%d", pos+1)
	v := a.Verbs

	switch {
	case v.Has(logline.Straddle):
		amount := a.StraddleAmount().Mul(st.m)
		st.history.BlindsOrStraddles[pos] = amount.InexactFloat64()
		st.contributions[pos] = amount
	case v.Has(logline.Fold):
		st.emit("%s f", player)
	case v.Has(logline.Check):
		st.emit("%s cc", player)
	case v.Has(logline.Call):
		st.contributions[pos] = a.CallAmount().Mul(st.m)
		st.emit("%s cc", player)
	case v.Has(logline.Raise):
		amount := a.RaiseAmount().Mul(st.m)
		st.contributions[pos] = amount
		st.emit("%s cbr %s", player, amount.String())
	case v.Has(logline.Bet):
		amount := a.BetAmount().Mul(st.m)
		st.contributions[pos] = amount
		st.emit("%s cbr %s", player, amount.String())
	case v.Has(logline.Show):
		st.emit("%s sm %s", player, holeCards(a.ShownCards()))
	case v.Has(logline.Collect):
		won := a.Collected().Amount.Mul(st.m)
		st.winnings[pos] = st.winnings[pos].Add(won)
	}
}

func (st *handState) emit(format string, args ...any) {
	st.history.Actions = append(st.history.Actions, fmt.Sprintf(format, args...))
}

func (st *handState) finish() {
	n := len(st.starting)
	st.history.StartingStacks = make([]float64, n)
	st.history.FinishingStacks = make([]float64, n)
	st.history.Winnings = make([]float64, n)
	for i := range st.starting {
		finishing := st.starting[i].Sub(st.committed[i]).Add(st.returned[i]).Add(st.winnings[i])
		st.history.StartingStacks[i] = st.starting[i].InexactFloat64()
		st.history.FinishingStacks[i] = finishing.InexactFloat64()
		st.history.Winnings[i] = st.winnings[i].InexactFloat64()
	}
}

func populateTimeFields(hist *HandHistory, loc *time.Location) {
	t := hist.Timestamp
	if t.IsZero() {
		return
	}
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	hist.Time = local.Format("15:04:05")
	hist.TimeZone = loc.String()
	hist.TimeZoneAbbrev = local.Format("MST")
	hist.Day = local.Day()
	hist.Month = int(local.Month())
	hist.Year = local.Year()
}
