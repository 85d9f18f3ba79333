package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lox/pn2ps/internal/card"
	"github.com/lox/pn2ps/internal/hand"
	"github.com/lox/pn2ps/internal/logline"
)

const dateLayout = "2006/01/02 15:04:05"

// seatState is the renderer's copy of a seat; the Hand itself is never
// written to while rendering.
type seatState struct {
	summary    string
	preFlopBet bool
	shown      []card.Card
	won        decimal.Decimal
}

// replay walks a hand's raw lines and produces its history.
type replay struct {
	h    *hand.Hand
	opts Options
	out  []string

	// street is empty before the flop. isFirst is false preflop since the
	// blinds have already opened the betting.
	street      string
	preFlop     bool
	isFirst     bool
	currentBet  decimal.Decimal
	previous    map[string]decimal.Decimal
	totalPot    decimal.Decimal
	uncalled    *logline.Uncalled
	holeCards   bool
	showdown    bool
	secondShown bool
	seats       map[string]*seatState
}

// Render produces the PokerStars-style history of h, one line per element,
// ending with an empty line. h is not modified.
func Render(h *hand.Hand, opts Options) []string {
	r := newReplay(h, opts.withDefaults())
	r.header()
	last := len(h.RawLines) - 1
	for i, line := range h.RawLines {
		r.line(line)
		if i == last {
			r.summary()
		}
	}
	return r.out
}

func newReplay(h *hand.Hand, opts Options) *replay {
	r := &replay{
		h:        h,
		opts:     opts,
		preFlop:  true,
		previous: make(map[string]decimal.Decimal, len(h.Players)),
		seats:    make(map[string]*seatState, len(h.Seats)),
	}
	for _, p := range h.Players {
		r.previous[p.ID] = decimal.Zero
	}
	if h.SmallBlind != nil {
		r.previous[h.SmallBlind.ID] = r.scale(h.SmallBlindSize)
	}
	r.currentBet = r.scale(h.BigBlindSize)
	for _, p := range h.BigBlinds {
		r.previous[p.ID] = r.currentBet
	}
	for _, s := range h.Seats {
		if s.Player == nil {
			continue
		}
		r.seats[s.Player.ID] = &seatState{
			summary:    s.Summary,
			preFlopBet: s.PreFlopBet,
			shown:      s.ShownHand,
		}
	}
	return r
}

func (r *replay) emit(format string, args ...any) {
	r.out = append(r.out, fmt.Sprintf(format, args...))
}

func (r *replay) scale(d decimal.Decimal) decimal.Decimal {
	return d.Mul(r.opts.Multiplier)
}

func (r *replay) money(d decimal.Decimal) string {
	return r.opts.Formatter(d)
}

func (r *replay) seat(id string) *seatState {
	st, ok := r.seats[id]
	if !ok {
		st = &seatState{}
		r.seats[id] = st
	}
	return st
}

func (r *replay) header() {
	prefix := "Hand #"
	if r.opts.Site != "" {
		prefix = r.opts.Site + " Hand #"
	}
	r.emit("%s%d: Hold'em No Limit (%s/%s USD) - %s ET",
		prefix, r.h.ID,
		r.money(r.scale(r.h.SmallBlindSize)),
		r.money(r.scale(r.h.BigBlindSize)),
		r.h.Date.In(r.opts.Location).Format(dateLayout))
	seats := r.h.SeatCount
	if seats == 0 {
		seats = hand.DefaultSeatCount
	}
	r.emit("Table '%s' %d-max Seat #%d is the button", r.opts.Table, seats, r.h.ButtonSeat())
}

func (r *replay) line(line string) {
	switch ev := logline.Parse(line).(type) {
	case logline.StacksEvent:
		r.stacks()
	case logline.HoleCardsEvent:
		r.openHoleCards()
		r.emit("Dealt to %s [%s]", r.opts.Hero, cardsOrError(r.h.Hole))
	case logline.BoardEvent:
		r.deal(ev.Street)
	case logline.UncalledBetEvent:
		u := ev.Uncalled
		r.uncalled = &u
	case logline.ActionEvent:
		if ev.Verbs&logline.Voluntary != 0 {
			r.action(ev.Action)
		}
	}
}

func (r *replay) stacks() {
	for _, s := range r.h.Seats {
		if s.Player == nil {
			continue
		}
		r.emit("Seat %d: %s (%s in chips)", s.Number, s.Player.Name, r.money(r.scale(s.Player.Stack)))
	}
	if sb := r.h.SmallBlind; sb != nil {
		r.emit("%s: posts small blind %s%s", sb.Name, r.money(r.scale(r.h.SmallBlindSize)), r.blindAllIn(sb))
	}
	for _, bb := range r.h.BigBlinds {
		r.emit("%s: posts big blind %s%s", bb.Name, r.money(r.scale(r.h.BigBlindSize)), r.blindAllIn(bb))
	}
}

func (r *replay) openHoleCards() {
	if r.holeCards {
		return
	}
	r.holeCards = true
	r.emit("*** HOLE CARDS ***")
}

func (r *replay) deal(kind logline.Kind) {
	first := r.h.Board
	second := r.h.SecondRunBoard()
	switch kind {
	case logline.Flop:
		r.emit("*** FLOP *** [%s]", cardsOrError(first.Flop))
	case logline.Turn:
		r.emit("*** TURN *** [%s] [%s]", cardsOrError(first.Flop), cardOrError(first.Turn))
	case logline.River:
		r.emit("*** RIVER *** [%s] [%s]", cardsOrError(withTurn(first)), cardOrError(first.River))
	case logline.SecondFlop:
		r.emit("*** SECOND FLOP *** [%s]", cardsOrError(second.Flop))
	case logline.SecondTurn:
		r.emit("*** SECOND TURN *** [%s] [%s]", cardsOrError(second.Flop), cardOrError(second.Turn))
	case logline.SecondRiver:
		r.emit("*** SECOND RIVER *** [%s] [%s]", cardsOrError(withTurn(second)), cardOrError(second.River))
	default:
		return
	}
	r.newStreet(kind)
}

func (r *replay) newStreet(kind logline.Kind) {
	switch kind {
	case logline.Flop, logline.SecondFlop:
		r.street = "on the Flop"
	case logline.Turn, logline.SecondTurn:
		r.street = "on the Turn"
	case logline.River, logline.SecondRiver:
		r.street = "on the River"
	}
	r.preFlop = false
	r.isFirst = true
	r.currentBet = decimal.Zero
	for id := range r.previous {
		r.previous[id] = decimal.Zero
	}
}

func (r *replay) action(a logline.Action) {
	p := r.h.PlayerByID(a.PlayerID)
	if p == nil {
		return
	}
	r.openHoleCards()
	st := r.seat(p.ID)
	allIn := allInSuffix(a.Verbs.Has(logline.AllIn))

	if a.Verbs.Has(logline.Bet) {
		amount := r.scale(a.BetAmount())
		r.markBet(st)
		r.emit("%s: bets %s%s", p.Name, r.money(amount), allIn)
		r.currentBet = amount
		r.isFirst = false
		r.previous[p.ID] = amount
	}
	if a.Verbs.Has(logline.Straddle) {
		amount := r.scale(a.StraddleAmount())
		r.markBet(st)
		r.emit("%s: raises %s to %s%s", p.Name, r.money(amount.Sub(r.currentBet)), r.money(amount), allIn)
		r.currentBet = amount
		r.previous[p.ID] = amount
	}
	if a.Verbs.Has(logline.Raise) {
		amount := r.scale(a.RaiseAmount())
		r.markBet(st)
		if r.isFirst {
			r.emit("%s: bets %s%s", p.Name, r.money(amount), allIn)
			r.isFirst = false
		} else {
			r.emit("%s: raises %s to %s%s", p.Name, r.money(amount.Sub(r.currentBet)), r.money(amount), allIn)
		}
		r.currentBet = amount
		r.previous[p.ID] = amount
	}
	if a.Verbs.Has(logline.Call) {
		amount := r.scale(a.CallAmount())
		r.markBet(st)
		if r.isFirst {
			r.emit("%s: bets %s%s", p.Name, r.money(amount), allIn)
			r.currentBet = amount
			r.isFirst = false
		} else {
			r.emit("%s: calls %s%s", p.Name, r.money(amount.Sub(r.previous[p.ID])), allIn)
		}
		r.previous[p.ID] = amount
	}
	if a.Verbs.Has(logline.Check) {
		r.emit("%s: checks", p.Name)
	}
	if a.Verbs.Has(logline.Fold) {
		r.emit("%s: folds", p.Name)
		r.fold(p, st)
	}
	if a.Verbs.Has(logline.Show) {
		st.shown = a.ShownCards()
		r.emit("%s: shows [%s]", p.Name, cardsOrError(st.shown))
	}
	if a.Verbs.Has(logline.Collect) {
		r.collect(p, st, a.Collected())
	}
}

func (r *replay) blindAllIn(p *hand.Player) string {
	s := r.h.SeatOf(p.ID)
	return allInSuffix(s != nil && s.BlindAllIn)
}

func allInSuffix(allIn bool) string {
	if allIn {
		return " and is all-in"
	}
	return ""
}

func (r *replay) markBet(st *seatState) {
	if r.preFlop {
		st.preFlopBet = true
	}
}

func (r *replay) fold(p *hand.Player, st *seatState) {
	switch {
	case r.street == "":
		if st.preFlopBet {
			st.summary = p.Name + " folded before Flop"
		} else {
			st.summary = p.Name + " folded before Flop (didn't bet)"
		}
	default:
		st.summary = p.Name + " folded " + r.street
	}
}

func (r *replay) collect(p *hand.Player, st *seatState, c logline.Collection) {
	if c.Showdown {
		r.returnUncalled()
		if c.SecondRun {
			if !r.secondShown {
				r.secondShown = true
				r.emit("*** SECOND SHOW DOWN ***")
			}
		} else if !r.showdown {
			r.showdown = true
			r.emit("*** SHOW DOWN ***")
		}
		gained := r.compensated(c.Amount)
		r.totalPot = r.totalPot.Add(gained)
		st.won = st.won.Add(gained)
		st.summary = fmt.Sprintf("%s showed [] and won (%s) with %s", p.Name, r.money(st.won), c.Description)
		r.emit("%s collected %s from pot", p.Name, r.money(gained))
		return
	}

	var gained decimal.Decimal
	if r.foldedAroundPreFlop() {
		gained = r.scale(r.h.SmallBlindSize)
		r.uncalled = nil
		r.emit("Uncalled bet (%s) returned to %s", r.money(r.scale(r.h.BigBlindSize)), p.Name)
	} else {
		r.returnUncalled()
		gained = r.compensated(c.Amount)
	}
	r.totalPot = r.totalPot.Add(gained)
	st.won = st.won.Add(gained)
	st.summary = fmt.Sprintf("%s collected (%s)", p.Name, r.money(st.won))
	r.emit("%s collected %s from pot", p.Name, r.money(gained))
}

// compensated scales a collected amount and removes the missing small blinds
// PokerNow adds to every reported pot.
func (r *replay) compensated(amount decimal.Decimal) decimal.Decimal {
	return r.scale(amount).Sub(r.scale(r.h.MissingSmallBlindTotal()))
}

// foldedAroundPreFlop reports a hand that ended before the flop with only the
// blinds in the pot.
func (r *replay) foldedAroundPreFlop() bool {
	if r.h.Board.Flop != nil {
		return false
	}
	var sum decimal.Decimal
	for _, v := range r.previous {
		sum = sum.Add(v)
	}
	blinds := r.scale(r.h.SmallBlindSize.Add(r.h.BigBlindSize))
	return sum.Equal(blinds)
}

func (r *replay) returnUncalled() {
	u := r.uncalled
	r.uncalled = nil
	if u == nil || !u.Amount.IsPositive() {
		return
	}
	name := u.PlayerName
	if p := r.h.PlayerByID(u.PlayerID); p != nil {
		name = p.Name
	}
	r.emit("Uncalled bet (%s) returned to %s", r.money(r.scale(u.Amount)), name)
}

func (r *replay) summary() {
	r.emit("*** SUMMARY ***")
	r.emit("Total pot %s | Rake %s", r.money(r.totalPot), r.money(decimal.Zero))
	switch {
	case r.h.RanItTwice:
		r.emit("Hand was run twice")
		r.emit("FIRST Board [%s]", cardsOrError(r.h.Board.Cards()))
		r.emit("SECOND Board [%s]", cardsOrError(r.h.SecondRunBoard().Cards()))
	case !r.h.Board.Empty():
		r.emit("Board [%s]", cardsOrError(r.h.Board.Cards()))
	}
	button := r.h.ButtonSeat()
	for _, s := range r.h.Seats {
		if s.Player == nil {
			continue
		}
		r.emit("Seat %d: %s", s.Number, r.seatSummary(s, button))
	}
	r.emit("")
}

func (r *replay) seatSummary(s *hand.Seat, button int) string {
	p := s.Player
	st := r.seat(p.ID)
	label := p.Name
	if s.Number == button {
		label += " (button)"
	}
	if r.h.SmallBlind != nil && r.h.SmallBlind.ID == p.ID {
		label += " (small blind)"
	}
	if r.h.IsBigBlind(p.ID) {
		label += " (big blind)"
	}

	body := strings.TrimPrefix(st.summary, p.Name)
	switch {
	case st.shown != nil && strings.Contains(body, "[]"):
		body = strings.Replace(body, "[]", "["+cardsOrError(st.shown)+"]", 1)
	case st.shown != nil && st.summary == s.Summary:
		body = " showed [" + cardsOrError(st.shown) + "] and lost"
	case st.shown != nil:
		body += " [" + cardsOrError(st.shown) + "]"
	default:
		body = strings.Replace(body, " showed [] and", "", 1)
	}
	return label + body
}

func withTurn(b hand.Board) []card.Card {
	cards := append([]card.Card(nil), b.Flop...)
	if b.Turn != nil {
		cards = append(cards, *b.Turn)
	}
	return cards
}

func cardsOrError(cards []card.Card) string {
	if len(cards) == 0 {
		return card.Error.String()
	}
	return card.Join(cards)
}

func cardOrError(c *card.Card) string {
	if c == nil {
		return card.Error.String()
	}
	return c.String()
}
