package hand

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pn2ps/internal/card"
	"github.com/lox/pn2ps/internal/handid"
)

const twoHandLog = `
-- starting hand #1 (id: a1) No Limit Texas Hold'em (dealer: "Bob @ p2") --
Player stacks: #1 "Alice @ p1" (1000) | #2 "Bob @ p2" (1000)
"Alice @ p1" posts a small blind of 5
"Bob @ p2" posts a big blind of 10
Your hand is 10♥, A♠
"Alice @ p1" calls 10
"Bob @ p2" checks
Flop:  [A♠, K♥, 2♣]
"Alice @ p1" bets 20
"Bob @ p2" folds
Uncalled bet of 20 returned to "Alice @ p1"
"Alice @ p1" collected 20 from pot
-- ending hand #1 --
-- starting hand #2 (id: a2) No Limit Texas Hold'em (dealer: "Alice @ p1") --
Player stacks: #1 "Alice @ p1" (1010) | #2 "Bob @ p2" (990)
"Bob @ p2" posts a small blind of 5
"Alice @ p1" posts a big blind of 10
Your hand is 2♦, 7♣
"Bob @ p2" calls 10
"Alice @ p1" checks
Flop:  [Q♠, J♥, 3♣]
"Bob @ p2" bets 10
"Alice @ p1" folds
Uncalled bet of 10 returned to "Bob @ p2"
"Bob @ p2" collected 20 from pot
-- ending hand #2 --
`

func TestBuildSegmentsHands(t *testing.T) {
	hands, err := Build(recordsFromLog(twoHandLog), Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.Len(t, hands, 2)

	assert.Equal(t, 1, hands[0].Number)
	assert.Equal(t, 2, hands[1].Number)
	require.Len(t, hands[0].RawLines, 13)
	require.Len(t, hands[1].RawLines, 13)
	assert.Contains(t, hands[0].RawLines[0], "starting hand #1")
	assert.Equal(t, "-- ending hand #1 --", hands[0].RawLines[12])
	assert.Contains(t, hands[1].RawLines[0], "starting hand #2")
	assert.True(t, hands[0].Date.Before(hands[1].Date))
}

func TestBuildBlindAccounting(t *testing.T) {
	log := `
-- starting hand #7 (dealer: "Bob @ p2") --
Player stacks: #1 "Alice @ p1" (1000) | #2 "Bob @ p2" (1000)
"Alice @ p1" posts a small blind of 5
"Bob @ p2" posts a big blind of 10
`
	hands, err := Build(recordsFromLog(log), Options{})
	require.NoError(t, err)
	require.Len(t, hands, 1)
	h := hands[0]

	require.NotNil(t, h.SmallBlind)
	assert.Equal(t, "p1", h.SmallBlind.ID)
	require.Len(t, h.BigBlinds, 1)
	assert.Equal(t, "p2", h.BigBlinds[0].ID)
	assert.True(t, decimal.NewFromInt(5).Equal(h.SmallBlindSize))
	assert.True(t, decimal.NewFromInt(10).Equal(h.BigBlindSize))
	assert.Empty(t, h.MissingSmallBlinds)
	assert.True(t, h.SeatOf("p1").PreFlopBet)
	assert.True(t, h.SeatOf("p2").PreFlopBet)
}

func TestBuildPlayersAndSeats(t *testing.T) {
	hands, err := Build(recordsFromLog(twoHandLog), Options{})
	require.NoError(t, err)
	h := hands[0]

	require.Len(t, h.Players, 2)
	require.Len(t, h.Seats, 2)
	assert.Equal(t, 1, h.Seats[0].Number)
	assert.Same(t, h.Players[0], h.Seats[0].Player)
	assert.Equal(t, "Alice didn't show and lost", h.Seats[0].Summary)
	require.NotNil(t, h.Dealer)
	assert.Equal(t, "p2", h.Dealer.ID)
	assert.Equal(t, 2, h.ButtonSeat())
	assert.Equal(t, "Th As", card.Join(h.Hole))
	assert.Equal(t, "As Kh 2c", card.Join(h.Board.Flop))
	assert.Nil(t, h.Board.Turn)
	assert.Equal(t, "20", h.UncalledBet.String())
	assert.Equal(t, DefaultSeatCount, h.SeatCount)
}

func TestBuildHandID(t *testing.T) {
	hands, err := Build(recordsFromLog(twoHandLog), Options{})
	require.NoError(t, err)

	assert.Equal(t, handid.Derive("p2", fixtureStart), hands[0].ID)

	again, err := Build(recordsFromLog(twoHandLog), Options{})
	require.NoError(t, err)
	assert.Equal(t, hands[0].ID, again[0].ID)
	assert.Equal(t, hands[1].ID, again[1].ID)
	assert.NotEqual(t, hands[0].ID, hands[1].ID)
}

func TestBuildDeadButton(t *testing.T) {
	log := `
-- starting hand #3 (id: zz) (dead button) --
Player stacks: #4 "Alice @ p1" (1000) | #6 "Bob @ p2" (1000)
"Alice @ p1" posts a small blind of 5
"Bob @ p2" posts a big blind of 10
`
	hands, err := Build(recordsFromLog(log), Options{SeatCount: 6})
	require.NoError(t, err)
	h := hands[0]

	assert.Nil(t, h.Dealer)
	assert.Equal(t, handid.Derive(handid.DeadButton, fixtureStart), h.ID)
	assert.Equal(t, 3, h.ButtonSeat())
}

func TestButtonSeatWrapsToTableSize(t *testing.T) {
	log := `
-- starting hand #3 (dead button) --
Player stacks: #1 "Alice @ p1" (1000) | #2 "Bob @ p2" (1000)
"Alice @ p1" posts a small blind of 5
"Bob @ p2" posts a big blind of 10
`
	hands, err := Build(recordsFromLog(log), Options{SeatCount: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, hands[0].ButtonSeat())
}

func TestBuildMissingSmallBlindAndAllIn(t *testing.T) {
	log := `
-- starting hand #9 (dealer: "Carol @ p3") --
Player stacks: #1 "Alice @ p1" (3) | #2 "Bob @ p2" (1000) | #3 "Carol @ p3" (1000)
"Alice @ p1" posts a small blind of 3 and go all in
"Bob @ p2" posts a big blind of 10
"Carol @ p3" posts a missing small blind of 5
`
	hands, err := Build(recordsFromLog(log), Options{})
	require.NoError(t, err)
	h := hands[0]

	require.NotNil(t, h.SmallBlind)
	assert.Equal(t, "p1", h.SmallBlind.ID)
	require.Len(t, h.MissingSmallBlinds, 1)
	assert.Equal(t, "p3", h.MissingSmallBlinds[0].ID)
	// The missing small blind is posted last and sets the recorded size.
	assert.Equal(t, "5", h.SmallBlindSize.String())
	assert.Equal(t, "5", h.MissingSmallBlindTotal().String())

	assert.True(t, h.SeatOf("p1").BlindAllIn)
	assert.False(t, h.SeatOf("p2").BlindAllIn)
	assert.False(t, h.SeatOf("p3").BlindAllIn)
}

func TestBuildRecordsShownHands(t *testing.T) {
	log := `
-- starting hand #5 (dealer: "Bob @ p2") --
Player stacks: #1 "Alice @ p1" (1000) | #2 "Bob @ p2" (1000)
"Alice @ p1" posts a small blind of 5
"Bob @ p2" posts a big blind of 10
"Alice @ p1" calls 10
"Bob @ p2" checks
"Alice @ p1" shows a A♠, 10♥.
"Bob @ p2" collected 20 from pot with Pair, 2's (combination: 2♠, 2♥, A♥, K♦, 9♣)
-- ending hand #5 --
`
	hands, err := Build(recordsFromLog(log), Options{})
	require.NoError(t, err)

	assert.Equal(t, "As Th", card.Join(hands[0].SeatOf("p1").ShownHand))
	assert.Nil(t, hands[0].SeatOf("p2").ShownHand)
}

func TestBuildWarnsOnMismatchedEnding(t *testing.T) {
	log := `
-- starting hand #7 (dealer: "Alice @ p1") --
Player stacks: #1 "Alice @ p1" (1000) | #2 "Bob @ p2" (1000)
-- ending hand #8 --
`
	var buf bytes.Buffer
	hands, err := Build(recordsFromLog(log), Options{Logger: zerolog.New(&buf)})
	require.NoError(t, err)
	require.Len(t, hands, 1)
	assert.Contains(t, buf.String(), "ending line does not match open hand")
	assert.Contains(t, buf.String(), `"ending":8`)

	buf.Reset()
	_, err = Build(recordsFromLog(twoHandLog), Options{Logger: zerolog.New(&buf)})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "ending line does not match")
}

func TestBuildNameRemap(t *testing.T) {
	remap := map[string]string{"p1": "Hero", "Bob": "Villain"}
	hands, err := Build(recordsFromLog(twoHandLog), Options{NameRemap: remap})
	require.NoError(t, err)

	h := hands[0]
	assert.Equal(t, "Hero", h.Players[0].Name)
	assert.Equal(t, "Villain", h.Players[1].Name)
	assert.Equal(t, "Hero didn't show and lost", h.Seats[0].Summary)
}

func TestBuildRunItTwice(t *testing.T) {
	log := `
-- starting hand #5 (dealer: "Bob @ p2") --
Player stacks: #1 "Alice @ p1" (100) | #2 "Bob @ p2" (100)
"Alice @ p1" posts a small blind of 5
"Bob @ p2" posts a big blind of 10
"Alice @ p1" raises to 100 and go all in
"Bob @ p2" calls 100 and go all in
All players in hand choose to run it twice.
Flop:  [A♠, K♥, 2♣]
Turn: A♠, K♥, 2♣ [5♦]
River: A♠, K♥, 2♣, 5♦ [7♣]
Turn (second run): A♠, K♥, 2♣ [9♦]
River (second run): A♠, K♥, 2♣, 9♦ [4♣]
`
	hands, err := Build(recordsFromLog(log), Options{})
	require.NoError(t, err)
	h := hands[0]

	assert.True(t, h.RanItTwice)
	assert.Equal(t, "As Kh 2c 5d 7c", card.Join(h.Board.Cards()))
	assert.Nil(t, h.SecondBoard.Flop)
	assert.Equal(t, "As Kh 2c 9d 4c", card.Join(h.SecondRunBoard().Cards()))
}

func TestBuildBadCardDegrades(t *testing.T) {
	log := `
-- starting hand #5 (dealer: "Bob @ p2") --
Player stacks: #1 "Alice @ p1" (100) | #2 "Bob @ p2" (100)
Flop:  [A♠, X♥, 2♣]
Turn: A♠, X♥, 2♣ []
`
	hands, err := Build(recordsFromLog(log), Options{})
	require.NoError(t, err)
	h := hands[0]

	assert.Equal(t, "As Error 2c", card.Join(h.Board.Flop))
	require.NotNil(t, h.Board.Turn)
	assert.Equal(t, card.Error, *h.Board.Turn)
}

func TestBuildRejectsOldLogs(t *testing.T) {
	records := recordsFromLog(twoHandLog)
	old := OldestSupported.Add(-time.Hour).Format(time.RFC3339Nano)
	records[len(records)-1].At = old

	hands, err := Build(records, Options{})
	assert.True(t, errors.Is(err, ErrUnsupportedLog), "got %v", err)
	assert.Empty(t, hands)
}

func TestBuildRejectsLogNewestBeforeCutoff(t *testing.T) {
	records := recordsFromLog(twoHandLog)
	for i := range records {
		records[i].At = OldestSupported.Add(-time.Duration(i+1) * time.Minute).Format(time.RFC3339Nano)
	}

	hands, err := Build(records, Options{})
	require.ErrorIs(t, err, ErrUnsupportedLog)
	assert.Nil(t, hands)
}

func TestBuildFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		log  string
		want error
	}{
		{
			name: "line before first hand",
			log: `
"Alice @ p1" joined the table
-- starting hand #1 (dealer: "Alice @ p1") --
`,
			want: ErrNoOpenHand,
		},
		{
			name: "missing seat number",
			log: `
-- starting hand #1 (dealer: "Alice @ p1") --
Player stacks: "Alice @ p1" (1000)
`,
			want: ErrBadSeat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := Build(recordsFromLog(tt.log), Options{})
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, hands)
		})
	}
}

func TestBuildBadTimestamp(t *testing.T) {
	records := recordsFromLog(twoHandLog)
	records[0].At = "yesterday"

	_, err := Build(records, Options{})
	require.ErrorIs(t, err, ErrBadTimestamp)
}

func TestBuildEmpty(t *testing.T) {
	hands, err := Build(nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, hands)
}

func TestBuildKeepsUnrecognizedLines(t *testing.T) {
	log := `
-- starting hand #1 (dealer: "Alice @ p1") --
Player stacks: #1 "Alice @ p1" (1000) | #2 "Bob @ p2" (1000)
The admin updated the player "Bob @ p2" stack from 900 to 1000.
`
	hands, err := Build(recordsFromLog(log), Options{})
	require.NoError(t, err)
	assert.Len(t, hands[0].RawLines, 3)
}

func TestRepeatedStacksLineIsIgnored(t *testing.T) {
	log := `
-- starting hand #1 (dealer: "Alice @ p1") --
Player stacks: #1 "Alice @ p1" (1000) | #2 "Bob @ p2" (1000)
Player stacks: #1 "Alice @ p1" (1) | #2 "Bob @ p2" (1) | #3 "Carol @ p3" (1)
`
	hands, err := Build(recordsFromLog(log), Options{})
	require.NoError(t, err)
	assert.Len(t, hands[0].Seats, 2)
	assert.Equal(t, "1000", hands[0].Players[0].Stack.String())
}
