package convert

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pn2ps/internal/hand"
)

const twoHandLog = `
-- starting hand #1 (dealer: "Bob @ p2") --
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
-- starting hand #2 (dealer: "Alice @ p1") --
Player stacks: #1 "Alice @ p1" (1010) | #2 "Bob @ p2" (990)
"Bob @ p2" posts a small blind of 5
"Alice @ p1" posts a big blind of 10
Your hand is 2♦, 7♣
"Bob @ p2" folds
Uncalled bet of 5 returned to "Alice @ p1"
"Alice @ p1" collected 10 from pot
-- ending hand #2 --
`

func records(log string) []hand.Record {
	start := time.Date(2021, time.May, 1, 18, 0, 0, 0, time.UTC)
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(log), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	out := make([]hand.Record, len(lines))
	for i, line := range lines {
		out[len(lines)-1-i] = hand.Record{
			At:    start.Add(time.Duration(i) * time.Second).Format(time.RFC3339Nano),
			Entry: line,
			Order: strconv.Itoa(i),
		}
	}
	return out
}

func TestConvertWritesHandsInOrder(t *testing.T) {
	var buf bytes.Buffer
	c := New(Options{Hero: "Alice", Site: "PokerStars", Clock: quartz.NewMock(t)})

	n, err := c.Convert(context.Background(), records(twoHandLog), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := buf.String()
	first := strings.Index(out, "Dealt to Alice [Th As]")
	second := strings.Index(out, "Dealt to Alice [2d 7c]")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
	assert.Equal(t, 2, strings.Count(out, "*** SUMMARY ***"))
	assert.True(t, strings.HasPrefix(out, "PokerStars Hand #"))
	assert.True(t, strings.HasSuffix(out, "\n\n"))
	assert.Contains(t, out, "folded on the Flop\n\nPokerStars Hand #")
}

func TestConvertIsDeterministicAcrossWorkers(t *testing.T) {
	var serial, parallel bytes.Buffer
	_, err := New(Options{Hero: "Alice", Workers: 1}).Convert(context.Background(), records(twoHandLog), &serial)
	require.NoError(t, err)
	_, err = New(Options{Hero: "Alice", Workers: 8}).Convert(context.Background(), records(twoHandLog), &parallel)
	require.NoError(t, err)

	assert.Equal(t, serial.String(), parallel.String())
}

func TestConvertLimit(t *testing.T) {
	var buf bytes.Buffer
	n, err := New(Options{Hero: "Alice", Limit: 1}).Convert(context.Background(), records(twoHandLog), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "Dealt to Alice [Th As]")
	assert.NotContains(t, buf.String(), "Dealt to Alice [2d 7c]")
}

func TestConvertPHH(t *testing.T) {
	var buf bytes.Buffer
	n, err := New(Options{Hero: "Alice", Format: FormatPHH, Table: "Home"}).Convert(context.Background(), records(twoHandLog), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[1]\nvariant = \"NT\"\n"))
	assert.Contains(t, out, "\n[2]\nvariant = \"NT\"\n")
	assert.Contains(t, out, `"d dh p1 ThAs"`)
	assert.Contains(t, out, `table = "Home"`)
}

func TestConvertFatalErrorWritesNothing(t *testing.T) {
	recs := records(twoHandLog)
	recs[0].At = "not a time"

	var buf bytes.Buffer
	n, err := New(Options{}).Convert(context.Background(), recs, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, hand.ErrBadTimestamp))
	assert.Zero(t, n)
	assert.Zero(t, buf.Len())
}

func TestConvertCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := New(Options{}).Convert(ctx, records(twoHandLog), &buf)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestConvertLogsSummary(t *testing.T) {
	var logs bytes.Buffer
	c := New(Options{Logger: zerolog.New(&logs), Clock: quartz.NewMock(t)})

	_, err := c.Convert(context.Background(), records(twoHandLog), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"hands":2`)
	assert.Contains(t, logs.String(), `"format":"pokerstars"`)
	assert.Contains(t, logs.String(), `"elapsed":0`)
	assert.Contains(t, logs.String(), `"message":"converted log"`)
}

func TestConvertEmptyLog(t *testing.T) {
	var buf bytes.Buffer
	n, err := New(Options{}).Convert(context.Background(), nil, &buf)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, buf.Len())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pokerstars", FormatPokerStars, false},
		{"PHH", FormatPHH, false},
		{"", FormatPokerStars, false},
		{"ipoker", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFetchTableNotImplemented(t *testing.T) {
	_, err := FetchTable(context.Background(), "https://www.pokernow.club/games/abc")
	assert.ErrorIs(t, err, ErrRemoteNotImplemented)
}
