package render

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lox/pn2ps/internal/hand"
)

var fixtureStart = time.Date(2021, time.May, 1, 18, 0, 0, 0, time.UTC)

// buildHands runs a chronological log through the build pass.
func buildHands(t *testing.T, log string) []*hand.Hand {
	t.Helper()
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(log), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	records := make([]hand.Record, len(lines))
	for i, line := range lines {
		at := fixtureStart.Add(time.Duration(i) * time.Second)
		records[len(lines)-1-i] = hand.Record{
			At:    at.Format("2006-01-02T15:04:05.000Z"),
			Entry: line,
			Order: strconv.Itoa(i),
		}
	}
	hands, err := hand.Build(records, hand.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	return hands
}

func buildHand(t *testing.T, log string) *hand.Hand {
	t.Helper()
	hands := buildHands(t, log)
	require.Len(t, hands, 1)
	return hands[0]
}
