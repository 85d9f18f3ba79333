package hand

import (
	"strconv"
	"strings"
	"time"
)

var fixtureStart = time.Date(2021, time.May, 1, 18, 0, 0, 0, time.UTC)

// recordsFromLog turns a chronological, newline separated log into records
// ordered newest first, one second apart, the way PokerNow exports them.
func recordsFromLog(log string) []Record {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(log), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	records := make([]Record, len(lines))
	for i, line := range lines {
		at := fixtureStart.Add(time.Duration(i) * time.Second)
		records[len(lines)-1-i] = Record{
			At:    at.Format("2006-01-02T15:04:05.000Z"),
			Entry: line,
			Order: strconv.FormatInt(at.UnixMilli()*100, 10),
		}
	}
	return records
}
