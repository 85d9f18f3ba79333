// Package csvlog reads PokerNow log exports.
package csvlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lox/pn2ps/internal/hand"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("csvlog: missing column")

var columns = [...]string{"entry", "at", "order"}

// Read parses a CSV export with an "entry,at,order" header. Columns are
// located by name. Rows are returned in file order, which PokerNow writes
// newest first.
func Read(r io.Reader) ([]hand.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csvlog: header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}
	var pos [len(columns)]int
	for i, name := range columns {
		p, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		pos[i] = p
	}

	var records []hand.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvlog: row %d: %w", line, err)
		}
		records = append(records, hand.Record{
			Entry: field(row, pos[0]),
			At:    field(row, pos[1]),
			Order: field(row, pos[2]),
		})
	}
	return records, nil
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
