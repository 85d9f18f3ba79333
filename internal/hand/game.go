package hand

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// TimestampLayout is the format of a record's At column.
const TimestampLayout = time.RFC3339Nano

// OldestSupported is the earliest log timestamp whose line format is
// understood. PokerNow changed its export format before this instant.
var OldestSupported = time.Unix(1594731595, 0).UTC()

var (
	// ErrUnsupportedLog is returned for logs older than OldestSupported.
	ErrUnsupportedLog = errors.New("unsupported log format: the PokerNow file format has changed since this log was generated")
	// ErrBadTimestamp is returned when a record's At column cannot be parsed.
	ErrBadTimestamp = errors.New("cannot parse log date")
	// ErrNoOpenHand is returned when a line arrives before any hand started.
	ErrNoOpenHand = errors.New("line outside of a hand")
	// ErrBadSeat is returned for a stacks line with a missing seat number.
	ErrBadSeat = errors.New("invalid seat in stacks line")
)

// Options configure Build.
type Options struct {
	// Logger receives a debug trace of the reconstruction.
	Logger zerolog.Logger
	// NameRemap replaces display names, keyed by player id or by name.
	NameRemap map[string]string
	// SeatCount is the table size used for button wrap-around.
	SeatCount int
}

// Build reconstructs every hand in records, which must be newest first as
// exported. It fails for the whole log, returning no hands, if the log is
// too old or any line cannot be placed.
func Build(records []Record, opts Options) ([]*Hand, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if opts.SeatCount <= 0 {
		opts.SeatCount = DefaultSeatCount
	}

	oldest, err := ParseTimestamp(records[len(records)-1].At)
	if err != nil {
		return nil, err
	}
	if !oldest.After(OldestSupported) {
		return nil, fmt.Errorf("%w (oldest entry %s)", ErrUnsupportedLog, oldest.Format(time.RFC3339))
	}

	b := builder{logger: opts.Logger, nameRemap: opts.NameRemap, seatCount: opts.SeatCount}
	var st state
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		at, err := ParseTimestamp(rec.At)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.Order, err)
		}
		st, err = b.step(st, rec.Entry, at)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.Order, err)
		}
	}
	hands := st.close().done

	sort.SliceStable(hands, func(i, j int) bool {
		return hands[i].Date.Before(hands[j].Date)
	})
	opts.Logger.Debug().Int("hands", len(hands)).Int("records", len(records)).Msg("log rebuilt")
	return hands, nil
}

// ParseTimestamp parses a record's At column.
func ParseTimestamp(at string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrBadTimestamp, at, err)
	}
	return t, nil
}
