// Package convert runs the build and render passes over a whole log.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pn2ps/internal/hand"
	"github.com/lox/pn2ps/internal/phh"
	"github.com/lox/pn2ps/internal/render"
)

// ErrRemoteNotImplemented is returned when a table URL is given instead of a
// log file.
var ErrRemoteNotImplemented = errors.New("table url is not implemented")

// Format selects the output grammar.
type Format string

const (
	FormatPokerStars Format = "pokerstars"
	FormatPHH        Format = "phh"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPokerStars, FormatPHH:
		return f, nil
	case "":
		return FormatPokerStars, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Options configure a Converter.
type Options struct {
	Hero       string
	Multiplier decimal.Decimal
	Table      string
	Site       string
	Formatter  render.Formatter
	Location   *time.Location
	Format     Format
	SeatCount  int
	NameRemap  map[string]string

	// Limit caps the number of hands written, oldest first. <= 0 means all.
	Limit int
	// Workers bounds concurrent rendering. <= 0 means GOMAXPROCS.
	Workers int

	Logger zerolog.Logger
	Clock  quartz.Clock
}

// Converter turns log records into hand histories.
type Converter struct {
	opts Options
}

// New returns a Converter with defaults applied.
func New(opts Options) *Converter {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Format == "" {
		opts.Format = FormatPokerStars
	}
	return &Converter{opts: opts}
}

// Convert builds every hand in records and writes them to w in
// chronological order. Nothing is written when the log cannot be built.
// It returns the number of hands written.
func (c *Converter) Convert(ctx context.Context, records []hand.Record, w io.Writer) (int, error) {
	start := c.opts.Clock.Now()

	hands, err := hand.Build(records, hand.Options{
		Logger:    c.opts.Logger,
		NameRemap: c.opts.NameRemap,
		SeatCount: c.opts.SeatCount,
	})
	if err != nil {
		return 0, err
	}
	if c.opts.Limit > 0 && len(hands) > c.opts.Limit {
		hands = hands[:c.opts.Limit]
	}

	blocks := make([][]byte, len(hands))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, h := range hands {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := c.block(h, i+1)
			if err != nil {
				return fmt.Errorf("hand #%d: %w", h.Number, err)
			}
			blocks[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, b := range blocks {
		if _, err := w.Write(b); err != nil {
			return 0, fmt.Errorf("write: %w", err)
		}
	}

	c.opts.Logger.Info().
		Int("records", len(records)).
		Int("hands", len(hands)).
		Str("format", string(c.opts.Format)).
		Dur("elapsed", c.opts.Clock.Since(start)).
		Msg("converted log")
	return len(hands), nil
}

func (c *Converter) block(h *hand.Hand, section int) ([]byte, error) {
	switch c.opts.Format {
	case FormatPHH:
		var buf bytes.Buffer
		hist := phh.FromHand(h, phh.Options{
			Hero:       c.opts.Hero,
			Multiplier: c.opts.Multiplier,
			Table:      c.opts.Table,
			Location:   c.opts.Location,
		})
		if err := phh.WriteHand(&buf, section, hist); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatPokerStars:
		lines := render.Render(h, render.Options{
			Hero:       c.opts.Hero,
			Multiplier: c.opts.Multiplier,
			Table:      c.opts.Table,
			Site:       c.opts.Site,
			Formatter:  c.opts.Formatter,
			Location:   c.opts.Location,
		})
		return []byte(strings.Join(lines, "\n") + "\n"), nil
	default:
		return nil, fmt.Errorf("unknown format %q", c.opts.Format)
	}
}

// FetchTable downloads a table's log from PokerNow. Not supported yet.
func FetchTable(ctx context.Context, url string) ([]hand.Record, error) {
	return nil, fmt.Errorf("%w: %s", ErrRemoteNotImplemented, url)
}
