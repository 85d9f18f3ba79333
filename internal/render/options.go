// Package render writes built hands as PokerStars-style hand histories.
package render

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formatter renders a (multiplied) amount for display.
type Formatter func(decimal.Decimal) string

// Currency formats amounts with two decimals behind the given symbol.
func Currency(symbol string) Formatter {
	return func(d decimal.Decimal) string {
		return symbol + d.StringFixed(2)
	}
}

// Plain formats amounts with two decimals and no symbol.
func Plain(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Defaults used when an Options field is left zero.
const (
	DefaultTable = "DGen"
	DefaultSite  = "PokerStars"
)

// Options control how a hand is rendered.
type Options struct {
	// Hero is the name the hole cards are dealt to.
	Hero string
	// Multiplier scales every amount. Zero means 1.
	Multiplier decimal.Decimal
	// Table is the table name in the header. Empty means DefaultTable.
	Table string
	// Site prefixes "Hand #" in the header; empty prints no prefix.
	Site string
	// Formatter renders amounts. Nil means Currency("$").
	Formatter Formatter
	// Location is the zone dates are printed in. Nil means UTC.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.Multiplier.IsZero() {
		o.Multiplier = decimal.NewFromInt(1)
	}
	if o.Table == "" {
		o.Table = DefaultTable
	}
	if o.Formatter == nil {
		o.Formatter = Currency("$")
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}
