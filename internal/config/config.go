// Package config loads pn2ps settings from an optional HCL file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"github.com/lox/pn2ps/internal/convert"
	"github.com/lox/pn2ps/internal/hand"
	"github.com/lox/pn2ps/internal/render"
)

// DefaultFilename is read when no --config flag is given.
const DefaultFilename = "pn2ps.hcl"

// NoCurrency disables the currency symbol in rendered amounts.
const NoCurrency = "none"

// Config is the contents of a pn2ps.hcl file.
type Config struct {
	Hero       string  `hcl:"hero,optional"`
	Multiplier float64 `hcl:"multiplier,optional"`
	Table      string  `hcl:"table,optional"`
	Seats      int     `hcl:"seats,optional"`
	Currency   string  `hcl:"currency,optional"`
	Timezone   string  `hcl:"timezone,optional"`
	Format     string  `hcl:"format,optional"`
	Site       string  `hcl:"site,optional"`
	Limit      int     `hcl:"limit,optional"`
	Workers    int     `hcl:"workers,optional"`
	Aliases    []Alias `hcl:"alias,block"`
}

// Alias renames a player, keyed by PokerNow id or by log name.
type Alias struct {
	Key  string `hcl:"key,label"`
	Name string `hcl:"name"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads an HCL config file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Multiplier == 0 {
		c.Multiplier = 1
	}
	if c.Table == "" {
		c.Table = render.DefaultTable
	}
	if c.Seats == 0 {
		c.Seats = hand.DefaultSeatCount
	}
	if c.Currency == "" {
		c.Currency = "$"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.Format == "" {
		c.Format = string(convert.FormatPokerStars)
	}
	if c.Site == "" {
		c.Site = render.DefaultSite
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be positive, got %v", c.Multiplier)
	}
	if c.Seats < 2 || c.Seats > 10 {
		return fmt.Errorf("seats must be between 2 and 10, got %d", c.Seats)
	}
	if _, err := convert.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	seen := make(map[string]bool, len(c.Aliases))
	for _, a := range c.Aliases {
		if a.Name == "" {
			return fmt.Errorf("alias %s: name must not be empty", a.Key)
		}
		if seen[a.Key] {
			return fmt.Errorf("alias %s: defined twice", a.Key)
		}
		seen[a.Key] = true
	}
	return nil
}

// NameRemap returns the aliases as a key to display-name map.
func (c *Config) NameRemap() map[string]string {
	if len(c.Aliases) == 0 {
		return nil
	}
	remap := make(map[string]string, len(c.Aliases))
	for _, a := range c.Aliases {
		remap[a.Key] = a.Name
	}
	return remap
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// MultiplierDecimal returns Multiplier as a decimal.
func (c *Config) MultiplierDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Multiplier)
}

// Formatter returns the amount formatter for Currency.
func (c *Config) Formatter() render.Formatter {
	if c.Currency == NoCurrency {
		return render.Plain
	}
	return render.Currency(c.Currency)
}
