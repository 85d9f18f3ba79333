package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/lox/pn2ps/internal/config"
	"github.com/lox/pn2ps/internal/convert"
	"github.com/lox/pn2ps/internal/csvlog"
	"github.com/lox/pn2ps/internal/fileutil"
	"github.com/lox/pn2ps/internal/hand"
)

// ErrNoLogData is returned when neither a file nor a table URL is given.
var ErrNoLogData = errors.New("no log data provided, please specify --filename")

// CLI is the pn2ps command line. Flags that are set override the config file.
type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`

	Hero       string  `arg:"" optional:"" help:"Your name in the log" env:"PN2PS_HERO"`
	Filename   string  `short:"f" help:"PokerNow log CSV export" env:"PN2PS_FILENAME"`
	TableURL   string  `name:"table-url" help:"PokerNow table URL to download" env:"PN2PS_TABLE_URL"`
	Limit      int     `help:"Maximum number of hands to convert (0 = all)" env:"PN2PS_LIMIT"`
	Multiplier float64 `help:"Multiply every amount by this value" env:"PN2PS_MULTIPLIER"`
	Name       string  `help:"Table name" env:"PN2PS_TABLE"`
	Seats      int     `help:"Table size (2-10)" env:"PN2PS_SEATS"`
	Format     string  `help:"Output format: pokerstars or phh" env:"PN2PS_FORMAT"`
	Output     string  `short:"o" help:"File to write to instead of stdout" env:"PN2PS_OUTPUT"`
	Workers    int     `help:"Hands rendered in parallel (0 = GOMAXPROCS)" env:"PN2PS_WORKERS"`
	Config     string  `help:"HCL config file" default:"${config_file}" env:"PN2PS_CONFIG"`
	Debug      bool    `short:"d" help:"Log every parsed hand event" env:"PN2PS_DEBUG"`
	JSONLogs   bool    `name:"json-logs" help:"Log as JSON" env:"PN2PS_JSON_LOGS"`

	stdout io.Writer
	stderr io.Writer
}

func (c *CLI) Run() error {
	stdout, stderr := c.stdout, c.stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := setupLogger(stderr, c.Debug, c.JSONLogs)

	cfgPath := c.Config
	if cfgPath == "" {
		cfgPath = config.DefaultFilename
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Hero == "" {
		return errors.New("hero name is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, err := c.records(ctx)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	format, err := convert.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	conv := convert.New(convert.Options{
		Hero:       cfg.Hero,
		Multiplier: cfg.MultiplierDecimal(),
		Table:      cfg.Table,
		Site:       cfg.Site,
		Formatter:  cfg.Formatter(),
		Location:   loc,
		Format:     format,
		SeatCount:  cfg.Seats,
		NameRemap:  cfg.NameRemap(),
		Limit:      cfg.Limit,
		Workers:    cfg.Workers,
		Logger:     logger,
	})

	if c.Output == "" {
		_, err := conv.Convert(ctx, records, stdout)
		return err
	}
	err = fileutil.WriteFileAtomicFrom(c.Output, 0o644, func(w io.Writer) error {
		_, err := conv.Convert(ctx, records, w)
		return err
	})
	if err != nil {
		return err
	}
	logger.Info().Str("output", c.Output).Msg("wrote hand histories")
	return nil
}

// apply overrides config values with the flags that were set.
func (c *CLI) apply(cfg *config.Config) {
	if c.Hero != "" {
		cfg.Hero = c.Hero
	}
	if c.Limit != 0 {
		cfg.Limit = c.Limit
	}
	if c.Multiplier != 0 {
		cfg.Multiplier = c.Multiplier
	}
	if c.Name != "" {
		cfg.Table = c.Name
	}
	if c.Seats != 0 {
		cfg.Seats = c.Seats
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	if c.Workers != 0 {
		cfg.Workers = c.Workers
	}
}

func (c *CLI) records(ctx context.Context) ([]hand.Record, error) {
	switch {
	case c.Filename != "":
		f, err := os.Open(filepath.Clean(c.Filename))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return csvlog.Read(f)
	case c.TableURL != "":
		return convert.FetchTable(ctx, c.TableURL)
	default:
		return nil, ErrNoLogData
	}
}
