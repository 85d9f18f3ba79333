package main

import (
	_ "time/tzdata"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/lox/pn2ps/internal/config"
)

// version is set by ldflags during build
var version = "dev"

func main() {
	_ = godotenv.Load(".env")

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pn2ps"),
		kong.Description("Convert PokerNow logs into PokerStars hand histories"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFilename,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
