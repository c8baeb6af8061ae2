package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"arena/internal/cli"
	"arena/internal/clock"
)

var CLI struct {
	Version  kong.VersionFlag
	Courts   string `help:"Courts seed file." type:"path" default:"configs/courts.yaml" env:"ARENA_COURTS_PATH"`
	Timezone string `help:"IANA timezone for dates." default:"UTC" env:"ARENA_TIMEZONE"`
	At       string `help:"Evaluate as of this RFC3339 instant instead of now."`

	Validate  cli.ValidateCmd  `cmd:"" help:"Validate the seed file."`
	Query     cli.QueryCmd     `cmd:"" help:"Check one interval of a court."`
	Grid      cli.GridCmd      `cmd:"" help:"Print the half-hour grid of a day."`
	Conflicts cli.ConflictsCmd `cmd:"" help:"List recurring reservations outside the template."`
	Export    cli.ExportCmd    `cmd:"" help:"Write a court workbook (xlsx)."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("arenactl"),
		kong.Description("Offline availability and pricing checks for a courts seed file"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	loc, err := time.LoadLocation(CLI.Timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var clk clock.Clock = clock.System{Location: loc}
	if CLI.At != "" {
		at, err := time.Parse(time.RFC3339, CLI.At)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: --at: %v\n", err)
			os.Exit(1)
		}
		clk = clock.Fixed(at.In(loc))
	}

	appCtx := &cli.Context{
		CourtsPath: CLI.Courts,
		Location:   loc,
		Clock:      clk,
		Out:        os.Stdout,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
