// Package cli implements arenactl, which evaluates a courts seed file offline.
package cli

import (
	"fmt"
	"io"
	"time"

	"arena/internal/availability"
	"arena/internal/clock"
	"arena/internal/config"
	"arena/internal/court"
	"arena/internal/domain"
)

type Context struct {
	CourtsPath string
	Location   *time.Location
	Clock      clock.Clock
	Out        io.Writer
}

func (ctx *Context) engine() *availability.Engine {
	return availability.NewEngine(ctx.Clock)
}

// loadCourt builds the named court from the seed file.
func (ctx *Context) loadCourt(name string) (court.Court, error) {
	cfg, err := config.LoadCourtsConfig(ctx.CourtsPath)
	if err != nil {
		return court.Court{}, err
	}
	cc, ok := cfg.Find(name)
	if !ok {
		return court.Court{}, fmt.Errorf("%w: %q", domain.ErrUnknownCourt, name)
	}
	return cc.Build(ctx.Location)
}

func (ctx *Context) date(s string) (time.Time, error) {
	if s == "" || s == "today" {
		return domain.DateOnly(ctx.Clock.Now().In(ctx.Location)), nil
	}
	d, err := domain.ParseDate(s, ctx.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD or 'today': %w", err)
	}
	return d, nil
}

func describe(res availability.Result) string {
	if res.Available {
		return "available"
	}
	out := string(res.Reason)
	if res.Customer != "" {
		out += " (" + res.Customer + ")"
	}
	return out
}
