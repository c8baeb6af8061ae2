package cli

import (
	"fmt"
	"sort"

	"arena/internal/config"
	"arena/internal/domain"
	"arena/internal/export"
	"arena/internal/timeslot"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *Context) error {
	cfg, err := config.LoadCourtsConfig(ctx.CourtsPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "%s: %d courts OK\n", ctx.CourtsPath, len(cfg.Courts))
	for _, cc := range cfg.Courts {
		fmt.Fprintf(ctx.Out, "  %s (%s) %s\n", cc.Name, cc.Sport, cc.BasePrice.StringFixed(2))
	}
	return nil
}

type QueryCmd struct {
	Court string `arg:"" help:"Court name."`
	Date  string `arg:"" help:"Date (YYYY-MM-DD or 'today')."`
	Start string `arg:"" help:"Start time (HH:MM)."`
	End   string `arg:"" help:"End time (HH:MM)."`
}

func (c *QueryCmd) Run(ctx *Context) error {
	ct, err := ctx.loadCourt(c.Court)
	if err != nil {
		return err
	}
	date, err := ctx.date(c.Date)
	if err != nil {
		return err
	}
	iv, err := timeslot.New(c.Start, c.End)
	if err != nil {
		return err
	}

	res := ctx.engine().Query(ct, date, iv)
	fmt.Fprintf(ctx.Out, "%s %s %s: %s, price %s (%s)\n",
		ct.Name, date.Format(domain.DateLayout), iv, describe(res), res.Price.StringFixed(2), res.Applied.Type)
	return nil
}

type GridCmd struct {
	Court string `arg:"" help:"Court name."`
	Date  string `arg:"" help:"Date (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *GridCmd) Run(ctx *Context) error {
	ct, err := ctx.loadCourt(c.Court)
	if err != nil {
		return err
	}
	date, err := ctx.date(c.Date)
	if err != nil {
		return err
	}

	cells := ctx.engine().DayGrid(ct, date)
	fmt.Fprintf(ctx.Out, "%s on %s:\n", ct.Name, date.Format(domain.DateLayout))
	if len(cells) == 0 {
		fmt.Fprintln(ctx.Out, "  closed")
		return nil
	}
	for _, cell := range cells {
		fmt.Fprintf(ctx.Out, "  %s  %-24s %s\n", cell.Slot, describe(cell.Result), cell.Price.StringFixed(2))
	}
	return nil
}

type ConflictsCmd struct {
	Court string `arg:"" help:"Court name."`
}

func (c *ConflictsCmd) Run(ctx *Context) error {
	ct, err := ctx.loadCourt(c.Court)
	if err != nil {
		return err
	}

	found := 0
	for _, wd := range domain.Weekdays {
		day, err := ct.Week.Day(wd)
		if err != nil {
			return err
		}
		blocks := ct.Recurring.ConflictsWithTemplate(wd, day)
		sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Slot.Start < blocks[j].Slot.Start })
		for _, b := range blocks {
			found++
			fmt.Fprintf(ctx.Out, "%s %s %s outside the template\n", domain.WeekdayKey(wd), b.Slot, b.Customer)
		}
	}
	if found == 0 {
		fmt.Fprintln(ctx.Out, "no conflicts")
	}
	return nil
}

type ExportCmd struct {
	Court string `arg:"" help:"Court name."`
	Date  string `help:"Grid date (YYYY-MM-DD or 'today')." default:"today"`
	Out   string `help:"Output file; defaults to a generated name in the current directory." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	ct, err := ctx.loadCourt(c.Court)
	if err != nil {
		return err
	}
	date, err := ctx.date(c.Date)
	if err != nil {
		return err
	}

	now := ctx.Clock.Now()
	wb, err := export.CourtWorkbook(ct, now, date, ctx.engine().DayGrid(ct, date))
	if err != nil {
		return err
	}
	defer wb.Close()

	path := c.Out
	if path == "" {
		path = export.Filename(ct, now)
	}
	if err := wb.SaveToFile(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	fmt.Fprintf(ctx.Out, "wrote %s\n", path)
	return nil
}
