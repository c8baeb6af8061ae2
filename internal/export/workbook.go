package export

import (
	"fmt"
	"strings"
	"time"

	"arena/internal/availability"
	"arena/internal/court"
	"arena/internal/domain"
)

const (
	SheetCourt         = "Court"
	SheetTemplate      = "Template"
	SheetRecurring     = "Recurring"
	SheetSpecialPrices = "Special prices"
	SheetPromotions    = "Promotions"
	SheetAddons        = "Add-ons"
	SheetGrid          = "Grid"
)

// CourtWorkbook writes every rule layer of c, one sheet per layer. When grid is not nil a sheet
// with the evaluated day grid of gridDate is appended.
func CourtWorkbook(c court.Court, now time.Time, gridDate time.Time, grid []availability.Cell) (*Writer, error) {
	w, err := NewWriter()
	if err != nil {
		return nil, err
	}
	steps := []func() error{
		func() error { return writeDetails(w, c, now) },
		func() error { return writeTemplate(w, c) },
		func() error { return writeRecurring(w, c) },
		func() error { return writeSpecialPrices(w, c) },
		func() error { return writePromotions(w, c) },
		func() error { return writeAddons(w, c) },
	}
	if grid != nil {
		steps = append(steps, func() error { return writeGrid(w, gridDate, grid) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			w.Close()
			return nil, err
		}
	}
	return w, nil
}

func writeDetails(w *Writer, c court.Court, now time.Time) error {
	if err := w.Sheet(SheetCourt, "Field", "Value"); err != nil {
		return err
	}
	rows := [][2]any{
		{"ID", c.ID},
		{"Name", c.Name},
		{"Sport", c.Sport},
		{"Base price", c.BasePrice},
		{"Status", string(c.Status(now))},
		{"Block reason", c.Block.Reason},
		{"Reopen at", c.Block.ScheduledReopenAt},
		{"Updated at", c.UpdatedAt},
		{"Version", c.Version},
	}
	for _, r := range rows {
		if err := w.Row(r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeTemplate(w *Writer, c court.Court) error {
	if err := w.Sheet(SheetTemplate, "Weekday", "Open", "Slot ID", "Start", "End"); err != nil {
		return err
	}
	for _, wd := range domain.Weekdays {
		day, err := c.Week.Day(wd)
		if err != nil {
			return err
		}
		if len(day.Slots) == 0 {
			if err := w.Row(wd, day.Open); err != nil {
				return err
			}
			continue
		}
		for _, s := range day.Slots {
			if err := w.Row(wd, day.Open, s.ID, s.Start, s.End); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRecurring(w *Writer, c court.Court) error {
	if err := w.Sheet(SheetRecurring, "ID", "Customer", "Weekday", "Slot", "Valid from", "Valid to"); err != nil {
		return err
	}
	for _, b := range c.Recurring.Blocks {
		if err := w.Row(b.ID, b.Customer, b.Weekday, b.Slot, b.ValidFrom, b.ValidTo); err != nil {
			return err
		}
	}
	return nil
}

func writeSpecialPrices(w *Writer, c court.Court) error {
	if err := w.Sheet(SheetSpecialPrices, "ID", "Weekday", "Slot", "Kind", "Value"); err != nil {
		return err
	}
	for _, p := range c.Pricing.SpecialPrices {
		if err := w.Row(p.ID, p.Weekday, p.Slot, string(p.Kind), p.Value); err != nil {
			return err
		}
	}
	return nil
}

func writePromotions(w *Writer, c court.Court) error {
	if err := w.Sheet(SheetPromotions, "ID", "Name", "Kind", "Value", "Start date", "End date", "Weekdays", "Slots", "Active"); err != nil {
		return err
	}
	for _, p := range c.Pricing.Promotions {
		days := make([]string, len(p.Weekdays))
		for i, wd := range p.Weekdays {
			days[i] = domain.WeekdayKey(wd)
		}
		slots := make([]string, len(p.Slots))
		for i, s := range p.Slots {
			slots[i] = s.String()
		}
		if err := w.Row(p.ID, p.Name, string(p.Kind), p.Value, p.StartDate, p.EndDate,
			strings.Join(days, ", "), strings.Join(slots, ", "), p.Active); err != nil {
			return err
		}
	}
	return nil
}

func writeAddons(w *Writer, c court.Court) error {
	if err := w.Sheet(SheetAddons, "Name", "Price", "Enabled"); err != nil {
		return err
	}
	for _, a := range c.Addons {
		if err := w.Row(a.Name, a.Price, a.Enabled); err != nil {
			return err
		}
	}
	return nil
}

func writeGrid(w *Writer, date time.Time, grid []availability.Cell) error {
	if err := w.Sheet(SheetGrid, "Date", "Slot", "Available", "Reason", "Customer", "Price", "Rule"); err != nil {
		return err
	}
	for _, cell := range grid {
		if err := w.Row(date, cell.Slot, cell.Available, string(cell.Reason), cell.Customer,
			cell.Price, string(cell.Applied.Type)); err != nil {
			return err
		}
	}
	return nil
}

// Filename suggests a file name for the workbook of c.
func Filename(c court.Court, now time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, c.Name)
	return fmt.Sprintf("court_%d_%s_%s.xlsx", c.ID, name, now.Format("20060102"))
}
