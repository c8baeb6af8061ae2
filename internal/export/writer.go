// Package export renders a court's rule set as an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"arena/internal/domain"
	"arena/internal/timeslot"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	maxSheetName = 31
	colWidth     = 16
)

// Writer lays out one table per sheet: a frozen header row followed by typed data rows.
type Writer struct {
	file  *excelize.File
	sheet string
	row   int

	headerStyle   int
	moneyStyle    int
	dateStyle     int
	dateTimeStyle int
}

func NewWriter() (*Writer, error) {
	w := &Writer{file: excelize.NewFile()}

	dateFmt := "yyyy-mm-dd"
	dateTimeFmt := "yyyy-mm-dd hh:mm"
	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&w.headerStyle, &excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		}},
		{&w.moneyStyle, &excelize.Style{NumFmt: 4}}, // #,##0.00
		{&w.dateStyle, &excelize.Style{CustomNumFmt: &dateFmt}},
		{&w.dateTimeStyle, &excelize.Style{CustomNumFmt: &dateTimeFmt}},
	}
	for _, s := range styles {
		id, err := w.file.NewStyle(s.style)
		if err != nil {
			w.file.Close()
			return nil, fmt.Errorf("create style: %w", err)
		}
		*s.dst = id
	}
	return w, nil
}

// Sheet starts a new sheet with the given header row and makes it current.
func (w *Writer) Sheet(name string, columns ...string) error {
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}

	if w.sheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	w.sheet = name
	w.row = 1

	if len(columns) == 0 {
		return nil
	}
	for i, col := range columns {
		if err := w.set(i+1, col); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := w.file.SetCellStyle(name, first, last, w.headerStyle); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := w.file.SetColWidth(name, "A", lastCol, colWidth); err != nil {
		return err
	}
	if err := w.file.SetPanes(name, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}
	w.row++
	return nil
}

// Row writes one data row. Decimals become money cells, times become date or date-time cells,
// weekdays and time ranges are written in their "monday" / "HH:MM-HH:MM" forms. A nil *time.Time
// leaves the cell empty.
func (w *Writer) Row(cells ...any) error {
	if w.sheet == "" {
		return fmt.Errorf("no active sheet")
	}
	for i, v := range cells {
		if err := w.set(i+1, v); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *Writer) set(col int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		return err
	}

	style := 0
	switch val := v.(type) {
	case decimal.Decimal:
		f, _ := val.Float64()
		if err := w.file.SetCellFloat(w.sheet, cell, f, -1, 64); err != nil {
			return err
		}
		style = w.moneyStyle
	case *time.Time:
		if val == nil {
			return nil
		}
		return w.set(col, *val)
	case time.Time:
		if err := w.file.SetCellValue(w.sheet, cell, val); err != nil {
			return err
		}
		style = w.dateTimeStyle
		if val.Equal(domain.DateOnly(val)) {
			style = w.dateStyle
		}
	case time.Weekday:
		return w.file.SetCellStr(w.sheet, cell, domain.WeekdayKey(val))
	case timeslot.Interval:
		return w.file.SetCellStr(w.sheet, cell, val.String())
	case timeslot.TimeOfDay:
		return w.file.SetCellStr(w.sheet, cell, val.String())
	default:
		return w.file.SetCellValue(w.sheet, cell, v)
	}
	return w.file.SetCellStyle(w.sheet, cell, cell, style)
}

// Save writes the workbook to wr.
func (w *Writer) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// SaveToFile writes the workbook to disk.
func (w *Writer) SaveToFile(path string) error {
	return w.file.SaveAs(path)
}

func (w *Writer) Close() error {
	return w.file.Close()
}
