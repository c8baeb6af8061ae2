package availability

import (
	"time"

	"arena/internal/court"
	"arena/internal/timeslot"
)

// GridStep is the length of one day-grid cell in minutes.
const GridStep = 30

// Cell is one evaluated cell of the day grid.
type Cell struct {
	Slot timeslot.Interval `json:"slot"`
	Result
}

// DayGrid splits the open template of date into GridStep cells and evaluates each one.
// A closed day yields no cells.
func (e *Engine) DayGrid(c court.Court, date time.Time) []Cell {
	now := e.clock.Now()
	day, err := c.Week.Day(date.Weekday())
	if err != nil || !day.Open {
		return nil
	}

	var cells []Cell
	for _, window := range timeslot.Union(day.OpenIntervals()) {
		for _, slot := range timeslot.Grid(window, GridStep) {
			cells = append(cells, Cell{Slot: slot, Result: Evaluate(c, now, date, slot)})
		}
	}
	return cells
}
