package api

import (
	"fmt"
	"net/http"
	"time"

	"arena/internal/availability"
	"arena/internal/court"
	"arena/internal/domain"
	"arena/internal/pricing"
	"arena/internal/recurring"
	"arena/internal/timeslot"

	"github.com/shopspring/decimal"
)

type courtRequest struct {
	Name      string          `json:"name" validate:"required,min=3,max=120"`
	Sport     string          `json:"sport" validate:"required,max=60"`
	BasePrice decimal.Decimal `json:"base_price"`
}

type slotRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

func (r slotRequest) interval() (timeslot.Interval, error) {
	return timeslot.New(r.Start, r.End)
}

type dayOpenRequest struct {
	Open *bool `json:"open" validate:"required"`
}

type copyDayRequest struct {
	To string `json:"to" validate:"required"`
}

type recurringRequest struct {
	Customer  string `json:"customer" validate:"max=120"`
	Weekday   string `json:"weekday" validate:"required"`
	Start     string `json:"start" validate:"required"`
	End       string `json:"end" validate:"required"`
	ValidFrom string `json:"valid_from,omitempty"`
	ValidTo   string `json:"valid_to,omitempty"`
}

func (r recurringRequest) block(loc *time.Location) (recurring.Block, error) {
	wd, err := domain.ParseWeekday(r.Weekday)
	if err != nil {
		return recurring.Block{}, err
	}
	iv, err := timeslot.New(r.Start, r.End)
	if err != nil {
		return recurring.Block{}, err
	}
	from, err := optionalDate(r.ValidFrom, loc)
	if err != nil {
		return recurring.Block{}, err
	}
	to, err := optionalDate(r.ValidTo, loc)
	if err != nil {
		return recurring.Block{}, err
	}
	return recurring.Block{Customer: r.Customer, Weekday: wd, Slot: iv, ValidFrom: from, ValidTo: to}, nil
}

type blockRequest struct {
	ReopenAt *time.Time `json:"reopen_at,omitempty"`
	Reason   string     `json:"reason" validate:"max=500"`
}

type specialPriceRequest struct {
	Weekday string          `json:"weekday" validate:"required"`
	Start   string          `json:"start" validate:"required"`
	End     string          `json:"end" validate:"required"`
	Kind    string          `json:"kind" validate:"required,oneof=fixed percent"`
	Value   decimal.Decimal `json:"value"`
}

func (r specialPriceRequest) rule() (pricing.SpecialPrice, error) {
	wd, err := domain.ParseWeekday(r.Weekday)
	if err != nil {
		return pricing.SpecialPrice{}, err
	}
	iv, err := timeslot.New(r.Start, r.End)
	if err != nil {
		return pricing.SpecialPrice{}, err
	}
	return pricing.SpecialPrice{Weekday: wd, Slot: iv, Kind: pricing.Kind(r.Kind), Value: r.Value}, nil
}

type promotionRequest struct {
	Name      string          `json:"name" validate:"required,min=3,max=120"`
	Kind      string          `json:"kind" validate:"required,oneof=fixed percent"`
	Value     decimal.Decimal `json:"value"`
	StartDate string          `json:"start_date" validate:"required"`
	EndDate   string          `json:"end_date" validate:"required"`
	Weekdays  []string        `json:"weekdays" validate:"required,min=1,dive,required"`
	Slots     []slotRequest   `json:"slots" validate:"required,min=1,dive"`
	Active    *bool           `json:"active,omitempty"`
}

func (r promotionRequest) rule(loc *time.Location) (pricing.Promotion, error) {
	start, err := parseDate(r.StartDate, loc)
	if err != nil {
		return pricing.Promotion{}, err
	}
	end, err := parseDate(r.EndDate, loc)
	if err != nil {
		return pricing.Promotion{}, err
	}
	p := pricing.Promotion{
		Name:      r.Name,
		Kind:      pricing.Kind(r.Kind),
		Value:     r.Value,
		StartDate: start,
		EndDate:   end,
		Active:    r.Active == nil || *r.Active,
	}
	for _, s := range r.Weekdays {
		wd, err := domain.ParseWeekday(s)
		if err != nil {
			return pricing.Promotion{}, err
		}
		p.Weekdays = append(p.Weekdays, wd)
	}
	for _, s := range r.Slots {
		iv, err := s.interval()
		if err != nil {
			return pricing.Promotion{}, err
		}
		p.Slots = append(p.Slots, iv)
	}
	return p, nil
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type addonRequest struct {
	Name    string          `json:"name" validate:"required,max=60"`
	Price   decimal.Decimal `json:"price"`
	Enabled bool            `json:"enabled"`
}

type addonsRequest struct {
	Addons []addonRequest `json:"addons" validate:"dive"`
}

func (r addonsRequest) addons() []court.Addon {
	out := make([]court.Addon, 0, len(r.Addons))
	for _, a := range r.Addons {
		out = append(out, court.Addon{Name: a.Name, Price: a.Price, Enabled: a.Enabled})
	}
	return out
}

type queryRequest struct {
	Date  string `json:"date" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

type courtsResponse struct {
	Courts []court.Court `json:"courts"`
}

type gridResponse struct {
	Date  string              `json:"date"`
	Cells []availability.Cell `json:"cells"`
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := domain.ParseDate(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidDateRange, s)
	}
	return d, nil
}

func optionalDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDate(s, loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// weekdayParam parses the {weekday} path value, writing a 400 on failure.
func weekdayParam(w http.ResponseWriter, r *http.Request) (time.Weekday, bool) {
	wd, err := domain.ParseWeekday(r.PathValue("weekday"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return wd, true
}
