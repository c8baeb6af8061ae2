package api

import (
	"fmt"
	"net/http"
	"time"

	"arena/internal/availability"
	"arena/internal/domain"
	"arena/internal/export"
	"arena/internal/metrics"
	"arena/internal/timeslot"
)

func (s *HTTPServer) handleQuery(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("query")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req queryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	date, err := parseDate(req.Date, s.location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// An unparsable time still gets an answer; the engine reports it as an invalid query.
	iv, _ := timeslot.New(req.Start, req.End)
	res, err := s.svc.Query(r.Context(), id, date, iv)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("quote")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	date, err := parseDate(q.Get("date"), s.location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	iv, err := timeslot.New(q.Get("start"), q.Get("end"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	quote, err := s.svc.Quote(r.Context(), id, date, iv)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *HTTPServer) handleGrid(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("grid")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	cells, err := s.svc.DayGrid(r.Context(), id, date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if cells == nil {
		cells = []availability.Cell{}
	}
	writeJSON(w, http.StatusOK, gridResponse{Date: date.Format(domain.DateLayout), Cells: cells})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	c, cells, err := s.svc.GridSnapshot(r.Context(), id, date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	now := s.svc.Now()
	wb, err := export.CourtWorkbook(c, now, date, cells)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	defer wb.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(c, now)))
	if err := wb.Save(w); err != nil {
		s.logger.Error().Err(err).Int64("court_id", id).Msg("failed to stream workbook")
	}
}

// dateParam reads ?date=, defaulting to today in the server location.
func (s *HTTPServer) dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return domain.DateOnly(s.svc.Now().In(s.location)), true
	}
	date, err := parseDate(v, s.location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	return date, true
}
