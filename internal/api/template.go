package api

import (
	"net/http"

	"arena/internal/domain"
	"arena/internal/metrics"
)

func (s *HTTPServer) handleSetDayOpen(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("set_day_open")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wd, ok := weekdayParam(w, r)
	if !ok {
		return
	}
	var req dayOpenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	c, err := s.svc.SetDayOpen(r.Context(), id, wd, *req.Open)
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleAddSlot(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("add_slot")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wd, ok := weekdayParam(w, r)
	if !ok {
		return
	}
	var req slotRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	iv, err := req.interval()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	slot, err := s.svc.AddSlot(r.Context(), id, wd, iv)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

func (s *HTTPServer) handleUpdateSlot(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("update_slot")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wd, ok := weekdayParam(w, r)
	if !ok {
		return
	}
	var req slotRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	iv, err := req.interval()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	c, err := s.svc.UpdateSlot(r.Context(), id, wd, r.PathValue("slotID"), iv)
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleRemoveSlot(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("remove_slot")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wd, ok := weekdayParam(w, r)
	if !ok {
		return
	}
	c, err := s.svc.RemoveSlot(r.Context(), id, wd, r.PathValue("slotID"))
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleCopyDay(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("copy_day")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, ok := weekdayParam(w, r)
	if !ok {
		return
	}
	var req copyDayRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	to, err := domain.ParseWeekday(req.To)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	c, err := s.svc.CopyDay(r.Context(), id, from, to)
	s.respondCourt(w, http.StatusOK, c, err)
}
