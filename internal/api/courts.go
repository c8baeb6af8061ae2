package api

import (
	"net/http"
	"strconv"

	"arena/internal/court"
	"arena/internal/metrics"
	"arena/internal/service"
)

func (s *HTTPServer) respondCourt(w http.ResponseWriter, status int, c court.Court, err error) {
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, status, c)
}

func (s *HTTPServer) handleListCourts(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_courts")
	q := r.URL.Query()
	f := court.Filter{
		Search: q.Get("search"),
		Sport:  q.Get("sport"),
		Status: court.StatusFilter(q.Get("status")),
		Sort:   court.SortOrder(q.Get("sort")),
	}
	switch f.Status {
	case court.StatusAny, court.StatusAvailable, court.StatusBlocked:
	default:
		writeError(w, http.StatusBadRequest, "status must be available or blocked")
		return
	}

	courts, err := s.svc.ListCourts(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if courts == nil {
		courts = []court.Court{}
	}
	writeJSON(w, http.StatusOK, courtsResponse{Courts: courts})
}

func (s *HTTPServer) handleCreateCourt(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_court")
	var req courtRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	c, err := s.svc.CreateCourt(r.Context(), service.CourtDetails{Name: req.Name, Sport: req.Sport, BasePrice: req.BasePrice})
	s.respondCourt(w, http.StatusCreated, c, err)
}

func (s *HTTPServer) handleGetCourt(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("get_court")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.svc.GetCourt(r.Context(), id)
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleUpdateCourt(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("update_court")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req courtRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	c, err := s.svc.UpdateDetails(r.Context(), id, service.CourtDetails{Name: req.Name, Sport: req.Sport, BasePrice: req.BasePrice})
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleDeleteCourt(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("delete_court")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.DeleteCourt(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleDuplicateCourt(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("duplicate_court")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.svc.DuplicateCourt(r.Context(), id)
	s.respondCourt(w, http.StatusCreated, c, err)
}

func (s *HTTPServer) handleSetAddons(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("set_addons")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req addonsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	c, err := s.svc.SetAddons(r.Context(), id, req.addons())
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleChanges(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_changes")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.changes == nil {
		writeError(w, http.StatusNotFound, "change log disabled")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	if _, err := s.svc.GetCourt(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	changes, err := s.changes.ListChanges(r.Context(), id, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changes": changes})
}
