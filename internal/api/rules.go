package api

import (
	"net/http"

	"arena/internal/domain"
	"arena/internal/metrics"
	"arena/internal/recurring"
)

func (s *HTTPServer) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_recurring")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.svc.GetCourt(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	blocks := c.Recurring.Blocks
	if blocks == nil {
		blocks = []recurring.Block{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recurring": blocks})
}

func (s *HTTPServer) handleAddRecurring(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("add_recurring")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req recurringRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	b, err := req.block(s.location)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	added, err := s.svc.AddRecurring(r.Context(), id, b)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *HTTPServer) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("update_recurring")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req recurringRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	b, err := req.block(s.location)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	c, err := s.svc.UpdateRecurring(r.Context(), id, r.PathValue("ruleID"), b)
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleRemoveRecurring(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("remove_recurring")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.svc.RemoveRecurring(r.Context(), id, r.PathValue("ruleID"))
	s.respondCourt(w, http.StatusOK, c, err)
}

// handleRecurringConflicts lists reservations outside the template, for one weekday when
// ?weekday= is given and keyed by weekday otherwise.
func (s *HTTPServer) handleRecurringConflicts(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("recurring_conflicts")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if v := r.URL.Query().Get("weekday"); v != "" {
		wd, err := domain.ParseWeekday(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		blocks, err := s.svc.RecurringConflicts(r.Context(), id, wd)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"conflicts": map[string][]recurring.Block{domain.WeekdayKey(wd): nonNil(blocks)},
		})
		return
	}

	all, err := s.svc.AllRecurringConflicts(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make(map[string][]recurring.Block, len(all))
	for wd, blocks := range all {
		out[domain.WeekdayKey(wd)] = blocks
	}
	writeJSON(w, http.StatusOK, map[string]any{"conflicts": out})
}

func nonNil(blocks []recurring.Block) []recurring.Block {
	if blocks == nil {
		return []recurring.Block{}
	}
	return blocks
}

func (s *HTTPServer) handleBlock(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("block")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req blockRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	c, err := s.svc.Block(r.Context(), id, req.ReopenAt, req.Reason)
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleUnblock(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("unblock")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.svc.Unblock(r.Context(), id)
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleAddSpecialPrice(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("add_special_price")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req specialPriceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	rule, err := req.rule()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	added, err := s.svc.AddSpecialPrice(r.Context(), id, rule)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *HTTPServer) handleUpdateSpecialPrice(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("update_special_price")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req specialPriceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	rule, err := req.rule()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	c, err := s.svc.UpdateSpecialPrice(r.Context(), id, r.PathValue("ruleID"), rule)
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleRemoveSpecialPrice(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("remove_special_price")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.svc.RemoveSpecialPrice(r.Context(), id, r.PathValue("ruleID"))
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleAddPromotion(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("add_promotion")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req promotionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	rule, err := req.rule(s.location)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	added, err := s.svc.AddPromotion(r.Context(), id, rule)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *HTTPServer) handleUpdatePromotion(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("update_promotion")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req promotionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	rule, err := req.rule(s.location)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	c, err := s.svc.UpdatePromotion(r.Context(), id, r.PathValue("ruleID"), rule)
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleSetPromotionActive(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("set_promotion_active")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req activeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validateRequest(w, req) {
		return
	}
	c, err := s.svc.SetPromotionActive(r.Context(), id, r.PathValue("ruleID"), *req.Active)
	s.respondCourt(w, http.StatusOK, c, err)
}

func (s *HTTPServer) handleRemovePromotion(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("remove_promotion")
	id, err := courtID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.svc.RemovePromotion(r.Context(), id, r.PathValue("ruleID"))
	s.respondCourt(w, http.StatusOK, c, err)
}
