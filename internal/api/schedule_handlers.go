package api

import (
	"net/http"
	"strconv"

	"github.com/vytor/wordladder/internal/errors"
	"github.com/vytor/wordladder/internal/services"
)

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.ScheduleService.List(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, schedules)
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var in services.ScheduleInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	created, err := s.ScheduleService.Create(r.Context(), userFromContext(r.Context()), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in services.ScheduleInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	updated, err := s.ScheduleService.Update(r.Context(), userFromContext(r.Context()), id, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var replacement int64
	if raw := r.URL.Query().Get("replacement"); raw != "" {
		replacement, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || replacement <= 0 {
			handleError(w, r, errors.NewBadRequestError("invalid replacement: "+raw))
			return
		}
	}

	if err := s.ScheduleService.Delete(r.Context(), userFromContext(r.Context()), id, replacement); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
