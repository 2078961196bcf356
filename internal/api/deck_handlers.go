package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vytor/wordladder/internal/errors"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/services"
)

// parseDeckFilter reads ?archived=, ?due=, ?limit= and ?offset=.
func parseDeckFilter(r *http.Request, userID int64) (models.DeckFilter, error) {
	q := r.URL.Query()
	filter := models.DeckFilter{UserID: userID}

	if raw := q.Get("archived"); raw != "" {
		archived, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.NewBadRequestError("invalid archived: " + raw)
		}
		filter.Archived = &archived
	}
	if raw := q.Get("due"); raw != "" {
		due, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.NewBadRequestError("invalid due: " + raw)
		}
		if due {
			now := time.Now().UTC()
			filter.DueBefore = &now
		}
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, errors.NewBadRequestError("invalid " + name + ": " + raw)
		}
		*dst = n
	}
	return filter, nil
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDeckFilter(r, userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	decks, err := s.DeckService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if decks == nil {
		decks = []models.Deck{}
	}
	writeJSON(w, r, http.StatusOK, decks)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var in services.DeckInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.Create(r.Context(), userFromContext(r.Context()), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	detail, err := s.DeckService.Get(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.DeckService.Delete(r.Context(), userFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangeDeckSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var body struct {
		ScheduleID int64 `json:"schedule_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	if body.ScheduleID <= 0 {
		handleError(w, r, errors.NewValidationError("schedule_id", "required"))
		return
	}
	deck, err := s.DeckService.ChangeSchedule(r.Context(), userFromContext(r.Context()), id, body.ScheduleID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var sub services.ReviewSubmission
	if err := decodeJSON(r, &sub); err != nil {
		handleError(w, r, err)
		return
	}
	outcome, err := s.DeckService.SubmitReview(r.Context(), userFromContext(r.Context()), id, sub)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("review submitted: deck_id=%d, level=%d", id, outcome.Level)
	writeJSON(w, r, http.StatusOK, outcome)
}

func (s *Server) handleRestartDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.DeckService.Restart(r.Context(), userFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
