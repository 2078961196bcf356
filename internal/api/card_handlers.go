package api

import (
	"net/http"

	"github.com/vytor/wordladder/internal/models"
)

func (s *Server) handleHardCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.CardService.HardCards(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleMarkHard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CardIDs []int64 `json:"card_ids"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.CardService.MarkHard(r.Context(), userFromContext(r.Context()), body.CardIDs); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
