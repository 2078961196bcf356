package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/wordladder/internal/errors"
	"github.com/vytor/wordladder/internal/logger"
	"github.com/vytor/wordladder/internal/services"
)

// Pinger reports database reachability for readiness probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	ScheduleService services.ScheduleService
	DeckService     services.DeckService
	SessionService  services.SessionService
	CardService     services.CardService
	DB              Pinger
	AllowedOrigins  []string
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid " + name + ": " + raw)
	}
	return id, nil
}
