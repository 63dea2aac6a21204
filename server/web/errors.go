package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/clubsphere/clubsphere/server/database"
)

// storeError maps store sentinels onto JSON error responses. Anything
// unrecognized is logged and answered with a 500.
func (h *handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		h.message(w, r, http.StatusNotFound, "Not found")
	case errors.Is(err, database.ErrAlreadyMember):
		h.message(w, r, http.StatusConflict, "Already a member of this club")
	case errors.Is(err, database.ErrAlreadyRegistered):
		h.message(w, r, http.StatusConflict, "Already registered for this event")
	case errors.Is(err, database.ErrAlreadyApplied):
		h.message(w, r, http.StatusConflict, "Application already submitted")
	case errors.Is(err, database.ErrEventFull):
		h.message(w, r, http.StatusConflict, "Event is full")
	case errors.Is(err, database.ErrAlreadyDecided):
		h.message(w, r, http.StatusConflict, "Already decided")
	default:
		slog.ErrorContext(r.Context(), "Unexpected store error", slog.Any("err", err))
		h.message(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
