package http

import (
	"errors"
	"net/http"

	"rentfleet-backend/internal/domain"
)

func (h *Handler) PublishLocation(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req LocationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sample, err := h.svc.Locations.Publish(r.Context(), caller, id, *req.Lat, *req.Lng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, sample)
}

func (h *Handler) CurrentLocation(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sample, err := h.svc.Locations.Current(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

// ActiveReservation tells a renter whether they may share their position for
// the vehicle today.
func (h *Handler) ActiveReservation(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	reservation, err := h.svc.Locations.ActiveReservation(r.Context(), caller, id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ActiveReservationResponse{Active: true, Reservation: reservation})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusOK, ActiveReservationResponse{Active: false})
	default:
		writeError(w, r, err)
	}
}
