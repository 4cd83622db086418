package http

import (
	"net/http"

	"rentfleet-backend/internal/domain"
)

func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	offers, err := h.svc.Offers.ListOffers(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if offers == nil {
		offers = []domain.Offer{}
	}
	writeJSON(w, http.StatusOK, offers)
}

func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req OfferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	offer, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Offers.CreateOffer(r.Context(), caller, offer); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	offer, err := h.svc.Offers.GetOffer(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (h *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req OfferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	offer, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	offer.ID = id
	if err := h.svc.Offers.UpdateOffer(r.Context(), caller, offer); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Offers.DeleteOffer(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
