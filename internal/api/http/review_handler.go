package http

import (
	"net/http"

	"rentfleet-backend/internal/domain"
)

// ListReviews returns the reviews newest first together with the average.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	reviews, err := h.svc.Reviews.ListReviews(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := h.svc.Reviews.AverageRating(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, ReviewsResponse{Summary: summary, Reviews: reviews})
}

func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ReviewRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	review, err := h.svc.Reviews.SubmitReview(r.Context(), caller, id, req.Rating, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
