package http

import (
	"net/http"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/service"
)

func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req BookRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	period, err := domain.ParseDateRange(req.Start, req.End)
	if err != nil {
		writeError(w, r, err)
		return
	}

	reservation, err := h.svc.Bookings.Book(r.Context(), caller, service.BookingRequest{
		VehicleID:    req.VehicleID,
		Period:       period,
		DiscountCode: discountCode(req.DiscountCode),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

// ListReservations returns the caller's rentals, or with ?as=owner the
// bookings made on the caller's vehicles.
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var (
		list []domain.Reservation
		err  error
	)
	switch r.URL.Query().Get("as") {
	case "", "renter":
		list, err = h.svc.Bookings.ListRentals(r.Context(), caller)
	case "owner":
		list, err = h.svc.Bookings.ListLendings(r.Context(), caller)
	default:
		err = domain.NewValidationError("as", "must be renter or owner")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Reservation{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	reservation, err := h.svc.Bookings.GetReservation(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *Handler) Rebook(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req RebookRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	period, err := domain.ParseDateRange(req.Start, req.End)
	if err != nil {
		writeError(w, r, err)
		return
	}

	reservation, err := h.svc.Bookings.Rebook(r.Context(), caller, id, period, discountCode(req.DiscountCode))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoice, err := h.svc.Bookings.Invoice(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}
