package http

import (
	"net/http"

	"rentfleet-backend/internal/domain"
)

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	size, err := queryInt(r, "page_size", 20)
	if err != nil {
		writeError(w, r, err)
		return
	}

	vehicles, total, err := h.svc.Vehicles.ListVehicles(r.Context(), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	writeJSON(w, http.StatusOK, ListVehiclesResponse{Vehicles: vehicles, Total: total, Page: page, PageSize: size})
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req VehicleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	vehicle := req.toDomain()
	if err := h.svc.Vehicles.CreateVehicle(r.Context(), caller, vehicle); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *Handler) ListMyVehicles(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	vehicles, err := h.svc.Vehicles.ListMyVehicles(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	vehicle, err := h.svc.Vehicles.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req VehicleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	vehicle := req.toDomain()
	vehicle.ID = id
	if err := h.svc.Vehicles.UpdateVehicle(r.Context(), caller, vehicle); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Vehicles.DeleteVehicle(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckAvailability answers from the reservation ledger only.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	period, err := domain.ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	available, err := h.svc.Availability.IsAvailable(r.Context(), id, period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityResponse{VehicleID: id, Period: period, Available: available})
}

func (h *Handler) QuoteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req QuoteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	period, err := domain.ParseDateRange(req.Start, req.End)
	if err != nil {
		writeError(w, r, err)
		return
	}

	quote, err := h.svc.Bookings.Quote(r.Context(), id, period, discountCode(req.DiscountCode))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
