package http

import (
	"net/http"

	"rentfleet-backend/internal/repository"
	"rentfleet-backend/internal/security"
	"rentfleet-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services holds everything the handlers call into
type Services struct {
	Vehicles     service.VehicleService
	Bookings     service.BookingService
	Availability service.AvailabilityIndex
	Locations    service.LocationService
	Reviews      service.ReviewService
	Offers       service.OfferService
	Store        repository.Pinger
}

// Handler serves the REST API
type Handler struct {
	svc *Services
}

// NewRouter wires every route under /api/v1 plus /healthz.
func NewRouter(svc *Services, tokens security.TokenManager) *mux.Router {
	h := &Handler{svc: svc}

	r := mux.NewRouter()
	r.Use(requestLogger)
	r.Use(newAuthMiddleware(tokens).handle)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Vehicles
	api.HandleFunc("/vehicles", h.ListVehicles).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", h.CreateVehicle).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/mine", h.ListMyVehicles).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", h.GetVehicle).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", h.UpdateVehicle).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{id}", h.DeleteVehicle).Methods(http.MethodDelete)
	api.HandleFunc("/vehicles/{id}/availability", h.CheckAvailability).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}/quote", h.QuoteVehicle).Methods(http.MethodPost)

	// Reviews
	api.HandleFunc("/vehicles/{id}/reviews", h.ListReviews).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}/reviews", h.SubmitReview).Methods(http.MethodPost)

	// Live location
	api.HandleFunc("/vehicles/{id}/location", h.PublishLocation).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id}/location", h.CurrentLocation).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}/location/active", h.ActiveReservation).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}/location/stream", h.StreamLocation).Methods(http.MethodGet)

	// Reservations
	api.HandleFunc("/reservations", h.Book).Methods(http.MethodPost)
	api.HandleFunc("/reservations", h.ListReservations).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", h.GetReservation).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}/rebook", h.Rebook).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/invoice", h.Invoice).Methods(http.MethodGet)

	// Offers
	api.HandleFunc("/offers", h.ListOffers).Methods(http.MethodGet)
	api.HandleFunc("/offers", h.CreateOffer).Methods(http.MethodPost)
	api.HandleFunc("/offers/{id}", h.GetOffer).Methods(http.MethodGet)
	api.HandleFunc("/offers/{id}", h.UpdateOffer).Methods(http.MethodPut)
	api.HandleFunc("/offers/{id}", h.DeleteOffer).Methods(http.MethodDelete)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.svc.Store != nil {
		if err := h.svc.Store.Ping(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
