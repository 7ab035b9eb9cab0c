package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/catalog"
	"ms-booking/internal/logger"
)

type Handler struct {
	Service *catalog.CatalogService
	Logger  *logger.Logger
}

func NewHandler(service *catalog.CatalogService) *Handler {
	return &Handler{
		Service: service,
		Logger:  logger.NewLogger(),
	}
}

// RegisterRoutes mounts the catalog endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/hotels", h.ListHotels)
	r.Get("/hotels/{id}", h.GetHotel)
	r.Get("/hotels/{id}/rooms", h.GetHotelRooms)
	r.Get("/rooms/{id}/overrides", h.GetRoomOverrides)
	r.Get("/coupons/{code}", h.GetCoupon)
	r.Get("/vehicles", h.ListVehicles)
	r.Get("/vehicles/{id}", h.GetVehicle)
	r.Get("/vehicles/{id}/deck", h.GetVehicleDeck)
	r.Post("/vehicles/import", h.ImportVehicle)
	r.Get("/tours", h.ListTours)
	r.Get("/tours/{id}", h.GetTour)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) ListHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Service.ListHotels(r.URL.Query().Get("city"))
	if err != nil {
		http.Error(w, "Failed to list hotels: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, hotels)
}

func (h *Handler) GetHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Service.GetHotel(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Hotel not found: "+err.Error(), http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, hotel)
}

func (h *Handler) GetHotelRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Service.GetRoomsByHotel(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Failed to list rooms: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, rooms)
}

func (h *Handler) GetRoomOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.Service.GetOverridesForRoom(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Failed to list overrides: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, overrides)
}

// GetCoupon looks up a coupon by its public code. Unknown codes are a 404, not
// an error.
func (h *Handler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.Service.GetCouponByCode(chi.URLParam(r, "code"))
	if err != nil {
		http.Error(w, "Failed to look up coupon: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if coupon == nil {
		http.Error(w, "Coupon not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, coupon)
}

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Service.ListVehicles(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "Failed to list vehicles: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, vehicles)
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.Service.GetVehicle(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Vehicle not found: "+err.Error(), http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, vehicle)
}

// GetVehicleDeck returns the row/column seat grid the selection UI renders.
func (h *Handler) GetVehicleDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.Service.GetVehicleDeck(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Vehicle not found: "+err.Error(), http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, deck)
}

// ImportVehicle accepts a raw provider payload and stores the normalized
// vehicle record.
func (h *Handler) ImportVehicle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	vehicle, err := h.Service.ImportVehicle(body)
	if err != nil {
		http.Error(w, "Import failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusCreated, vehicle)
}

func (h *Handler) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.Service.ListTours()
	if err != nil {
		http.Error(w, "Failed to list tours: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, tours)
}

func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.Service.GetTour(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Tour not found: "+err.Error(), http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, tour)
}
