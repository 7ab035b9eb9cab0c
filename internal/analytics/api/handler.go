package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/analytics"
	"ms-booking/internal/logger"
)

type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

func NewHandler(service *analytics.Service) *Handler {
	return &Handler{
		Service: service,
		Logger:  logger.NewLogger(),
	}
}

// RegisterRoutes mounts the analytics endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics/revenue", h.GetRevenueSummary)
	r.Get("/analytics/daily-sales", h.GetDailySales)
	r.Get("/analytics/vehicles/{id}/occupancy", h.GetVehicleOccupancy)
	r.Get("/analytics/coupons", h.GetCouponUsage)
}

func (h *Handler) GetRevenueSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.GetRevenueSummary(r.Context())
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("GetRevenueSummary: %v", err))
		http.Error(w, "Failed to compute revenue summary: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (h *Handler) GetDailySales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Service.GetDailySales(r.Context())
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("GetDailySales: %v", err))
		http.Error(w, "Failed to compute daily sales: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sales)
}

func (h *Handler) GetVehicleOccupancy(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "id")
	occupancy, err := h.Service.GetVehicleOccupancy(r.Context(), vehicleID)
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("GetVehicleOccupancy: %v", err))
		http.Error(w, "Failed to compute occupancy: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(occupancy)
}

func (h *Handler) GetCouponUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.Service.GetCouponUsage(r.Context())
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("GetCouponUsage: %v", err))
		http.Error(w, "Failed to compute coupon usage: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(usage)
}
