package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type Handler struct {
	BookingService *booking.BookingService
	Logger         *logger.Logger
}

func NewHandler(bookingService *booking.BookingService) *Handler {
	return &Handler{
		BookingService: bookingService,
		Logger:         logger.NewLogger(),
	}
}

// RegisterRoutes mounts the booking endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/bookings/quote", h.Quote)
	r.Post("/bookings", h.PlaceBooking)
	r.Get("/bookings/{bookingId}", h.GetBooking)
	r.Post("/bookings/{bookingId}/confirm", h.ConfirmBooking)
	r.Delete("/bookings/{bookingId}", h.CancelBooking)
	r.Get("/users/{userId}/bookings", h.GetBookingsByUser)
	r.Get("/users/me/profile", h.GetProfile)
	r.Put("/users/me/profile", h.UpdateProfile)
}

// callerID resolves the authenticated user from the bearer token.
func callerID(r *http.Request) (string, error) {
	tokenString, err := auth.ExtractTokenFromRequest(r)
	if err != nil {
		return "", err
	}
	return auth.ExtractUserIDFromJWT(tokenString)
}

// quoteRequestFromBody maps the wire request onto the service request,
// parsing the date strings.
func quoteRequestFromBody(req models.BookingRequest) (booking.QuoteRequest, error) {
	out := booking.QuoteRequest{
		Kind:       req.Kind,
		RoomID:     req.RoomID,
		VehicleID:  req.VehicleID,
		TourID:     req.TourID,
		SeatLabels: req.SeatLabels,
		Guests:     req.Guests,
		CouponCode: req.CouponCode,
	}
	if req.CheckIn != "" {
		t, err := time.Parse("2006-01-02", req.CheckIn)
		if err != nil {
			return out, fmt.Errorf("invalid check_in date: %w", err)
		}
		out.CheckIn = t
	}
	if req.CheckOut != "" {
		t, err := time.Parse("2006-01-02", req.CheckOut)
		if err != nil {
			return out, fmt.Errorf("invalid check_out date: %w", err)
		}
		out.CheckOut = t
	}
	return out, nil
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Quote: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	quoteReq, err := quoteRequestFromBody(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fare, err := h.BookingService.Quote(quoteReq)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Quote: %v", err))
		http.Error(w, "Quote failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fare)
}

func (h *Handler) PlaceBooking(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "PlaceBooking: received request")

	userID, err := callerID(r)
	if err != nil {
		http.Error(w, "Authorization required: "+err.Error(), http.StatusUnauthorized)
		return
	}

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("PlaceBooking: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	quoteReq, err := quoteRequestFromBody(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.BookingService.PlaceBooking(userID, quoteReq)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PlaceBooking: %v", err))
		status := http.StatusBadRequest
		if errors.Is(err, booking.ErrSeatsUnavailable) || errors.Is(err, booking.ErrSeatsLocked) || errors.Is(err, booking.ErrRoomUnavailable) {
			status = http.StatusConflict
		}
		http.Error(w, "Booking failed: "+err.Error(), status)
		return
	}

	h.Logger.LogAPI(r.Method, r.URL.Path, "201", "")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.BookingResponse{
		BookingID: b.BookingID,
		Status:    b.Status,
		Fare: models.FareBreakdown{
			Base:       b.Base,
			Tax:        b.Tax,
			Discount:   b.Discount,
			Total:      b.Base + b.Tax,
			FinalTotal: b.FinalTotal,
			TaxPercent: b.TaxPercent,
			TaxLabel:   b.TaxLabel,
		},
	})
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("GetBooking: bookingId=%s", bookingID))

	b, err := h.BookingService.GetBooking(bookingID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetBooking: booking not found: %v", err))
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(b)
}

func (h *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("ConfirmBooking: bookingId=%s", bookingID))

	b, err := h.BookingService.ConfirmBooking(bookingID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ConfirmBooking: %v", err))
		status := http.StatusInternalServerError
		if errors.Is(err, booking.ErrNotPending) {
			status = http.StatusConflict
		}
		http.Error(w, "Could not confirm booking: "+err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(b)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("CancelBooking: bookingId=%s", bookingID))

	if err := h.BookingService.CancelBooking(bookingID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CancelBooking: %v", err))
		status := http.StatusInternalServerError
		if errors.Is(err, booking.ErrNotActive) {
			status = http.StatusConflict
		}
		http.Error(w, "Could not cancel booking: "+err.Error(), status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		http.Error(w, "Authorization required: "+err.Error(), http.StatusUnauthorized)
		return
	}

	user, err := h.BookingService.GetUserProfile(userID)
	if err != nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		http.Error(w, "Authorization required: "+err.Error(), http.StatusUnauthorized)
		return
	}

	var profile models.User
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.BookingService.UpdateUserProfile(userID, profile)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateProfile: %v", err))
		http.Error(w, "Could not save profile: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *Handler) GetBookingsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	bookings, err := h.BookingService.GetBookingsByUser(userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetBookingsByUser: %v", err))
		http.Error(w, "Failed to retrieve bookings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}
