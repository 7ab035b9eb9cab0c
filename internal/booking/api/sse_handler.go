package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/auth"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/sse"
)

// SSEHandler streams booking status changes to connected clients.
type SSEHandler struct {
	Logger       *logger.Logger
	EventEmitter *sse.BookingEventEmitter
}

func NewSSEHandler(log *logger.Logger, emitter *sse.BookingEventEmitter) *SSEHandler {
	return &SSEHandler{
		Logger:       log,
		EventEmitter: emitter,
	}
}

// RegisterRoutes mounts the SSE endpoints on the given router.
func (h *SSEHandler) RegisterRoutes(r chi.Router) {
	r.Get("/events/bookings/{bookingId}", h.HandleBookingEvents)
	r.Get("/events/users/me", h.HandleUserEvents)
}

// HandleBookingEvents streams status changes for one booking.
func (h *SSEHandler) HandleBookingEvents(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		http.Error(w, "Booking ID is required", http.StatusBadRequest)
		return
	}

	h.setupSSEHeaders(w)
	ctx := r.Context()
	eventChan := h.EventEmitter.SubscribeToBooking(ctx, bookingID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"bookingID\":\"%s\"}\n\n", bookingID)
	w.(http.Flusher).Flush()

	h.Logger.Info("SSE", fmt.Sprintf("Client connected to booking events for: %s", bookingID))
	h.stream(w, ctx, eventChan, bookingID)
}

// HandleUserEvents streams every booking status change of the caller.
func (h *SSEHandler) HandleUserEvents(w http.ResponseWriter, r *http.Request) {
	token, err := auth.ExtractTokenFromRequest(r)
	if err != nil {
		http.Error(w, "Authorization required: "+err.Error(), http.StatusUnauthorized)
		return
	}
	userID, err := auth.ExtractUserIDFromJWT(token)
	if err != nil {
		http.Error(w, "Invalid token: "+err.Error(), http.StatusUnauthorized)
		return
	}

	h.setupSSEHeaders(w)
	ctx := r.Context()
	eventChan := h.EventEmitter.SubscribeToUser(ctx, userID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	w.(http.Flusher).Flush()

	h.Logger.Info("SSE", fmt.Sprintf("Client connected to user booking events for: %s", userID))
	h.stream(w, ctx, eventChan, userID)
}

func (h *SSEHandler) stream(w http.ResponseWriter, ctx context.Context, eventChan chan models.Booking, key string) {
	for {
		select {
		case booking, ok := <-eventChan:
			if !ok {
				h.Logger.Debug("SSE", fmt.Sprintf("Channel closed for: %s", key))
				return
			}

			jsonData, err := json.Marshal(booking)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize booking event: %v", err))
				continue
			}

			fmt.Fprintf(w, "event: booking\ndata: %s\n\n", jsonData)
			w.(http.Flusher).Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from: %s", key))
			return
		}
	}
}

func (h *SSEHandler) setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
