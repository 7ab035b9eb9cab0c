package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/logger"
)

type Handler struct {
	Service *PaymentService
	Logger  *logger.Logger
}

func NewHandler(service *PaymentService) *Handler {
	return &Handler{
		Service: service,
		Logger:  logger.NewLogger(),
	}
}

// RegisterRoutes mounts the payment endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/payments/intent", h.CreatePaymentIntent)
	r.Post("/payments/webhook", h.StripeWebhook)
}

func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookingID string `json:"booking_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.BookingID == "" {
		http.Error(w, "booking_id is required", http.StatusBadRequest)
		return
	}

	intent, err := h.Service.CreatePaymentIntent(req.BookingID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreatePaymentIntent: %v", err))
		http.Error(w, "Failed to create payment intent: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"payment_intent_id": intent.ID,
		"client_secret":     intent.ClientSecret,
	})
}

func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.HandleWebhook(r); err != nil {
		var werr *WebhookError
		if errors.As(err, &werr) {
			http.Error(w, werr.PublicError, werr.StatusCode)
			return
		}
		http.Error(w, "Webhook processing error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
