package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

var ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")

// BookingFlow is the slice of the booking service the payment path drives.
type BookingFlow interface {
	GetBooking(id string) (*models.Booking, error)
	ConfirmBooking(id string) (*models.Booking, error)
	CancelBooking(id string) error
}

// PaymentService charges bookings through Stripe and settles them from
// webhook events.
type PaymentService struct {
	client   *client.API
	bookings BookingFlow
	log      *logger.Logger
}

func NewPaymentService(bookings BookingFlow, log *logger.Logger) (*PaymentService, error) {
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		log.Error("STRIPE", "STRIPE_SECRET_KEY environment variable not set")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(stripeKey, nil)
	log.Info("STRIPE", "Stripe client initialized successfully")
	return &PaymentService{client: sc, bookings: bookings, log: log}, nil
}

// CreatePaymentIntent opens a Stripe payment intent for a pending booking.
// The amount is the booking's stored final total.
func (s *PaymentService) CreatePaymentIntent(bookingID string) (*stripe.PaymentIntent, error) {
	s.log.Info("PAYMENT", fmt.Sprintf("Creating payment intent for booking: %s", bookingID))

	booking, err := s.bookings.GetBooking(bookingID)
	if err != nil {
		s.log.Error("PAYMENT", fmt.Sprintf("Failed to find booking %s: %v", bookingID, err))
		return nil, err
	}
	if booking.Status != models.BookingStatusPending {
		return nil, errors.New("cannot create payment intent for a booking that is not pending")
	}
	if booking.FinalTotal <= 0 {
		return nil, fmt.Errorf("invalid payment amount: %.2f", booking.FinalTotal)
	}

	amountInCents := minorUnits(booking.FinalTotal)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String("inr"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", bookingID)

	intent, err := s.client.PaymentIntents.New(params)
	if err != nil {
		s.log.Error("PAYMENT", fmt.Sprintf("Failed to create Stripe payment intent: %v", err))
		return nil, err
	}

	s.log.Info("PAYMENT", fmt.Sprintf("Created payment intent %s for booking %s (INR %0.2f)", intent.ID, bookingID, booking.FinalTotal))
	return intent, nil
}

// minorUnits converts a rupee amount to paise. Rounded, not truncated:
// 10.07 is 1007 paise even though 10.07*100 is 1006.999... in floating point.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// WebhookError carries both a client-safe message and the detail that only
// belongs in logs.
type WebhookError struct {
	StatusCode    int
	PublicError   string
	InternalError string
}

func (e *WebhookError) Error() string {
	return e.InternalError
}

// HandleWebhook verifies and processes a Stripe webhook event. A succeeded
// payment confirms the booking; a failed one cancels it.
func (s *PaymentService) HandleWebhook(r *http.Request) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if webhookSecret == "" {
		s.log.Error("WEBHOOK", "Stripe webhook secret is not configured")
		return &WebhookError{
			StatusCode:    http.StatusInternalServerError,
			PublicError:   "Webhook processing error",
			InternalError: "Stripe webhook secret is not configured",
		}
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return &WebhookError{
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid webhook payload",
			InternalError: fmt.Sprintf("Failed to read webhook payload: %v", err),
		}
	}

	opts := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}
	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), webhookSecret, opts)
	if err != nil {
		s.log.Error("WEBHOOK", fmt.Sprintf("Webhook signature verification failed: %v", err))
		return &WebhookError{
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid webhook signature",
			InternalError: fmt.Sprintf("Webhook signature verification failed: %v", err),
		}
	}

	s.log.Info("WEBHOOK", fmt.Sprintf("Processing Stripe webhook event: %s", event.Type))

	switch event.Type {
	case "payment_intent.succeeded":
		bookingID, werr := bookingIDFromEvent(event)
		if werr != nil {
			return werr
		}
		if _, err := s.bookings.ConfirmBooking(bookingID); err != nil {
			s.log.Error("WEBHOOK", fmt.Sprintf("Failed to confirm booking %s: %v", bookingID, err))
			return &WebhookError{
				StatusCode:    http.StatusInternalServerError,
				PublicError:   "Failed to process payment",
				InternalError: fmt.Sprintf("Failed to confirm booking %s: %v", bookingID, err),
			}
		}
		s.log.Info("WEBHOOK", fmt.Sprintf("Successfully processed payment for booking %s", bookingID))

	case "payment_intent.payment_failed":
		bookingID, werr := bookingIDFromEvent(event)
		if werr != nil {
			return werr
		}
		if err := s.bookings.CancelBooking(bookingID); err != nil {
			s.log.Error("WEBHOOK", fmt.Sprintf("Failed to cancel booking %s after failed payment: %v", bookingID, err))
			return &WebhookError{
				StatusCode:    http.StatusInternalServerError,
				PublicError:   "Failed to process payment failure",
				InternalError: fmt.Sprintf("Failed to cancel booking %s: %v", bookingID, err),
			}
		}
		s.log.Warn("WEBHOOK", fmt.Sprintf("Payment failed, booking %s cancelled", bookingID))

	default:
		s.log.Debug("WEBHOOK", fmt.Sprintf("Ignoring event type: %s", event.Type))
	}

	return nil
}

func bookingIDFromEvent(event stripe.Event) (string, *WebhookError) {
	var paymentIntent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
		return "", &WebhookError{
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid event data",
			InternalError: fmt.Sprintf("Failed to unmarshal payment intent: %v", err),
		}
	}
	bookingID, exists := paymentIntent.Metadata["booking_id"]
	if !exists {
		return "", &WebhookError{
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid payment intent data",
			InternalError: "Payment intent has no booking_id in metadata",
		}
	}
	return bookingID, nil
}
