package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-booking/internal/analytics"
	analytics_api "ms-booking/internal/analytics/api"
	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	booking_api "ms-booking/internal/booking/api"
	booking_db "ms-booking/internal/booking/db"
	booking_kafka "ms-booking/internal/booking/kafka"
	rediswrap "ms-booking/internal/booking/redis"
	"ms-booking/internal/catalog"
	catalog_api "ms-booking/internal/catalog/api"
	catalog_db "ms-booking/internal/catalog/db"
	"ms-booking/internal/config"
	"ms-booking/internal/database/migrations"
	"ms-booking/internal/kafka"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/payment"
	"ms-booking/internal/sse"
	"ms-booking/internal/voucher"
)

// subscribeSeatLockExpiry cancels pending vehicle bookings whose Redis seat
// locks expired before payment completed.
func subscribeSeatLockExpiry(rdb *redis.Client, db *booking_db.DB, producer *booking_kafka.Producer, log *logger.Logger) {
	ctx := context.Background()

	val, err := rdb.ConfigGet(ctx, "notify-keyspace-events").Result()
	if err != nil {
		log.Error("REDIS", fmt.Sprintf("Failed to get keyspace config: %v", err))
	} else {
		log.Info("REDIS", fmt.Sprintf("Current keyspace notifications setting: %v", val))
	}

	pubsub := rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	log.Info("REDIS", "Subscribed to Redis keyevent expired notifications")

	go func() {
		for msg := range pubsub.Channel() {
			if !strings.HasPrefix(msg.Payload, "seat_lock:") {
				continue
			}
			// Key format: seat_lock:<vehicleID>:<label>
			parts := strings.SplitN(strings.TrimPrefix(msg.Payload, "seat_lock:"), ":", 2)
			if len(parts) != 2 {
				continue
			}
			vehicleID, label := parts[0], parts[1]
			log.Info("SEAT_UNLOCK", fmt.Sprintf("Seat lock expired for vehicle %s seat %s", vehicleID, label))

			active, err := db.GetActiveVehicleBookings(vehicleID)
			if err != nil {
				log.Error("SEAT_UNLOCK", fmt.Sprintf("Failed to load bookings for vehicle %s: %v", vehicleID, err))
				continue
			}
			for _, b := range active {
				if b.Status != models.BookingStatusPending || !holdsSeat(b, label) {
					continue
				}
				b.Status = models.BookingStatusCancelled
				if err := db.UpdateBooking(b); err != nil {
					log.Error("SEAT_UNLOCK", fmt.Sprintf("Failed to cancel booking %s: %v", b.BookingID, err))
					continue
				}
				log.Info("SEAT_UNLOCK", fmt.Sprintf("Booking %s cancelled due to seat lock expiry", b.BookingID))
				if err := producer.PublishBookingCancelled(b); err != nil {
					log.Error("KAFKA", fmt.Sprintf("Failed to publish cancellation for %s: %v", b.BookingID, err))
				}
			}
		}
	}()
}

func holdsSeat(b models.Booking, label string) bool {
	for _, s := range b.SeatLabels {
		if strings.EqualFold(s, label) {
			return true
		}
	}
	return false
}

func verifyConnections(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bun.DB, *redis.Client) {
	dsn := cfg.Database.DSN()

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", dsn)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}
	log.Info("DATABASE", "✅ PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}

	// Seat lock expiry handling depends on keyspace notifications.
	if _, err := redisClient.ConfigSet(ctx, "notify-keyspace-events", "Ex").Result(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Failed to enable keyspace notifications: %v", err))
	} else {
		log.Info("REDIS", "Keyspace notifications enabled for expired events")
	}

	log.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))
	return bunDB, redisClient
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Booking Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	log.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, log)
	defer bunDB.Close()
	defer redisClient.Close()

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := runner.RunMigrations(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}

	kafkaBrokers := cfg.Kafka.Brokers
	producer := booking_kafka.NewProducer(kafkaBrokers, cfg.Kafka.Topics, log)
	defer producer.Close()
	log.Info("KAFKA", "Kafka producer initialized successfully")

	requiredTopics := []string{
		cfg.Kafka.Topics.BookingCreated,
		cfg.Kafka.Topics.BookingConfirmed,
		cfg.Kafka.Topics.BookingCancelled,
	}
	if err := kafka.EnsureTopicsExist(kafkaBrokers, requiredTopics); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}

	catalogService := catalog.NewCatalogService(&catalog_db.DB{Bun: bunDB})

	// Keep vehicle booked-seat lists in step with booking outcomes, including
	// those published by other instances.
	for _, topic := range []string{cfg.Kafka.Topics.BookingConfirmed, cfg.Kafka.Topics.BookingCancelled} {
		consumer := kafka.NewConsumer(kafkaBrokers, topic, cfg.Kafka.GroupID)
		defer consumer.Close()
		go consumer.Start(ctx, func(event models.BookingStatusChangeEventDto) {
			if err := catalogService.ApplyBookingEvent(event); err != nil {
				log.Error("KAFKA", fmt.Sprintf("Failed to apply booking event %s: %v", event.BookingID, err))
			}
		})
	}
	log.Info("KAFKA", "Booking event consumers started for seat sync")

	analyticsService := analytics.NewService(bunDB)
	emitter := sse.NewBookingEventEmitter()
	voucherGen := voucher.NewGenerator(cfg.Booking.VoucherSecret)

	bookingDB := &booking_db.DB{Bun: bunDB}
	bookingService := booking.NewBookingService(
		bookingDB,
		rediswrap.NewSeatLock(redisClient, cfg.Booking.SeatLockTTL),
		producer,
		catalogService,
		voucherGen,
		emitter,
	)

	bookingHandler := booking_api.NewHandler(bookingService)
	catalogHandler := catalog_api.NewHandler(catalogService)
	analyticsHandler := analytics_api.NewHandler(analyticsService)
	sseHandler := booking_api.NewSSEHandler(log, emitter)

	paymentService, err := payment.NewPaymentService(bookingService, log)
	var paymentHandler *payment.Handler
	if err != nil {
		log.Warn("STRIPE", fmt.Sprintf("Payments disabled: %v", err))
	} else {
		paymentHandler = payment.NewHandler(paymentService)
	}

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Route("/api/catalog", func(r chi.Router) {
		catalogHandler.RegisterRoutes(r)
	})
	log.Info("ROUTER", "Catalog routes registered under /api/catalog")

	if paymentHandler != nil {
		// Stripe calls the webhook without a user token.
		r.Post("/api/payments/webhook", paymentHandler.StripeWebhook)
	}

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware())
		log.Info("AUTH", "JWT middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			bookingHandler.RegisterRoutes(r)
			log.Info("ROUTER", "Booking routes registered under /api/bookings")

			sseHandler.RegisterRoutes(r)
			log.Info("ROUTER", "SSE routes registered under /api/events")

			analyticsHandler.RegisterRoutes(r)
			log.Info("ROUTER", "Analytics routes registered under /api/analytics")

			if paymentHandler != nil {
				r.Post("/payments/intent", paymentHandler.CreatePaymentIntent)
				log.Info("ROUTER", "Payment routes registered under /api/payments")
			}
		})
	})

	server := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	log.Info("REDIS", "Starting seat lock expiry subscription")
	subscribeSeatLockExpiry(redisClient, bookingDB, producer, log)

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Booking Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Booking Service shutdown complete")
	}
}
