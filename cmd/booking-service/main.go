package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ms-booking/internal/booking"
	booking_api "ms-booking/internal/booking/api"
	booking_db "ms-booking/internal/booking/db"
	booking_kafka "ms-booking/internal/booking/kafka"
	rediswrap "ms-booking/internal/booking/redis"
	"ms-booking/internal/catalog"
	catalog_db "ms-booking/internal/catalog/db"
	"ms-booking/internal/config"
	"ms-booking/internal/logger"
	"ms-booking/internal/sse"
	"ms-booking/internal/voucher"
)

// Standalone booking service: booking lifecycle and SSE only, catalog reads
// go straight to the shared database.
func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()
	appLogger := logger.NewLogger()
	defer appLogger.Close()

	// --- PostgreSQL Setup ---
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN()))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	if err := sqldb.Ping(); err != nil {
		log.Fatalf("❌ Failed to connect to Postgres: %v", err)
	}
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	// --- Redis Setup ---
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	log.Println("🔗 Connecting to Redis...")
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}

	// --- Initialize Dependencies ---
	log.Println("📦 Initializing Booking Service...")
	producer := booking_kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics, appLogger)
	defer producer.Close()

	catalogService := catalog.NewCatalogService(&catalog_db.DB{Bun: bunDB})
	emitter := sse.NewBookingEventEmitter()

	service := booking.NewBookingService(
		&booking_db.DB{Bun: bunDB},
		rediswrap.NewSeatLock(redisClient, cfg.Booking.SeatLockTTL),
		producer,
		catalogService,
		voucher.NewGenerator(cfg.Booking.VoucherSecret),
		emitter,
	)
	handler := booking_api.NewHandler(service)
	sseHandler := booking_api.NewSSEHandler(appLogger, emitter)

	// --- Setup Router ---
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
		sseHandler.RegisterRoutes(r)
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 Booking Service running on %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ HTTP server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("Server Shutdown Failed: %v", err)
	}
	log.Println("✅ Booking Service shutdown complete")
}
