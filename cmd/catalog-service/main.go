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
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ms-booking/internal/auth"
	"ms-booking/internal/catalog"
	catalog_api "ms-booking/internal/catalog/api"
	catalog_db "ms-booking/internal/catalog/db"
	"ms-booking/internal/catalog/sync"
	"ms-booking/internal/config"
	"ms-booking/internal/models"
)

// Standalone catalog service: inventory reads, seat decks and the upstream
// vehicle sync.
func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	// --- PostgreSQL Setup ---
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN()))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	if err := sqldb.Ping(); err != nil {
		log.Fatalf("❌ Failed to connect to Postgres: %v", err)
	}
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	// --- Redis Setup (M2M token cache for the sync path) ---
	redisClient, err := auth.InitializeTokenCache(cfg.Redis.Addr, nil)
	if err != nil {
		log.Fatalf("❌ Failed to set up token cache: %v", err)
	}
	defer redisClient.Close()

	// --- Initialize Dependencies ---
	log.Println("📦 Initializing Catalog Service...")
	service := catalog.NewCatalogService(&catalog_db.DB{Bun: bunDB})
	handler := catalog_api.NewHandler(service)

	httpClient := &http.Client{Timeout: 10 * time.Second}
	fetcher := sync.NewInventoryFetcher(
		httpClient,
		service,
		auth.NewRedisTokenCache(redisClient),
		models.Config{
			KeycloakURL:   os.Getenv("KEYCLOAK_URL"),
			KeycloakRealm: os.Getenv("KEYCLOAK_REALM"),
			ClientID:      os.Getenv("KEYCLOAK_CLIENT_ID"),
			ClientSecret:  os.Getenv("KEYCLOAK_CLIENT_SECRET"),
		},
	)

	// --- Setup Router ---
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	r.Post("/internal/v1/sync/vehicles", func(w http.ResponseWriter, req *http.Request) {
		count, err := fetcher.SyncVehicles(req.Context())
		if err != nil {
			http.Error(w, "Sync failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		log.Printf("Synced %d vehicles from upstream", count)
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 Catalog Service running on %s", cfg.Server.Port)
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
	log.Println("✅ Catalog Service shutdown complete")
}
