package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"ms-booking/internal/auth"
	"ms-booking/internal/catalog"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// InventoryFetcher pulls raw vehicle payloads from the upstream inventory
// service and imports them through the catalog. Upstream calls authenticate
// with a cached M2M token.
type InventoryFetcher struct {
	client  *http.Client
	catalog *catalog.CatalogService
	cache   *auth.RedisTokenCache
	cfg     models.Config
	logger  *logger.Logger
}

func NewInventoryFetcher(client *http.Client, catalogService *catalog.CatalogService, cache *auth.RedisTokenCache, cfg models.Config) *InventoryFetcher {
	return &InventoryFetcher{
		client:  client,
		catalog: catalogService,
		cache:   cache,
		cfg:     cfg,
		logger:  logger.NewLogger(),
	}
}

// token returns a valid M2M token, hitting the identity provider only when
// the cached token is missing or about to expire.
func (f *InventoryFetcher) token(ctx context.Context) (string, error) {
	if f.cache != nil {
		cached, err := f.cache.GetToken(ctx)
		if err != nil {
			f.logger.Warn("SYNC", fmt.Sprintf("Token cache read failed: %v", err))
		}
		if cached != nil {
			return cached.Token, nil
		}
	}

	token, expiresIn, err := auth.GetM2MToken(f.cfg, f.client)
	if err != nil {
		return "", fmt.Errorf("failed to get M2M token: %w", err)
	}

	if f.cache != nil {
		if expiresIn <= 0 {
			expiresIn = 300
		}
		if err := f.cache.SetToken(ctx, token, expiresIn); err != nil {
			f.logger.Warn("SYNC", fmt.Sprintf("Token cache write failed: %v", err))
		}
	}
	return token, nil
}

// SyncVehicles fetches every vehicle the upstream exposes and imports each
// payload. One bad payload is logged and skipped, not fatal to the run.
func (f *InventoryFetcher) SyncVehicles(ctx context.Context) (int, error) {
	baseURL := os.Getenv("INVENTORY_SERVICE_URL")
	if baseURL == "" {
		return 0, fmt.Errorf("INVENTORY_SERVICE_URL not set")
	}
	if baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}

	m2mToken, err := f.token(ctx)
	if err != nil {
		return 0, err
	}

	url := fmt.Sprintf("%s/internal/v1/vehicles", baseURL)
	f.logger.Debug("SYNC", fmt.Sprintf("Fetching vehicles: %s", url))

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create inventory request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m2mToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("inventory service error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			f.logger.Error("SYNC", fmt.Sprintf("Failed to close inventory response body: %v", cerr))
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("inventory service returned status: %d", resp.StatusCode)
	}

	// The upstream returns heterogeneous vehicle objects; each one goes
	// through the normalizer untouched.
	var payloads []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return 0, fmt.Errorf("failed to decode inventory response: %w", err)
	}

	imported := 0
	for _, raw := range payloads {
		if _, err := f.catalog.ImportVehicle(raw); err != nil {
			f.logger.Warn("SYNC", fmt.Sprintf("Skipping vehicle payload: %v", err))
			continue
		}
		imported++
	}

	f.logger.Info("SYNC", fmt.Sprintf("Imported %d of %d vehicles", imported, len(payloads)))
	return imported, nil
}
