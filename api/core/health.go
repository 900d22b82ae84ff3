package core

import (
	"context"
	"time"

	"github.com/noven-dev/image-vault/cache"
	"github.com/noven-dev/image-vault/metadata"
	"github.com/noven-dev/image-vault/storage"
)

const healthCheckTimeout = 3 * time.Second

func checkMetadataHealth(store metadata.Store) string {
	if store == nil {
		return "not initialized"
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkCacheHealth(provider cache.Provider) string {
	if provider == nil {
		return "not initialized"
	}
	return "ok"
}

func checkStorageHealth(factory *storage.Factory) string {
	if factory == nil {
		return "not initialized"
	}

	provider := factory.GetDefault()
	if provider == nil {
		return "error: no default storage provider"
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	if err := provider.Health(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
