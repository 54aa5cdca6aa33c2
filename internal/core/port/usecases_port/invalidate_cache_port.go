package usecases_port

import "context"

type InvalidateCacheUseCase interface {
	// Execute drops the cached record for propertyID and every cached listing.
	// An empty propertyID drops all cached records.
	Execute(ctx context.Context, propertyID string) int
}
