package usecase

import (
	"context"
	"strings"

	"anjia-property-service/internal/contextkeys"
	"anjia-property-service/internal/core/port"
)

// InvalidateCacheUseCase drops cached results after the CMS reports a change.
type InvalidateCacheUseCase struct {
	cache port.CachePort
}

func NewInvalidateCacheUseCase(cache port.CachePort) *InvalidateCacheUseCase {
	return &InvalidateCacheUseCase{cache: cache}
}

// Execute removes the item entry for propertyID and every listing, since any
// listing may contain the changed property. An empty id clears the cache.
func (uc *InvalidateCacheUseCase) Execute(ctx context.Context, propertyID string) int {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "InvalidateCache"})

	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		n := uc.cache.DeletePrefix(ctx, ItemKeyPrefix) + uc.cache.DeletePrefix(ctx, ListingKeyPrefix)
		logger.Info("Cache cleared", port.Fields{"invalidated": n})
		return n
	}

	n := uc.cache.DeletePrefix(ctx, ListingKeyPrefix)
	if uc.cache.Delete(ctx, ItemKey(propertyID)) {
		n++
	}
	logger.Info("Cache invalidated for property", port.Fields{"property_id": propertyID, "invalidated": n})
	return n
}
