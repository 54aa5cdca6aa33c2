package usecase

import (
	"fmt"
	"strings"

	"anjia-property-service/internal/core/domain"
)

// Cache key namespaces.
const (
	ItemKeyPrefix    = "property:"
	ListingKeyPrefix = "listing:"
)

// ItemKey is the cache key of a single-item lookup.
func ItemKey(id string) string {
	return ItemKeyPrefix + strings.TrimSpace(id)
}

// ListingKey is the cache key of a listing query.
func ListingKey(f domain.FilterSet, page, pageSize int) string {
	return fmt.Sprintf("%s%s|page=%d|size=%d", ListingKeyPrefix, f.Key(), page, pageSize)
}
