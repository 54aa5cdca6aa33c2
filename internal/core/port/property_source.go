package port

import (
	"context"

	"anjia-property-service/internal/core/domain"
)

// PropertySourcePort is implemented by every tier of the resolution pipeline.
type PropertySourcePort interface {
	// Name is the source tag reported in results and logs.
	Name() domain.Source

	// FetchOne returns the raw record for id, or an error wrapping domain.ErrNotFound
	// when the source has no such record.
	FetchOne(ctx context.Context, id string) (domain.RawRecord, error)

	// FetchMany returns raw records for a listing query. Sources that cannot filter
	// or paginate return everything with RawPage.Applied set to false.
	FetchMany(ctx context.Context, filters domain.FilterSet, page, pageSize int) (*domain.RawPage, error)
}
