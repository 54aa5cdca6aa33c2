package usecases_port

import (
	"context"

	"anjia-property-service/internal/core/domain"
)

type ListPropertiesUseCase interface {
	Execute(ctx context.Context, filters domain.FilterSet, page, pageSize int) domain.ListingResult
}
