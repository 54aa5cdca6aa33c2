package usecases_port

import (
	"context"

	"anjia-property-service/internal/core/domain"
)

type ResolvePropertyUseCase interface {
	Execute(ctx context.Context, id string) domain.ResolvedProperty
}
