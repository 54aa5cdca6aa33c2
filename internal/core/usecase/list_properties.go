package usecase

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"anjia-property-service/internal/contextkeys"
	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/filter"
	"anjia-property-service/internal/core/normalize"
	"anjia-property-service/internal/core/port"
)

// ListPropertiesUseCase serves filtered, paginated listings through the source chain.
type ListPropertiesUseCase struct {
	sources    []port.PropertySourcePort
	normalizer *normalize.Normalizer
	cache      port.CachePort
	ttl        time.Duration
	metrics    port.MetricsPort
	group      singleflight.Group
}

func NewListPropertiesUseCase(
	sources []port.PropertySourcePort,
	normalizer *normalize.Normalizer,
	cache port.CachePort,
	ttl time.Duration,
	metrics port.MetricsPort,
) *ListPropertiesUseCase {
	if metrics == nil {
		metrics = port.NoopMetrics{}
	}
	return &ListPropertiesUseCase{
		sources:    sources,
		normalizer: normalizer,
		cache:      cache,
		ttl:        ttl,
		metrics:    metrics,
	}
}

// Execute returns an empty mock-error result when every source failed.
func (uc *ListPropertiesUseCase) Execute(ctx context.Context, filters domain.FilterSet, page, pageSize int) domain.ListingResult {
	if pageSize < 1 {
		pageSize = domain.ListingPageSize
	}
	key := ListingKey(filters, page, pageSize)
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "ListProperties",
		"filters":   filters.Key(),
		"page":      page,
		"page_size": pageSize,
	})

	if data, ok := uc.cache.Get(ctx, key); ok {
		var res domain.ListingResult
		if err := json.Unmarshal(data, &res); err == nil {
			uc.metrics.CacheLookup(kindListing, true)
			logger.Debug("Cache hit", port.Fields{"source": string(res.Source)})
			return res
		}
		logger.Warn("Dropping undecodable cache entry", port.Fields{"key": key})
		uc.cache.Delete(ctx, key)
	}
	uc.metrics.CacheLookup(kindListing, false)

	v, _, _ := uc.group.Do(key, func() (interface{}, error) {
		return uc.resolve(context.WithoutCancel(ctx), filters, page, pageSize, key, logger), nil
	})

	var res domain.ListingResult
	if err := json.Unmarshal(v.([]byte), &res); err != nil {
		logger.Error("Failed to decode listing result", err, nil)
		return emptyListing(page)
	}
	return res
}

func (uc *ListPropertiesUseCase) resolve(ctx context.Context, filters domain.FilterSet, page, pageSize int, key string, logger port.LoggerPort) []byte {
	for tier, src := range uc.sources {
		srcLogger := logger.WithFields(port.Fields{"source": string(src.Name()), "tier": tier + 1})

		raw, err := src.FetchMany(ctx, filters, page, pageSize)
		if err == nil && raw == nil {
			err = domain.NewMalformedResponseError(src.Name(), nil)
		}
		if err != nil {
			kind := domain.ErrorKind(err)
			uc.metrics.SourceAttempt(string(src.Name()), kind)
			srcLogger.Warn("Source failed, trying next", port.Fields{"error": err.Error(), "error_kind": kind})
			continue
		}
		uc.metrics.SourceAttempt(string(src.Name()), outcomeOK)

		res := uc.assemble(raw, filters, page, pageSize)
		res.Source = src.Name()

		data, err := json.Marshal(res)
		if err != nil {
			srcLogger.Error("Failed to encode listing", err, nil)
			continue
		}
		uc.cache.Set(ctx, key, data, uc.ttl)
		uc.metrics.Resolved(kindListing, string(res.Source))
		srcLogger.Info("Listing resolved", port.Fields{"items": len(res.Items), "total": res.TotalCount})
		return data
	}

	logger.Warn("All sources failed, serving empty listing", port.Fields{"sources": len(uc.sources)})
	uc.metrics.Resolved(kindListing, string(domain.SourceMockError))
	data, _ := json.Marshal(emptyListing(page))
	return data
}

// assemble normalizes a raw page and filters it locally unless the source already did.
func (uc *ListPropertiesUseCase) assemble(raw *domain.RawPage, filters domain.FilterSet, page, pageSize int) domain.ListingResult {
	items := make([]domain.Property, 0, len(raw.Items))
	for _, r := range raw.Items {
		items = append(items, uc.normalizer.Normalize(r))
	}

	if !raw.Applied {
		p := filter.Apply(items, filters, page, pageSize)
		return domain.ListingResult{
			Items:       p.Items,
			TotalCount:  p.TotalCount,
			TotalPages:  p.TotalPages,
			CurrentPage: page,
		}
	}

	total := len(items)
	if raw.TotalCount != nil {
		total = *raw.TotalCount
	}
	return domain.ListingResult{
		Items:       items,
		TotalCount:  total,
		TotalPages:  filter.TotalPages(total, pageSize),
		CurrentPage: page,
	}
}

func emptyListing(page int) domain.ListingResult {
	return domain.ListingResult{
		Items:       []domain.Property{},
		CurrentPage: page,
		Source:      domain.SourceMockError,
	}
}
