package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"anjia-property-service/internal/contextkeys"
	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/normalize"
	"anjia-property-service/internal/core/port"
)

// ResolvePropertyUseCase resolves a single listing through the source chain.
type ResolvePropertyUseCase struct {
	sources    []port.PropertySourcePort
	normalizer *normalize.Normalizer
	cache      port.CachePort
	ttl        time.Duration
	metrics    port.MetricsPort
	group      singleflight.Group
}

// NewResolvePropertyUseCase tries sources in the given order.
func NewResolvePropertyUseCase(
	sources []port.PropertySourcePort,
	normalizer *normalize.Normalizer,
	cache port.CachePort,
	ttl time.Duration,
	metrics port.MetricsPort,
) *ResolvePropertyUseCase {
	if metrics == nil {
		metrics = port.NoopMetrics{}
	}
	return &ResolvePropertyUseCase{
		sources:    sources,
		normalizer: normalizer,
		cache:      cache,
		ttl:        ttl,
		metrics:    metrics,
	}
}

// Execute always returns a renderable record. Failures are logged, never returned.
func (uc *ResolvePropertyUseCase) Execute(ctx context.Context, id string) domain.ResolvedProperty {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "ResolveProperty",
		"property_id": id,
	})
	key := ItemKey(id)

	if res, ok := uc.fromCache(ctx, key, logger); ok {
		uc.metrics.CacheLookup(kindItem, true)
		logger.Debug("Cache hit", port.Fields{"source": string(res.Source)})
		return res
	}
	uc.metrics.CacheLookup(kindItem, false)

	// identical misses share one walk of the chain; the walk outlives a caller that goes away
	v, _, shared := uc.group.Do(key, func() (interface{}, error) {
		return uc.resolve(context.WithoutCancel(ctx), id, key, logger), nil
	})
	if shared {
		logger.Debug("Joined in-flight resolution", nil)
	}

	var res domain.ResolvedProperty
	if err := json.Unmarshal(v.([]byte), &res); err != nil {
		// cannot happen for data we encoded ourselves
		logger.Error("Failed to decode resolved property", err, nil)
		return domain.ResolvedProperty{Property: uc.normalizer.Synthetic(id), Source: domain.SourceSynthetic}
	}
	return res
}

func (uc *ResolvePropertyUseCase) fromCache(ctx context.Context, key string, logger port.LoggerPort) (domain.ResolvedProperty, bool) {
	var res domain.ResolvedProperty
	data, ok := uc.cache.Get(ctx, key)
	if !ok {
		return res, false
	}
	if err := json.Unmarshal(data, &res); err != nil {
		logger.Warn("Dropping undecodable cache entry", port.Fields{"key": key, "error": err.Error()})
		uc.cache.Delete(ctx, key)
		return res, false
	}
	return res, true
}

// resolve walks the chain and returns the encoded result.
func (uc *ResolvePropertyUseCase) resolve(ctx context.Context, id, key string, logger port.LoggerPort) []byte {
	for tier, src := range uc.sources {
		srcLogger := logger.WithFields(port.Fields{"source": string(src.Name()), "tier": tier + 1})

		raw, err := src.FetchOne(ctx, id)
		if err == nil && raw == nil {
			err = domain.NewMalformedResponseError(src.Name(), errors.New("source returned no record"))
		}
		if err != nil {
			kind := domain.ErrorKind(err)
			uc.metrics.SourceAttempt(string(src.Name()), kind)
			if errors.Is(err, domain.ErrNotFound) {
				srcLogger.Info("Source has no such property, trying next", nil)
			} else {
				srcLogger.Warn("Source failed, trying next", port.Fields{"error": err.Error(), "error_kind": kind})
			}
			continue
		}
		uc.metrics.SourceAttempt(string(src.Name()), outcomeOK)

		res := domain.ResolvedProperty{Property: uc.normalizer.Normalize(raw), Source: src.Name()}
		data, err := json.Marshal(res)
		if err != nil {
			srcLogger.Error("Failed to encode property", err, nil)
			continue
		}
		uc.cache.Set(ctx, key, data, uc.ttl)
		uc.metrics.Resolved(kindItem, string(res.Source))
		srcLogger.Info("Property resolved", nil)
		return data
	}

	logger.Warn("All sources failed, serving synthetic record", port.Fields{"sources": len(uc.sources)})
	uc.metrics.Resolved(kindItem, string(domain.SourceSynthetic))

	res := domain.ResolvedProperty{Property: uc.normalizer.Synthetic(id), Source: domain.SourceSynthetic}
	data, _ := json.Marshal(res)
	return data
}
