package usecase_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anjia-property-service/internal/adapters/cache"
	"anjia-property-service/internal/adapters/staticdata"
	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/filter"
	"anjia-property-service/internal/core/port"
	"anjia-property-service/internal/core/usecase"
)

const listingTTL = 5 * time.Minute

func TestListProperties_StaticDatasetNaguruMinPrice(t *testing.T) {
	static, err := staticdata.NewStaticDatasetAdapter()
	require.NoError(t, err)
	primary := failingSource(domain.SourcePrimaryCMS)
	mirror := failingSource(domain.SourceMirrorCMS)

	uc := usecase.NewListPropertiesUseCase(
		[]port.PropertySourcePort{primary, mirror, static},
		newNormalizer(), cache.NewMemoryCache(nil), listingTTL, nil,
	)

	res := uc.Execute(context.Background(), domain.FilterSet{Location: "naguru", MinPrice: "1000"}, 1, domain.ListingPageSize)

	assert.Equal(t, domain.SourceStatic, res.Source)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.TotalCount)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 1, res.CurrentPage)
	for _, p := range res.Items {
		assert.Contains(t, strings.ToLower(p.Location), "naguru")
		price, ok := filter.ParseInt(p.Price)
		require.True(t, ok)
		assert.GreaterOrEqual(t, price, 1000)
	}
	assert.Equal(t, int32(1), primary.manyCalls.Load())
	assert.Equal(t, int32(1), mirror.manyCalls.Load())
}

func TestListProperties_LocalPagination(t *testing.T) {
	records := make([]domain.CMSRecord, 25)
	for i := range records {
		records[i] = domain.CMSRecord{"id": strconv.Itoa(i + 1), "price": "100"}
	}
	primary := cmsSource(domain.SourcePrimaryCMS, records...)
	uc := usecase.NewListPropertiesUseCase([]port.PropertySourcePort{primary}, newNormalizer(), cache.NewMemoryCache(nil), listingTTL, nil)

	res := uc.Execute(context.Background(), domain.FilterSet{}, 3, 12)

	assert.Len(t, res.Items, 1)
	assert.Equal(t, "25", res.Items[0].ID)
	assert.Equal(t, 25, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)

	res = uc.Execute(context.Background(), domain.FilterSet{}, 4, 12)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 3, res.TotalPages)
}

func TestListProperties_AppliedPageUsesReportedTotal(t *testing.T) {
	total := 40
	primary := &spySource{
		name: domain.SourcePrimaryCMS,
		many: func(_ context.Context, _ domain.FilterSet, page, size int) (*domain.RawPage, error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 12, size)
			return &domain.RawPage{
				Items:      []domain.RawRecord{domain.CMSRecord{"id": "13"}, domain.CMSRecord{"id": "14"}},
				TotalCount: &total,
				Applied:    true,
			}, nil
		},
	}
	uc := usecase.NewListPropertiesUseCase([]port.PropertySourcePort{primary}, newNormalizer(), cache.NewMemoryCache(nil), listingTTL, nil)

	res := uc.Execute(context.Background(), domain.FilterSet{Bedrooms: "2"}, 2, 12)

	assert.Len(t, res.Items, 2, "applied pages are not filtered again")
	assert.Equal(t, 40, res.TotalCount)
	assert.Equal(t, 4, res.TotalPages)
	assert.Equal(t, 2, res.CurrentPage)
	assert.Equal(t, domain.SourcePrimaryCMS, res.Source)
}

func TestListProperties_AppliedPageWithoutTotalCountsItems(t *testing.T) {
	primary := &spySource{
		name: domain.SourcePrimaryCMS,
		many: func(context.Context, domain.FilterSet, int, int) (*domain.RawPage, error) {
			return &domain.RawPage{Items: []domain.RawRecord{domain.CMSRecord{"id": "1"}}, Applied: true}, nil
		},
	}
	uc := usecase.NewListPropertiesUseCase([]port.PropertySourcePort{primary}, newNormalizer(), cache.NewMemoryCache(nil), listingTTL, nil)

	res := uc.Execute(context.Background(), domain.FilterSet{}, 1, 6)
	assert.Equal(t, 1, res.TotalCount)
	assert.Equal(t, 1, res.TotalPages)
}

func TestListProperties_AllSourcesFailServesUncachedEmptyResult(t *testing.T) {
	primary := failingSource(domain.SourcePrimaryCMS)
	uc := usecase.NewListPropertiesUseCase([]port.PropertySourcePort{primary}, newNormalizer(), cache.NewMemoryCache(nil), listingTTL, nil)

	res := uc.Execute(context.Background(), domain.FilterSet{}, 1, 12)

	assert.Equal(t, domain.SourceMockError, res.Source)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 0, res.TotalCount)
	assert.Equal(t, 0, res.TotalPages)

	uc.Execute(context.Background(), domain.FilterSet{}, 1, 12)
	assert.Equal(t, int32(2), primary.manyCalls.Load())
}

func TestListProperties_CacheKeyedByFiltersAndPage(t *testing.T) {
	clock := newClock()
	primary := cmsSource(domain.SourcePrimaryCMS, domain.CMSRecord{"id": "1", "acf": map[string]any{"bedrooms": "2", "location": "Ntinda"}})
	uc := usecase.NewListPropertiesUseCase([]port.PropertySourcePort{primary}, newNormalizer(), cache.NewMemoryCache(clock.Now), listingTTL, nil)
	ctx := context.Background()

	uc.Execute(ctx, domain.FilterSet{Location: "Ntinda", Bedrooms: "2"}, 1, 12)
	uc.Execute(ctx, domain.FilterSet{Bedrooms: "2", Location: "ntinda "}, 1, 12)
	assert.Equal(t, int32(1), primary.manyCalls.Load(), "equivalent filter sets share an entry")

	uc.Execute(ctx, domain.FilterSet{Location: "Ntinda", Bedrooms: "2"}, 2, 12)
	assert.Equal(t, int32(2), primary.manyCalls.Load())

	clock.Advance(listingTTL)
	uc.Execute(ctx, domain.FilterSet{Location: "Ntinda", Bedrooms: "2"}, 1, 12)
	assert.Equal(t, int32(3), primary.manyCalls.Load())
}

func TestListProperties_DefaultsPageSize(t *testing.T) {
	primary := &spySource{
		name: domain.SourcePrimaryCMS,
		many: func(_ context.Context, _ domain.FilterSet, _, size int) (*domain.RawPage, error) {
			assert.Equal(t, domain.ListingPageSize, size)
			return &domain.RawPage{Applied: true}, nil
		},
	}
	uc := usecase.NewListPropertiesUseCase([]port.PropertySourcePort{primary}, newNormalizer(), cache.NewMemoryCache(nil), listingTTL, nil)

	res := uc.Execute(context.Background(), domain.FilterSet{}, 1, 0)
	assert.NotNil(t, res.Items)
	assert.Equal(t, domain.SourcePrimaryCMS, res.Source)
}
