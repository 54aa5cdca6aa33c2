package fallbackcatalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anjia-property-service/internal/adapters/fallbackcatalog"
	"anjia-property-service/internal/core/domain"
)

func TestFetchOne_SeedIDIsAliased(t *testing.T) {
	a := fallbackcatalog.NewCatalogAdapter()

	raw, err := a.FetchOne(context.Background(), "3")
	require.NoError(t, err)

	rec := raw.(domain.FallbackRecord)
	assert.Equal(t, "3", rec.ID)
	assert.Equal(t, "Office Space in Nakasero", rec.Title)
}

func TestFetchOne_OverwritesIDWithRequestedID(t *testing.T) {
	a := fallbackcatalog.NewCatalogAdapter()

	raw, err := a.FetchOne(context.Background(), "8")
	require.NoError(t, err)
	rec := raw.(domain.FallbackRecord)
	assert.Equal(t, "8", rec.ID)
	assert.Equal(t, "Office Space in Nakasero", rec.Title, "8 maps to slot 3")

	raw, err = a.FetchOne(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", raw.(domain.FallbackRecord).ID)
}

func TestIndex(t *testing.T) {
	a := fallbackcatalog.NewCatalogAdapter()

	tests := map[string]int{
		"0":     0,
		"4":     4,
		"5":     0,
		"9":     4,
		"12":    2,
		"1234":  4,
		"17abc": 2,
		"-7":    2,
		"abc":   0,
		"":      0,
		" 3 ":   3,
	}

	for id, want := range tests {
		assert.Equal(t, want, a.Index(id), "id %q", id)
	}

	assert.Equal(t, 4, a.Index("99999999999999999999999"), "overflowing ids still map by remainder")
}

func TestIndex_IsDeterministic(t *testing.T) {
	a := fallbackcatalog.NewCatalogAdapter()
	for _, id := range []string{"1", "42", "slug-7", "-3"} {
		assert.Equal(t, a.Index(id), a.Index(id))
	}
}

func TestFetchOne_DoesNotMutateCatalog(t *testing.T) {
	a := fallbackcatalog.NewCatalogAdapter()

	_, err := a.FetchOne(context.Background(), "7")
	require.NoError(t, err)

	raw, err := a.FetchOne(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "2", raw.(domain.FallbackRecord).ID)

	page, err := a.FetchMany(context.Background(), domain.FilterSet{}, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, "2", page.Items[2].(domain.FallbackRecord).ID)
	assert.Len(t, page.Items, 5)
}
