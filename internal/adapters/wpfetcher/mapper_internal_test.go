package wpfetcher

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anjia-property-service/internal/core/domain"
)

func TestDecodeRecord(t *testing.T) {
	rec, err := decodeRecord([]byte(`[{"id": 3}]`))
	require.NoError(t, err)
	assert.Equal(t, float64(3), rec["id"])

	_, err = decodeRecord([]byte(`{"code": "rest_forbidden", "message": "nope"}`))
	assert.ErrorIs(t, err, errNoRecord)

	_, err = decodeRecord([]byte(`   `))
	assert.ErrorIs(t, err, errEmptyBody)

	_, err = decodeRecord([]byte(`[]`))
	assert.ErrorIs(t, err, errNoRecord)
}

func TestDecodeList_TotalSpellings(t *testing.T) {
	for _, body := range []string{
		`{"items": [], "total": 7}`,
		`{"items": [], "totalCount": "7"}`,
		`{"results": [], "found_posts": 7}`,
	} {
		p, err := decodeList([]byte(body))
		require.NoError(t, err, body)
		require.NotNil(t, p.total, body)
		assert.Equal(t, 7, *p.total, body)
	}
}

func TestDecodeList_PageCountSpellings(t *testing.T) {
	for _, body := range []string{
		`{"items": [], "total_pages": 3}`,
		`{"data": [], "totalPages": "3"}`,
		`{"properties": [], "max_num_pages": 3}`,
	} {
		p, err := decodeList([]byte(body))
		require.NoError(t, err, body)
		require.NotNil(t, p.totalPages, body)
		assert.Equal(t, 3, *p.totalPages, body)
	}

	p, err := decodeList([]byte(`[{"id": 1}]`))
	require.NoError(t, err)
	assert.Nil(t, p.totalPages)
}

func TestMorePages(t *testing.T) {
	three, ten := 3, 10
	full := listPayload{items: make([]domain.RawRecord, amenityScanPageSize)}
	for i := range full.items {
		full.items[i] = domain.CMSRecord{"id": i + 1}
	}

	assert.True(t, morePages(listPayload{items: full.items, totalPages: &three}, nil, 2, 200))
	assert.False(t, morePages(listPayload{items: full.items, totalPages: &three}, nil, 3, 300))
	assert.False(t, morePages(listPayload{items: full.items, total: &ten}, nil, 1, 100))
	assert.True(t, morePages(full, http.Header{"X-Wp-Totalpages": []string{"2"}}, 1, 100))
	assert.True(t, morePages(full, nil, 1, 100), "a full page without counts may have a successor")
	assert.False(t, morePages(listPayload{items: full.items[:5]}, nil, 1, 5))
	assert.False(t, morePages(listPayload{}, http.Header{"X-Wp-Totalpages": []string{"9"}}, 1, 0))
}
