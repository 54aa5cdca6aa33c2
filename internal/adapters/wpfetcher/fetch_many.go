package wpfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"anjia-property-service/internal/contextkeys"
	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/port"
	"anjia-property-service/pkg/resilient"
)

const (
	// amenityScanPageSize is the page size used to pull posts for local amenity
	// filtering, which the listing endpoint cannot do. 100 is the WordPress maximum.
	amenityScanPageSize = 100
	// maxAmenityScanPages caps the scan at 1000 posts. Hitting it is logged.
	maxAmenityScanPages = 10
)

// FetchMany queries the listing endpoint. Without an amenity constraint the CMS
// filters and paginates itself; with one the adapter pulls every page of the
// CMS-filterable query and leaves amenity filtering to the caller.
func (a *WPFetcherAdapter) FetchMany(ctx context.Context, filters domain.FilterSet, page, pageSize int) (*domain.RawPage, error) {
	applied := !filters.HasAmenities()

	var result *domain.RawPage
	op := func(ctx context.Context, _ int) error {
		if !applied {
			items, err := a.scanAll(ctx, filters)
			if err != nil {
				return err
			}
			// no total: the CMS count covers the unfiltered scan, not the filtered result
			result = &domain.RawPage{Items: items, Applied: false}
			return nil
		}

		payload, header, err := a.fetchListPage(ctx, filters, page, pageSize)
		if err != nil {
			return err
		}
		total := payload.total
		if total == nil {
			total = headerInt(header, "X-WP-Total")
		}
		result = &domain.RawPage{Items: payload.items, TotalCount: total, Applied: true}
		return nil
	}

	fields := port.Fields{"filters": filters.Key(), "page": page, "page_size": pageSize}
	if err := resilient.Call(ctx, a.listingPolicy, op, a.notify(ctx, "fetch_many", fields)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// a missing listing route is an outage for this source, not an empty result
			return nil, domain.NewNetworkError(a.name, err)
		}
		return nil, err
	}
	return result, nil
}

// scanAll reads the listing page by page until the CMS reports no more pages or
// the cap is reached. All pages share the attempt's deadline.
func (a *WPFetcherAdapter) scanAll(ctx context.Context, filters domain.FilterSet) ([]domain.RawRecord, error) {
	var items []domain.RawRecord
	for page := 1; ; page++ {
		payload, header, err := a.fetchListPage(ctx, filters, page, amenityScanPageSize)
		if err != nil {
			return nil, err
		}
		items = append(items, payload.items...)

		if !morePages(payload, header, page, len(items)) {
			return items, nil
		}
		if page >= maxAmenityScanPages {
			contextkeys.LoggerFromContext(ctx).Warn("Amenity scan page cap reached, listing is truncated", port.Fields{
				"source":    string(a.name),
				"filters":   filters.Key(),
				"max_pages": maxAmenityScanPages,
				"items":     len(items),
			})
			return items, nil
		}
	}
}

// morePages decides from the page count, then the item total, then a short page.
func morePages(payload listPayload, header http.Header, page, seen int) bool {
	if len(payload.items) == 0 {
		return false
	}
	totalPages := payload.totalPages
	if totalPages == nil {
		totalPages = headerInt(header, "X-WP-TotalPages")
	}
	if totalPages != nil {
		return page < *totalPages
	}
	total := payload.total
	if total == nil {
		total = headerInt(header, "X-WP-Total")
	}
	if total != nil {
		return seen < *total
	}
	return len(payload.items) >= amenityScanPageSize
}

func (a *WPFetcherAdapter) fetchListPage(ctx context.Context, filters domain.FilterSet, page, pageSize int) (listPayload, http.Header, error) {
	rawURL := a.listingURL(filters, page, pageSize)
	res := a.get(ctx, a.listingCollector, rawURL)
	if err := a.classify(res, ""); err != nil {
		return listPayload{}, nil, err
	}
	payload, err := decodeList(res.body)
	if err != nil {
		return listPayload{}, nil, resilient.Permanent(domain.NewMalformedResponseError(a.name, fmt.Errorf("%s: %w", rawURL, err)))
	}
	return payload, res.header, nil
}

func headerInt(header http.Header, key string) *int {
	if header == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(header.Get(key)))
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func (a *WPFetcherAdapter) listingURL(f domain.FilterSet, page, pageSize int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(pageSize))

	set := func(key, val string) {
		if !domain.IsAny(val) {
			q.Set(key, strings.TrimSpace(val))
		}
	}
	set("location", f.Location)
	set("min_price", f.MinPrice)
	set("max_price", f.MaxPrice)
	set("bedrooms", f.Bedrooms)
	set("bathrooms", f.Bathrooms)
	set("property_type", f.PropertyType)

	return a.baseURL + "/anjia/v1/properties?" + q.Encode()
}
