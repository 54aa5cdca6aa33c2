package wpfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/port"
	"anjia-property-service/pkg/resilient"
)

// FetchOne loads a single post. The first attempt asks for embedded media; a payload
// that cannot be used and every retry fall back to the plain request.
func (a *WPFetcherAdapter) FetchOne(ctx context.Context, id string) (domain.RawRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewNotFoundError(a.name, id)
	}

	var record domain.CMSRecord
	op := func(ctx context.Context, attempt int) error {
		embed := attempt == 1
		rec, err := a.fetchRecord(ctx, id, embed)
		if err != nil && embed && errors.Is(err, domain.ErrMalformedResponse) {
			rec, err = a.fetchRecord(ctx, id, false)
		}
		if err != nil {
			if errors.Is(err, domain.ErrMalformedResponse) {
				return resilient.Permanent(err)
			}
			return err
		}
		record = rec
		return nil
	}

	if err := resilient.Call(ctx, a.itemPolicy, op, a.notify(ctx, "fetch_one", port.Fields{"property_id": id})); err != nil {
		return nil, err
	}
	return record, nil
}

func (a *WPFetcherAdapter) fetchRecord(ctx context.Context, id string, embed bool) (domain.CMSRecord, error) {
	rawURL := a.itemURL(id, embed)
	res := a.get(ctx, a.itemCollector, rawURL)
	if err := a.classify(res, id); err != nil {
		return nil, err
	}

	rec, err := decodeRecord(res.body)
	if err != nil {
		return nil, domain.NewMalformedResponseError(a.name, fmt.Errorf("%s: %w", rawURL, err))
	}
	return rec, nil
}

func (a *WPFetcherAdapter) itemURL(id string, embed bool) string {
	u := fmt.Sprintf("%s/wp/v2/property/%s", a.baseURL, url.PathEscape(id))
	if embed {
		u += "?_embed"
	}
	return u
}
