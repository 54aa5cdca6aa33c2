package wpfetcher

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"anjia-property-service/internal/core/domain"
)

var (
	errEmptyBody  = errors.New("empty body")
	errNoRecord   = errors.New("payload holds no property object")
	errNoItemList = errors.New("payload holds no property list")
)

// listKeys are the envelope fields custom endpoints have used for the item array.
var listKeys = []string{"properties", "items", "data", "results"}

// decodeRecord accepts a post object or a one-element array of them.
func decodeRecord(body []byte) (domain.CMSRecord, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errEmptyBody
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}

	switch t := v.(type) {
	case map[string]any:
		if isRecord(t) {
			return domain.CMSRecord(t), nil
		}
	case []any:
		if len(t) > 0 {
			if m, ok := t[0].(map[string]any); ok && isRecord(m) {
				return domain.CMSRecord(m), nil
			}
		}
	}
	return nil, errNoRecord
}

// isRecord rejects WordPress error envelopes ({code, message, data}) and empty objects.
func isRecord(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	_, hasCode := m["code"]
	_, hasMessage := m["message"]
	if hasCode && hasMessage {
		return false
	}
	return true
}

type listPayload struct {
	items      []domain.RawRecord
	total      *int
	totalPages *int
}

// decodeList accepts a bare array or an envelope with the items under one of
// listKeys and an optional total.
func decodeList(body []byte) (listPayload, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return listPayload{}, errEmptyBody
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return listPayload{}, err
	}

	var raw []any
	var total, totalPages *int
	switch t := v.(type) {
	case []any:
		raw = t
	case map[string]any:
		found := false
		for _, key := range listKeys {
			if arr, ok := t[key].([]any); ok {
				raw, found = arr, true
				break
			}
		}
		if !found {
			return listPayload{}, errNoItemList
		}
		for _, key := range []string{"total", "totalCount", "total_count", "found_posts"} {
			if n, ok := asInt(t[key]); ok {
				total = &n
				break
			}
		}
		for _, key := range []string{"total_pages", "totalPages", "max_num_pages"} {
			if n, ok := asInt(t[key]); ok {
				totalPages = &n
				break
			}
		}
	default:
		return listPayload{}, errNoItemList
	}

	items := make([]domain.RawRecord, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok && len(m) > 0 {
			items = append(items, domain.CMSRecord(m))
		}
	}
	return listPayload{items: items, total: total, totalPages: totalPages}, nil
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t >= 0 {
			return int(t), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil && n >= 0 {
			return n, true
		}
	}
	return 0, false
}
