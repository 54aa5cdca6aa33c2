package rest

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/port"
)

var queryValidate = validator.New()

// Rules for listing query parameters. A value that breaks its rule is dropped.
var listingRules = map[string]string{
	"page":         "numeric,max=9",
	"location":     "max=100",
	"minPrice":     "max=32",
	"maxPrice":     "max=32",
	"bedrooms":     "max=10",
	"bathrooms":    "max=10",
	"propertyType": "max=40",
}

const amenityRule = "max=50"

// listingQuery is a parsed listing request.
type listingQuery struct {
	Page    int
	Filters domain.FilterSet
	// Dropped lists the parameters that failed validation.
	Dropped []string
}

func parseListingQuery(q url.Values, logger port.LoggerPort) listingQuery {
	out := listingQuery{Page: 1}

	get := func(name string) string {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			return ""
		}
		if err := queryValidate.Var(v, listingRules[name]); err != nil {
			out.Dropped = append(out.Dropped, name)
			return ""
		}
		return v
	}

	if p := get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			out.Page = n
		} else {
			out.Dropped = append(out.Dropped, "page")
		}
	}

	out.Filters = domain.FilterSet{
		Location:     get("location"),
		MinPrice:     get("minPrice"),
		MaxPrice:     get("maxPrice"),
		Bedrooms:     get("bedrooms"),
		Bathrooms:    get("bathrooms"),
		PropertyType: get("propertyType"),
	}

	for _, raw := range q["amenities"] {
		for _, a := range strings.Split(raw, ",") {
			a = strings.TrimSpace(a)
			if a == "" {
				continue
			}
			if err := queryValidate.Var(a, amenityRule); err != nil {
				out.Dropped = append(out.Dropped, "amenities")
				continue
			}
			out.Filters.Amenities = append(out.Filters.Amenities, a)
		}
	}

	if len(out.Dropped) > 0 {
		logger.Warn("Dropped invalid query parameters", port.Fields{"params": out.Dropped})
	}
	return out
}
