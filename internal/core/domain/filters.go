package domain

import (
	"net/url"
	"sort"
	"strings"
)

// AnyValue disables an exact-match filter.
const AnyValue = "any"

// FilterSet holds the optional constraints of a listing query.
// Empty fields are unconstrained.
type FilterSet struct {
	Location     string   `json:"location,omitempty"`
	MinPrice     string   `json:"minPrice,omitempty"`
	MaxPrice     string   `json:"maxPrice,omitempty"`
	Bedrooms     string   `json:"bedrooms,omitempty"`
	Bathrooms    string   `json:"bathrooms,omitempty"`
	PropertyType string   `json:"propertyType,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
}

// IsAny reports whether an exact-match filter value is unset.
func IsAny(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AnyValue)
}

// Key serializes the filter set deterministically for use in cache keys.
func (f FilterSet) Key() string {
	v := url.Values{}
	set := func(k, val string) {
		if val = strings.TrimSpace(val); val != "" {
			v.Set(k, val)
		}
	}
	set("location", strings.ToLower(f.Location))
	set("minPrice", f.MinPrice)
	set("maxPrice", f.MaxPrice)
	if !IsAny(f.Bedrooms) {
		set("bedrooms", f.Bedrooms)
	}
	if !IsAny(f.Bathrooms) {
		set("bathrooms", f.Bathrooms)
	}
	if !IsAny(f.PropertyType) {
		set("propertyType", f.PropertyType)
	}

	amenities := make([]string, 0, len(f.Amenities))
	for _, a := range f.Amenities {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			amenities = append(amenities, a)
		}
	}
	sort.Strings(amenities)
	if len(amenities) > 0 {
		v.Set("amenities", strings.Join(amenities, ","))
	}

	// Encode sorts by key.
	return v.Encode()
}

// HasAmenities reports whether any amenity constraint is present.
func (f FilterSet) HasAmenities() bool {
	for _, a := range f.Amenities {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	return false
}
