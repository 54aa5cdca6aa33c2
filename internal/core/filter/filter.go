// Package filter applies listing filters and pagination the same way whatever
// source the items came from.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"anjia-property-service/internal/core/domain"
)

// Page is one page of filtered items.
type Page struct {
	Items      []domain.Property
	TotalCount int
	TotalPages int
}

// Apply filters items and returns the requested 1-based page. An out-of-range page
// yields an empty Items slice with the totals still filled in.
func Apply(items []domain.Property, f domain.FilterSet, page, pageSize int) Page {
	matched := Match(items, f)
	return Paginate(matched, page, pageSize)
}

// Match returns the items satisfying every constraint of f, in input order.
func Match(items []domain.Property, f domain.FilterSet) []domain.Property {
	m := newMatcher(f)
	out := make([]domain.Property, 0, len(items))
	for _, p := range items {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Paginate slices an already filtered list.
func Paginate(items []domain.Property, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = domain.ListingPageSize
	}
	total := len(items)
	res := Page{
		Items:      []domain.Property{},
		TotalCount: total,
		TotalPages: TotalPages(total, pageSize),
	}
	if page < 1 {
		return res
	}
	start := (page - 1) * pageSize
	if start >= total {
		return res
	}
	end := min(start+pageSize, total)
	res.Items = append(res.Items, items[start:end]...)
	return res
}

// TotalPages is ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

type matcher struct {
	fold      cases.Caser
	location  string
	minPrice  int
	hasMin    bool
	maxPrice  int
	hasMax    bool
	bedrooms  string
	bathrooms string
	propType  string
	amenities []string
}

func newMatcher(f domain.FilterSet) *matcher {
	m := &matcher{fold: cases.Fold()}

	if loc := strings.TrimSpace(f.Location); loc != "" {
		m.location = m.fold.String(loc)
	}
	// unparseable bounds are dropped
	m.minPrice, m.hasMin = ParseInt(f.MinPrice)
	m.maxPrice, m.hasMax = ParseInt(f.MaxPrice)

	if !domain.IsAny(f.Bedrooms) {
		m.bedrooms = strings.TrimSpace(f.Bedrooms)
	}
	if !domain.IsAny(f.Bathrooms) {
		m.bathrooms = strings.TrimSpace(f.Bathrooms)
	}
	if !domain.IsAny(f.PropertyType) {
		m.propType = strings.TrimSpace(f.PropertyType)
	}
	for _, a := range f.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			m.amenities = append(m.amenities, m.fold.String(a))
		}
	}
	return m
}

func (m *matcher) match(p domain.Property) bool {
	if m.location != "" && !strings.Contains(m.fold.String(p.Location), m.location) {
		return false
	}

	price, priceOK := ParseInt(p.Price)
	if m.hasMin {
		if !priceOK {
			price = 0
		}
		if price < m.minPrice {
			return false
		}
	}
	if m.hasMax && priceOK && price > m.maxPrice {
		return false
	}

	if m.bedrooms != "" && p.Bedrooms != m.bedrooms {
		return false
	}
	if m.bathrooms != "" && p.Bathrooms != m.bathrooms {
		return false
	}
	if m.propType != "" && string(p.PropertyType) != m.propType {
		return false
	}

	for _, want := range m.amenities {
		if !m.hasAmenity(p.Amenities, want) {
			return false
		}
	}
	return true
}

func (m *matcher) hasAmenity(have []string, want string) bool {
	for _, a := range have {
		if m.fold.String(strings.TrimSpace(a)) == want {
			return true
		}
	}
	return false
}

// ParseInt reads a leading base-10 integer the way browsers' parseInt does:
// leading space and sign are accepted, parsing stops at the first non-digit.
// "1,500" gives 1 and "600-850" gives 600.
func ParseInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		if n < (1<<62)/10 {
			n = n*10 + int(s[digits]-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
