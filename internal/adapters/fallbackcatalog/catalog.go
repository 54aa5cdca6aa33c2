// Package fallbackcatalog is the always-available last data source: a handful of
// hand-written listings that any id maps onto deterministically.
package fallbackcatalog

import (
	"context"
	"strconv"
	"strings"

	"anjia-property-service/internal/core/domain"
)

var catalog = []domain.FallbackRecord{
	{
		ID:           "0",
		Title:        "Modern Apartment in Kololo",
		Description:  "<p>Spacious apartment with city views, fitted kitchen and round-the-clock security.</p>",
		Location:     "Kololo, Kampala",
		Type:         "apartment",
		Bedrooms:     3,
		Bathrooms:    2,
		Price:        1500,
		Currency:     "USD",
		PaymentTerms: "Monthly",
		Amenities:    "Parking, Security, Swimming Pool, Gym",
		Image:        "/wp-content/uploads/fallback/kololo-apartment.jpg",
		IsPremium:    true,
	},
	{
		ID:           "1",
		Title:        "Family House in Muyenga",
		Description:  "<p>Four bedroom family home with a walled garden and staff quarters.</p>",
		Location:     "Muyenga, Kampala",
		Type:         "house",
		Bedrooms:     4,
		Bathrooms:    3,
		Price:        2000,
		Currency:     "USD",
		PaymentTerms: "Monthly",
		Amenities:    "Parking, Security, Garden, Staff Quarters",
		Image:        "/wp-content/uploads/fallback/muyenga-house.jpg",
	},
	{
		ID:           "2",
		Title:        "Studio in Bukoto",
		Description:  "<p>Compact furnished studio close to shops and public transport.</p>",
		Location:     "Bukoto, Kampala",
		Type:         "studio",
		Bedrooms:     1,
		Bathrooms:    1,
		Price:        400,
		Currency:     "USD",
		PaymentTerms: "Monthly",
		Amenities:    "Security, Water, Electricity, WiFi",
		Image:        "/wp-content/uploads/fallback/bukoto-studio.jpg",
	},
	{
		ID:           "3",
		Title:        "Office Space in Nakasero",
		Description:  "<p>Open-plan office floor with lift access and backup power.</p>",
		Location:     "Nakasero, Kampala",
		Type:         "commercial",
		Bedrooms:     0,
		Bathrooms:    2,
		Price:        2500,
		Currency:     "USD",
		PaymentTerms: "Monthly",
		Amenities:    "Parking, Security, Elevator, Backup Generator",
		Image:        "/wp-content/uploads/fallback/nakasero-office.jpg",
	},
	{
		ID:           "4",
		Title:        "Lakeside Villa in Munyonyo",
		Description:  "<p>Five bedroom villa with pool and direct views of Lake Victoria.</p>",
		Location:     "Munyonyo, Kampala",
		Type:         "villa",
		Bedrooms:     5,
		Bathrooms:    4,
		Price:        3500,
		Currency:     "USD",
		PaymentTerms: "Monthly",
		Amenities:    "Parking, Security, Swimming Pool, Garden, Lake View",
		Image:        "/wp-content/uploads/fallback/munyonyo-villa.jpg",
		IsPremium:    true,
	},
}

// CatalogAdapter never fails a single-item lookup.
type CatalogAdapter struct {
	records []domain.FallbackRecord
}

func NewCatalogAdapter() *CatalogAdapter {
	return &CatalogAdapter{records: catalog}
}

func (a *CatalogAdapter) Name() domain.Source {
	return domain.SourceFallback
}

// FetchOne maps id onto the catalog and returns a copy carrying the requested id.
func (a *CatalogAdapter) FetchOne(ctx context.Context, id string) (domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := a.records[a.Index(id)]
	rec.ID = id
	return rec, nil
}

// FetchMany serves the catalog unfiltered.
func (a *CatalogAdapter) FetchMany(ctx context.Context, _ domain.FilterSet, _, _ int) (*domain.RawPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := make([]domain.RawRecord, len(a.records))
	for i, r := range a.records {
		items[i] = r
	}
	return &domain.RawPage{Items: items}, nil
}

// Index is the catalog slot an id is served from. Seed ids 0-9 alias onto
// n % N; anything else uses the absolute value of its leading integer (0 when
// there is none) modulo N.
func (a *CatalogAdapter) Index(id string) int {
	n := len(a.records)
	if v, err := strconv.Atoi(strings.TrimSpace(id)); err == nil && v >= 0 && v < 10 {
		return v % n
	}
	return leadingIntMod(id, n)
}

// leadingIntMod reads the leading integer of s digit by digit, keeping only its
// remainder so arbitrarily long ids cannot overflow. The sign is dropped.
func leadingIntMod(s string, n int) int {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	v := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		v = (v*10 + int(s[i]-'0')) % n
	}
	return v
}
