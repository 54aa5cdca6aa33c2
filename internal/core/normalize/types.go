package normalize

import (
	"strings"

	"anjia-property-service/internal/core/domain"
)

var propertyTypeSynonyms = map[string]domain.PropertyType{
	"apartment":    domain.TypeApartment,
	"apartments":   domain.TypeApartment,
	"flat":         domain.TypeApartment,
	"house":        domain.TypeHouse,
	"houses":       domain.TypeHouse,
	"bungalow":     domain.TypeHouse,
	"townhouse":    domain.TypeHouse,
	"land":         domain.TypeLand,
	"plot":         domain.TypeLand,
	"plots":        domain.TypeLand,
	"hotel":        domain.TypeHotel,
	"hotels":       domain.TypeHotel,
	"commercial":   domain.TypeCommercial,
	"office":       domain.TypeCommercial,
	"offices":      domain.TypeCommercial,
	"shop":         domain.TypeCommercial,
	"retail":       domain.TypeCommercial,
	"warehouse":    domain.TypeCommercial,
	"studio":       domain.TypeStudio,
	"studios":      domain.TypeStudio,
	"villa":        domain.TypeVilla,
	"villas":       domain.TypeVilla,
	"condominium":  domain.TypeCondominium,
	"condominiums": domain.TypeCondominium,
	"condo":        domain.TypeCondominium,
	"property":     domain.TypeUnknown,
	"other":        domain.TypeUnknown,
}

// PropertyTypeOf maps free text to the closed property type set.
func PropertyTypeOf(s string) domain.PropertyType {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "_", " ")
	if t, ok := propertyTypeSynonyms[key]; ok {
		return t
	}
	// "2 bedroom apartment", "Commercial space" ...
	for _, word := range strings.Fields(key) {
		if t, ok := propertyTypeSynonyms[word]; ok && t != domain.TypeUnknown {
			return t
		}
	}
	return domain.TypeUnknown
}

// CurrencyOf maps free text to USD or UGX; USD when unclear.
func CurrencyOf(s string) domain.Currency {
	upper := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.Contains(upper, "UGX"), strings.Contains(upper, "USH"), strings.Contains(upper, "SHS"):
		return domain.CurrencyUGX
	default:
		return domain.CurrencyUSD
	}
}

// paymentTermsOf capitalizes known terms and keeps anything else as written.
func paymentTermsOf(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ""
	case "monthly", "month", "per month":
		return "Monthly"
	case "quarterly", "quarter", "per quarter":
		return "Quarterly"
	case "yearly", "annually", "year", "per year":
		return "Yearly"
	}
	return strings.TrimSpace(s)
}
