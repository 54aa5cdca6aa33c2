package normalize

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"

	"anjia-property-service/internal/core/domain"
)

// cmsView splits a WordPress record into its custom-field maps and the top level.
type cmsView struct {
	top     map[string]any
	customs []map[string]any
}

// customFieldKeys are the places WordPress plugins put custom fields, in priority order.
var customFieldKeys = []string{"acf", "custom_fields", "meta", "fields"}

func newCMSView(r domain.CMSRecord) cmsView {
	v := cmsView{top: map[string]any(r)}
	for _, key := range customFieldKeys {
		if m, ok := r[key].(map[string]any); ok {
			v.customs = append(v.customs, m)
		}
	}
	return v
}

// accessor pulls one candidate value out of a record; nil means "not here".
type accessor func(v cmsView) any

// chain is a field resolution chain: the first accessor yielding a non-empty value wins.
type chain []accessor

func (c chain) str(v cmsView, def string) string {
	for _, get := range c {
		if s := stringify(get(v)); s != "" {
			return s
		}
	}
	return def
}

func (c chain) raw(v cmsView) any {
	for _, get := range c {
		if val := get(v); !isEmpty(val) {
			return val
		}
	}
	return nil
}

// custom reads a snake_case custom field.
func custom(name string) accessor {
	return func(v cmsView) any {
		for _, m := range v.customs {
			if val, ok := m[name]; ok && !isEmpty(val) {
				return val
			}
		}
		return nil
	}
}

// alias reads a camelCase field, custom fields first.
func alias(name string) accessor {
	return func(v cmsView) any {
		if val := custom(name)(v); val != nil {
			return val
		}
		return top(name)(v)
	}
}

// top reads a legacy top-level field.
func top(name string) accessor {
	return func(v cmsView) any {
		if val, ok := v.top[name]; ok && !isEmpty(val) {
			return val
		}
		return nil
	}
}

// Field chains for CMS records.
var (
	idChain          = chain{top("id"), top("ID"), custom("property_id"), alias("propertyId"), top("slug")}
	titleChain       = chain{custom("property_title"), alias("propertyTitle"), top("title"), top("name")}
	descriptionChain = chain{custom("property_description"), custom("description"), alias("propertyDescription"), top("content"), top("description"), top("excerpt")}
	locationChain    = chain{custom("location"), custom("property_location"), custom("address"), alias("propertyLocation"), top("location"), top("address")}
	typeChain        = chain{custom("property_type"), custom("type_of_property"), alias("propertyType"), top("property_type")}
	bedroomsChain    = chain{custom("bedrooms"), custom("number_of_bedrooms"), alias("numberOfBedrooms"), top("bedrooms")}
	bathroomsChain   = chain{custom("bathrooms"), custom("number_of_bathrooms"), alias("numberOfBathrooms"), top("bathrooms")}
	priceChain       = chain{custom("price"), custom("property_price"), custom("rent_price"), alias("propertyPrice"), alias("rentPrice"), top("price")}
	currencyChain    = chain{custom("currency"), custom("price_currency"), alias("priceCurrency"), top("currency")}
	termsChain       = chain{custom("payment_terms"), custom("payment_period"), alias("paymentTerms"), top("payment_terms")}
	premiumChain     = chain{custom("is_premium"), custom("premium"), alias("isPremium"), top("is_premium")}
	amenitiesChain   = chain{custom("amenities"), custom("features"), custom("property_features"), alias("propertyFeatures"), top("amenities"), top("features")}
	ownerNameChain   = chain{custom("owner_name"), alias("ownerName"), top("owner_name")}
	ownerPhoneChain  = chain{custom("owner_contact"), custom("owner_phone"), alias("ownerContact"), top("owner_contact")}
	googlePinChain   = chain{custom("google_pin"), custom("map_location"), alias("googlePin"), top("google_pin")}
	sizeChain        = chain{custom("square_meters"), custom("size"), alias("squareMeters"), top("square_meters")}
	floorChain       = chain{custom("floor"), custom("floor_number"), alias("floorNumber"), top("floor")}
	unitsChain       = chain{custom("units"), custom("number_of_units"), alias("numberOfUnits"), top("units")}
)

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		// ACF reports unset fields as false
		return !t
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		if r, ok := t["rendered"]; ok {
			return isEmpty(r)
		}
		return len(t) == 0
	}
	return false
}

// stringify renders scalar JSON values; WordPress {rendered: ...} objects are unwrapped.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case map[string]any:
		if r, ok := t["rendered"]; ok {
			return stringify(r)
		}
		if l, ok := t["label"]; ok {
			return stringify(l)
		}
		if val, ok := t["value"]; ok {
			return stringify(val)
		}
	}
	return ""
}

// plainText unescapes HTML entities WordPress puts into rendered titles.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

// truthy interprets the many ways a CMS spells a boolean.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "on", "premium":
			return true
		}
	case []any:
		// ACF checkbox with a single ticked option
		return len(t) > 0
	}
	return false
}

// amenityList accepts arrays, comma-separated strings and ACF choice objects.
func amenityList(v any) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	switch t := v.(type) {
	case string:
		for _, part := range strings.Split(t, ",") {
			add(part)
		}
	case []string:
		for _, s := range t {
			add(s)
		}
	case []any:
		for _, item := range t {
			add(stringify(item))
		}
	}
	return out
}
