package normalize

import (
	"strconv"
	"strings"

	"anjia-property-service/internal/core/domain"
)

// Config carries the collaborator values the normalizer needs.
type Config struct {
	// CMSBaseURL is used to absolutize root-relative image paths.
	CMSBaseURL  string
	Placeholder string
	Agent       domain.Agent
}

// Normalizer turns any raw record into a canonical Property. It does no I/O.
type Normalizer struct {
	images *ImageResolver
	agent  domain.Agent
}

func New(cfg Config) *Normalizer {
	return &Normalizer{
		images: NewImageResolver(cfg.CMSBaseURL, cfg.Placeholder),
		agent:  cfg.Agent,
	}
}

// Images exposes the resolver so adapters and tests share the same rules.
func (n *Normalizer) Images() *ImageResolver {
	return n.images
}

// Normalize never panics: a field that fails to extract keeps its default.
func (n *Normalizer) Normalize(raw domain.RawRecord) domain.Property {
	p := n.base(domain.UnknownID, domain.DefaultPrice)

	switch rec := raw.(type) {
	case domain.CMSRecord:
		n.fromCMS(&p, rec)
	case domain.StaticRecord:
		n.fromStatic(&p, rec)
	case *domain.StaticRecord:
		if rec != nil {
			n.fromStatic(&p, *rec)
		}
	case domain.FallbackRecord:
		n.fromFallback(&p, rec)
	case *domain.FallbackRecord:
		if rec != nil {
			n.fromFallback(&p, *rec)
		}
	}

	guard(func() { p.Images = n.images.Resolve(raw) })
	n.enforce(&p)
	return p
}

// Synthetic is the record served when every source failed for id.
func (n *Normalizer) Synthetic(id string) domain.Property {
	if strings.TrimSpace(id) == "" {
		id = domain.UnknownID
	}
	p := n.base(id, domain.ContactAgentPrice)
	p.Images = []string{n.images.Placeholder()}
	return p
}

func (n *Normalizer) base(id, price string) domain.Property {
	return domain.Property{
		ID:           id,
		Title:        domain.DefaultTitle,
		Description:  domain.DefaultDescription,
		Location:     domain.DefaultLocation,
		PropertyType: domain.TypeUnknown,
		Bedrooms:     domain.DefaultCount,
		Bathrooms:    domain.DefaultCount,
		Price:        price,
		Currency:     domain.CurrencyUSD,
		Amenities:    domain.DefaultAmenitiesCopy(),
		Agents:       n.agent,
	}
}

// guard isolates a single field extraction.
func guard(set func()) {
	defer func() { _ = recover() }()
	set()
}

// setStr assigns only non-empty values so defaults survive.
func setStr(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func (n *Normalizer) fromCMS(p *domain.Property, rec domain.CMSRecord) {
	v := newCMSView(rec)

	guard(func() { setStr(&p.ID, idChain.str(v, "")) })
	guard(func() { setStr(&p.Title, plainText(titleChain.str(v, ""))) })
	guard(func() { setStr(&p.Description, descriptionChain.str(v, "")) })
	guard(func() { setStr(&p.Location, plainText(locationChain.str(v, ""))) })
	guard(func() { p.PropertyType = PropertyTypeOf(typeChain.str(v, "")) })
	guard(func() { setStr(&p.Bedrooms, countOf(bedroomsChain.str(v, ""))) })
	guard(func() { setStr(&p.Bathrooms, countOf(bathroomsChain.str(v, ""))) })
	guard(func() { setStr(&p.Price, priceChain.str(v, "")) })
	guard(func() { p.Currency = CurrencyOf(currencyChain.str(v, "")) })
	guard(func() { p.PaymentTerms = paymentTermsOf(termsChain.str(v, "")) })
	guard(func() { p.IsPremium = truthy(premiumChain.raw(v)) })
	guard(func() {
		if list := amenityList(amenitiesChain.raw(v)); len(list) > 0 {
			p.Amenities = list
		}
	})
	guard(func() { p.OwnerName = ownerNameChain.str(v, "") })
	guard(func() { p.OwnerContact = ownerPhoneChain.str(v, "") })
	guard(func() { p.GooglePin = googlePinChain.str(v, "") })
	guard(func() { p.SquareMeters = sizeChain.str(v, "") })
	guard(func() { p.Floor = floorChain.str(v, "") })
	guard(func() { p.Units = unitsChain.str(v, "") })
}

func (n *Normalizer) fromStatic(p *domain.Property, rec domain.StaticRecord) {
	setStr(&p.ID, rec.ID)
	setStr(&p.Title, plainText(rec.Title))
	setStr(&p.Description, rec.Description)
	setStr(&p.Location, plainText(rec.Location))
	p.PropertyType = PropertyTypeOf(rec.PropertyType)
	setStr(&p.Bedrooms, countOf(rec.Bedrooms))
	setStr(&p.Bathrooms, countOf(rec.Bathrooms))
	setStr(&p.Price, rec.Price)
	p.Currency = CurrencyOf(rec.Currency)
	p.PaymentTerms = paymentTermsOf(rec.PaymentTerms)
	p.IsPremium = rec.IsPremium
	if list := amenityList(rec.Amenities); len(list) > 0 {
		p.Amenities = list
	}
	p.OwnerName = strings.TrimSpace(rec.OwnerName)
	p.OwnerContact = strings.TrimSpace(rec.OwnerContact)
	p.GooglePin = strings.TrimSpace(rec.GooglePin)
	p.SquareMeters = strings.TrimSpace(rec.SquareMeters)
	p.Floor = strings.TrimSpace(rec.Floor)
	p.Units = strings.TrimSpace(rec.Units)
}

func (n *Normalizer) fromFallback(p *domain.Property, rec domain.FallbackRecord) {
	setStr(&p.ID, rec.ID)
	setStr(&p.Title, rec.Title)
	setStr(&p.Description, rec.Description)
	setStr(&p.Location, rec.Location)
	p.PropertyType = PropertyTypeOf(rec.Type)
	p.Bedrooms = strconv.Itoa(max(rec.Bedrooms, 0))
	p.Bathrooms = strconv.Itoa(max(rec.Bathrooms, 0))
	p.Price = strconv.Itoa(max(rec.Price, 0))
	p.Currency = CurrencyOf(rec.Currency)
	p.PaymentTerms = paymentTermsOf(rec.PaymentTerms)
	p.IsPremium = rec.IsPremium
	if list := amenityList(rec.Amenities); len(list) > 0 {
		p.Amenities = list
	}
}

// enforce restores the record invariants whatever the branches did.
func (n *Normalizer) enforce(p *domain.Property) {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = domain.UnknownID
	}
	if strings.TrimSpace(p.Price) == "" {
		p.Price = domain.DefaultPrice
	}
	if len(p.Amenities) == 0 {
		p.Amenities = domain.DefaultAmenitiesCopy()
	}
	if len(p.Images) == 0 {
		p.Images = []string{n.images.Placeholder()}
	}
	if p.PropertyType == "" {
		p.PropertyType = domain.TypeUnknown
	}
}

// countOf keeps the leading integer of values like "3 bedrooms" or "2.0".
func countOf(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return ""
	}
	return strings.TrimLeft(s[:end], "0") + zeroIfAllZeros(s[:end])
}

func zeroIfAllZeros(digits string) string {
	if strings.TrimLeft(digits, "0") == "" {
		return "0"
	}
	return ""
}
