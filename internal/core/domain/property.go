package domain

// PropertyType is the normalized listing category.
type PropertyType string

const (
	TypeApartment   PropertyType = "apartment"
	TypeHouse       PropertyType = "house"
	TypeLand        PropertyType = "land"
	TypeHotel       PropertyType = "hotel"
	TypeCommercial  PropertyType = "commercial"
	TypeStudio      PropertyType = "studio"
	TypeVilla       PropertyType = "villa"
	TypeCondominium PropertyType = "condominium"
	TypeUnknown     PropertyType = "property"
)

// Currency of the listed price.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyUGX Currency = "UGX"
)

// Agent is the contact block shown on every listing. It is configured, not sourced.
type Agent struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// Property is the canonical, source-independent listing record.
// Records returned by the resolution pipeline must be treated as read-only.
type Property struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Location     string       `json:"location"`
	PropertyType PropertyType `json:"propertyType"`
	Bedrooms     string       `json:"bedrooms"`
	Bathrooms    string       `json:"bathrooms"`
	Price        string       `json:"price"`
	Currency     Currency     `json:"currency"`
	PaymentTerms string       `json:"paymentTerms,omitempty"`
	Amenities    []string     `json:"amenities"`
	Images       []string     `json:"images"`
	IsPremium    bool         `json:"isPremium"`

	OwnerName    string `json:"ownerName,omitempty"`
	OwnerContact string `json:"ownerContact,omitempty"`
	GooglePin    string `json:"googlePin,omitempty"`
	SquareMeters string `json:"squareMeters,omitempty"`
	Floor        string `json:"floor,omitempty"`
	Units        string `json:"units,omitempty"`

	Agents Agent `json:"agents"`
}

// Defaults for fields a source did not supply.
const (
	UnknownID          = "unknown"
	DefaultTitle       = "Untitled Property"
	DefaultDescription = "<p>No description available.</p>"
	DefaultLocation    = "Location not specified"
	DefaultCount       = "0"
	DefaultPrice       = "0"
	// ContactAgentPrice is used only by the synthetic record built when every source failed.
	ContactAgentPrice = "Contact agent"
)

// DefaultAmenities keeps listings from looking empty when a source has no amenities.
var DefaultAmenities = []string{"Parking", "Security", "Water", "Electricity"}

// DefaultAmenitiesCopy returns a fresh slice so callers can't alias the package value.
func DefaultAmenitiesCopy() []string {
	out := make([]string, len(DefaultAmenities))
	copy(out, DefaultAmenities)
	return out
}

// ResolvedProperty is a single-item lookup result together with the tier that served it.
type ResolvedProperty struct {
	Property Property `json:"property"`
	Source   Source   `json:"source"`
}
