package domain

// RawRecord is a closed set of upstream payload shapes. The normalizer switches on
// the concrete type instead of probing fields.
type RawRecord interface {
	SourceKind() SourceKind
}

// CMSRecord is a decoded WordPress post object (REST or custom endpoint).
type CMSRecord map[string]any

func (CMSRecord) SourceKind() SourceKind { return KindCMS }

// StaticRecord is an entry of the bundled offline dataset. It is already close to
// the canonical shape.
type StaticRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	PropertyType string   `json:"propertyType"`
	Bedrooms     string   `json:"bedrooms"`
	Bathrooms    string   `json:"bathrooms"`
	Price        string   `json:"price"`
	Currency     string   `json:"currency"`
	PaymentTerms string   `json:"paymentTerms,omitempty"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
	IsPremium    bool     `json:"isPremium"`
	OwnerName    string   `json:"ownerName,omitempty"`
	OwnerContact string   `json:"ownerContact,omitempty"`
	GooglePin    string   `json:"googlePin,omitempty"`
	SquareMeters string   `json:"squareMeters,omitempty"`
	Floor        string   `json:"floor,omitempty"`
	Units        string   `json:"units,omitempty"`
}

func (StaticRecord) SourceKind() SourceKind { return KindStatic }

// FallbackRecord is a hand-authored catalog entry. Counts and price are numbers and
// amenities are a comma-separated string, the way the catalog was written.
type FallbackRecord struct {
	ID           string
	Title        string
	Description  string
	Location     string
	Type         string
	Bedrooms     int
	Bathrooms    int
	Price        int
	Currency     string
	PaymentTerms string
	Amenities    string
	Image        string
	IsPremium    bool
}

func (FallbackRecord) SourceKind() SourceKind { return KindFallback }

// RawPage is what a source returns for a listing query.
type RawPage struct {
	Items []RawRecord
	// TotalCount is nil when the source can't report it.
	TotalCount *int
	// Applied means the source already filtered and paginated Items.
	Applied bool
}
