package domain

// Page sizes used by the front end.
const (
	ListingPageSize = 12
	LatestPageSize  = 6
)

// ListingResult is a filtered, paginated list of canonical properties.
type ListingResult struct {
	Items       []Property `json:"items"`
	TotalCount  int        `json:"totalCount"`
	TotalPages  int        `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
	Source      Source     `json:"source"`
}
