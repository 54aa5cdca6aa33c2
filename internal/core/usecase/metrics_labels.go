package usecase

// Metric label values.
const (
	kindItem    = "item"
	kindListing = "listing"
	outcomeOK   = "ok"
)
