package rest

import "anjia-property-service/internal/core/domain"

// ListingResponse is the body of the listing endpoints.
type ListingResponse struct {
	Properties  []domain.Property `json:"properties"`
	TotalCount  int               `json:"totalCount"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Source      domain.Source     `json:"source"`
}

type PropertyResponse struct {
	Property domain.Property `json:"property"`
	Source   domain.Source   `json:"source"`
}

// RevalidateRequest names one property or, with All, the whole cache.
type RevalidateRequest struct {
	ID  string `json:"id"`
	All bool   `json:"all"`
}

type RevalidateResponse struct {
	Invalidated int `json:"invalidated"`
}

func toListingResponse(res domain.ListingResult) ListingResponse {
	items := res.Items
	if items == nil {
		items = []domain.Property{}
	}
	return ListingResponse{
		Properties:  items,
		TotalCount:  res.TotalCount,
		TotalPages:  res.TotalPages,
		CurrentPage: res.CurrentPage,
		Source:      res.Source,
	}
}
