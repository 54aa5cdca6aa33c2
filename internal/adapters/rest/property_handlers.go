package rest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"anjia-property-service/internal/contextkeys"
	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/port/usecases_port"
)

type PropertyHandler struct {
	listUC    usecases_port.ListPropertiesUseCase
	resolveUC usecases_port.ResolvePropertyUseCase
}

func NewPropertyHandler(listUC usecases_port.ListPropertiesUseCase,
	resolveUC usecases_port.ResolvePropertyUseCase) *PropertyHandler {
	return &PropertyHandler{
		listUC:    listUC,
		resolveUC: resolveUC,
	}
}

// ListProperties serves one filtered page of the catalogue.
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	query := parseListingQuery(r.URL.Query(), logger)

	res := h.listUC.Execute(r.Context(), query.Filters, query.Page, domain.ListingPageSize)

	RespondWithJSON(w, http.StatusOK, toListingResponse(res))
}

// LatestProperties serves the homepage widget: the first page, unfiltered.
func (h *PropertyHandler) LatestProperties(w http.ResponseWriter, r *http.Request) {
	res := h.listUC.Execute(r.Context(), domain.FilterSet{}, 1, domain.LatestPageSize)

	RespondWithJSON(w, http.StatusOK, toListingResponse(res))
}

// GetProperty always answers 200 with the best data available. Only a blank
// id is a client error.
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		WriteJSONError(w, http.StatusBadRequest, "Property id is required")
		return
	}

	res := h.resolveUC.Execute(r.Context(), id)

	RespondWithJSON(w, http.StatusOK, PropertyResponse{
		Property: res.Property,
		Source:   res.Source,
	})
}
