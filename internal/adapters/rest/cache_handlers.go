package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"anjia-property-service/internal/core/port/usecases_port"
)

type CacheHandler struct {
	invalidateUC usecases_port.InvalidateCacheUseCase
}

func NewCacheHandler(invalidateUC usecases_port.InvalidateCacheUseCase) *CacheHandler {
	return &CacheHandler{invalidateUC: invalidateUC}
}

// Revalidate drops cache entries for {"id": ...} or, with {"all": true}, all of them.
func (h *CacheHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	var req RevalidateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := strings.TrimSpace(req.ID)
	if req.All {
		id = ""
	} else if id == "" {
		WriteJSONError(w, http.StatusBadRequest, "Either id or all is required")
		return
	}

	n := h.invalidateUC.Execute(r.Context(), id)

	RespondWithJSON(w, http.StatusOK, RevalidateResponse{Invalidated: n})
}
