package httpapi

import (
	"net/http"

	"talentflow-engine/internal/areas"
)

type AreasHandler struct {
	Areas *areas.Resolver
}

func (h AreasHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"areas": h.Areas.Areas()})
}

func (h AreasHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/areas/")
	if len(parts) != 1 || parts[0] == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "missing area")
		return
	}
	set, err := h.Areas.Resolve(parts[0])
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, set)
}
