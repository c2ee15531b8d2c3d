package httpapi

import (
	"net/http"

	"talentflow-engine/internal/store"
)

// HealthHandler answers liveness probes. It pings the database so a wedged
// sqlite file shows up here before it shows up as failing transitions.
type HealthHandler struct {
	DB *store.DB
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.Pool.PingContext(r.Context()); err != nil {
			WriteError(w, r, http.StatusServiceUnavailable, "db_unavailable", "Database unavailable")
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "talentflow-engine",
	})
}
