package httpapi

import (
	"net/http"
	"sync/atomic"

	"talentflow-engine/internal/config"
)

type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
}

// Get returns the running config with the admin token blanked. Secrets live
// in the keyring, never in this payload.
func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	cfg.App.AdminToken = ""
	WriteJSON(w, http.StatusOK, cfg)
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"path": h.UserCfgPath})
}
