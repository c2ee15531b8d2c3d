package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"talentflow-engine/internal/config"
	"talentflow-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setMailKeyReq struct {
	Key string `json:"key"`
}

func (h SecretsHandler) SetMailAPIKey(w http.ResponseWriter, r *http.Request) {
	var req setMailKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetMailAPIKey(cfg.Mail.KeyringAccount, req.Key); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", "failed to store key: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
