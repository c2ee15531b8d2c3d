package httpapi

import (
	"encoding/json"
	"net/http"

	"talentflow-engine/internal/leadflow"
	"talentflow-engine/internal/store"
)

type LeadsHandler struct {
	DB    *store.DB
	Leads *leadflow.Manager
}

// Submit is the public lead form endpoint.
func (h LeadsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in leadflow.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	lead, err := h.Leads.Submit(r.Context(), in)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, lead)
}

func (h LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := store.ListLeads(r.Context(), h.DB.Pool, r.URL.Query().Get("status"))
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	if leads == nil {
		leads = []store.Lead{}
	}
	WriteJSON(w, http.StatusOK, leads)
}

// ActByPath dispatches /leads/{id} and /leads/{id}/{approve|reject|convert}.
func (h LeadsHandler) ActByPath(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/leads/")
	if len(parts) == 0 {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "missing lead id")
		return
	}
	id, ok := parseID(parts[0])
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "invalid lead id")
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		lead, err := store.FindLeadByID(r.Context(), h.DB.Pool, id)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, lead)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch parts[1] {
	case "approve":
		lead, err := h.Leads.Approve(r.Context(), id)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, lead)
	case "reject":
		lead, err := h.Leads.Reject(r.Context(), id)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, lead)
	case "convert":
		company, err := h.Leads.Convert(r.Context(), id)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, company)
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown lead action")
	}
}
