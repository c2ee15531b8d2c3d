package httpapi

import (
	"encoding/json"
	"net/http"

	"talentflow-engine/internal/store"
	"talentflow-engine/internal/workflow"
)

type JDHandler struct {
	DB   *store.DB
	Flow *workflow.Engine
}

type jdReviewReq struct {
	Feedback string `json:"feedback"`
}

// ActByPath dispatches /jd/{id} and /jd/{id}/{approve|reject|publish}.
func (h JDHandler) ActByPath(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/jd/")
	if len(parts) == 0 {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "missing jd id")
		return
	}
	id, ok := parseID(parts[0])
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "invalid jd id")
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		jd, err := store.FindJDByID(r.Context(), h.DB.Pool, id)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, jd)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req jdReviewReq
	if r.Body != nil {
		// Body is optional for approve and publish.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	switch parts[1] {
	case "approve":
		jd, err := h.Flow.ApproveJD(r.Context(), id, req.Feedback)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, jd)
	case "reject":
		jd, err := h.Flow.RejectJD(r.Context(), id, req.Feedback)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, jd)
	case "publish":
		jd, err := h.Flow.PublishJD(r.Context(), id)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, jd)
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown jd action")
	}
}
