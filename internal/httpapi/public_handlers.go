package httpapi

import (
	"net/http"

	"talentflow-engine/internal/store"
	"talentflow-engine/internal/workflow"
)

// PublicHandler serves the applicant-facing surface: the published position
// view and the application form target.
type PublicHandler struct {
	Flow       *workflow.Engine
	Applicants ApplicantsHandler
}

// ByPath dispatches /public/positions/{code} and
// /public/positions/{code}/apply.
func (h PublicHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/public/positions/")
	if len(parts) == 0 {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "missing position code")
		return
	}
	code := parts[0]

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		view, err := h.Flow.GetPublicView(r.Context(), code)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, view)
		return
	}

	if parts[1] == "apply" && r.Method == http.MethodPost {
		h.Applicants.Apply(w, r, code)
		return
	}
	WriteError(w, r, http.StatusNotFound, "not_found", "unknown public path")
}

// FilesHandler serves stored upload blobs at /files/{key}.
type FilesHandler struct {
	DB *store.DB
}

func (h FilesHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/files/")
	if len(parts) != 1 || parts[0] == "" {
		http.Error(w, "missing key", 400)
		return
	}
	u, err := store.GetUpload(r.Context(), h.DB.Pool, parts[0])
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", u.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+u.Filename+`"`)
	w.Header().Set("Cache-Control", "private, max-age=604800")
	_, _ = w.Write(u.Bytes)
}
