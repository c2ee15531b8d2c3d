package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"talentflow-engine/internal/areas"
	"talentflow-engine/internal/store"
	"talentflow-engine/internal/workflow"
)

type PositionsHandler struct {
	DB    *store.DB
	Flow  *workflow.Engine
	Areas *areas.Resolver
}

func (h PositionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in workflow.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	pos, err := h.Flow.Create(r.Context(), in)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, pos)
}

func (h PositionsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts store.ListPositionsOpts
	if v := q.Get("company_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_query", "invalid company_id")
			return
		}
		opts.CompanyID = id
	}
	opts.Stage = q.Get("stage")
	opts.Area = q.Get("area")

	positions, err := store.ListPositions(r.Context(), h.DB.Pool, opts)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	if positions == nil {
		positions = []store.Position{}
	}
	WriteJSON(w, http.StatusOK, positions)
}

// ActByPath dispatches /positions/{id}, /positions/{id}/notify-leader,
// /positions/{id}/jd and /positions/{id}/applicants.
func (h PositionsHandler) ActByPath(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/positions/")
	if len(parts) == 0 {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "missing position id")
		return
	}
	id, ok := parseID(parts[0])
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "invalid position id")
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		pos, err := store.FindPositionByID(r.Context(), h.DB.Pool, id)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, pos)
		return
	}

	switch parts[1] {
	case "notify-leader":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		pos, err := h.Flow.NotifyLeader(r.Context(), id)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, pos)
	case "jd":
		h.jd(w, r, id)
	case "applicants":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		applicants, err := store.ListApplicants(r.Context(), h.DB.Pool, store.ListApplicantsOpts{
			PositionID:    id,
			Qualification: r.URL.Query().Get("qualification"),
			OrderByScore:  r.URL.Query().Get("order") == "score",
		})
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		if applicants == nil {
			applicants = []store.Applicant{}
		}
		WriteJSON(w, http.StatusOK, applicants)
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown position action")
	}
}

type upsertJDReq struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

func (h PositionsHandler) jd(w http.ResponseWriter, r *http.Request, positionID int64) {
	switch r.Method {
	case http.MethodGet:
		jd, found, err := store.FindCurrentJD(r.Context(), h.DB.Pool, positionID)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		if !found {
			WriteError(w, r, http.StatusNotFound, "not_found", "no job description yet")
			return
		}
		WriteJSON(w, http.StatusOK, jd)
	case http.MethodPost, http.MethodPut:
		var req upsertJDReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json body")
			return
		}
		jd, err := h.Flow.UpsertJD(r.Context(), positionID, req.Content, req.Author)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, jd)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// LeaderByPath serves the leader specification surface reached from the
// request email: GET returns the position with its area question set, POST
// submits the answers.
func (h PositionsHandler) LeaderByPath(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/leader/positions/")
	if len(parts) != 1 {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "invalid leader path")
		return
	}
	id, ok := parseID(parts[0])
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "invalid position id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		pos, err := store.FindPositionByID(r.Context(), h.DB.Pool, id)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		set, err := h.Areas.Resolve(pos.Area)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"position":  pos,
			"questions": set,
		})
	case http.MethodPost:
		var in workflow.LeaderInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json body")
			return
		}
		pos, err := h.Flow.LeaderSubmit(r.Context(), id, in)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, pos)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
