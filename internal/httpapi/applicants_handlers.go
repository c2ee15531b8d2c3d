package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"talentflow-engine/internal/store"
	"talentflow-engine/internal/workflow"
)

type ApplicantsHandler struct {
	DB          *store.DB
	Flow        *workflow.Engine
	MaxUploadMB int
}

func (h ApplicantsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts store.ListApplicantsOpts
	if v := q.Get("position_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_query", "invalid position_id")
			return
		}
		opts.PositionID = id
	}
	opts.Qualification = q.Get("qualification")
	opts.OrderByScore = q.Get("order") == "score"

	applicants, err := store.ListApplicants(r.Context(), h.DB.Pool, opts)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	if applicants == nil {
		applicants = []store.Applicant{}
	}
	WriteJSON(w, http.StatusOK, applicants)
}

type evaluateReq struct {
	Score int    `json:"score"`
	Notes string `json:"notes"`
}

// ActByPath dispatches /applicants/{id} and /applicants/{id}/{qualify|reject}.
func (h ApplicantsHandler) ActByPath(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/applicants/")
	if len(parts) == 0 {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "missing applicant id")
		return
	}
	id, ok := parseID(parts[0])
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "invalid applicant id")
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		a, err := store.FindApplicantByID(r.Context(), h.DB.Pool, id)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, a)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req evaluateReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	switch parts[1] {
	case "qualify":
		a, err := store.QualifyApplicant(r.Context(), h.DB.Pool, id, req.Score, req.Notes)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, a)
	case "reject":
		a, err := store.RejectApplicant(r.Context(), h.DB.Pool, id, req.Notes)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, a)
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown applicant action")
	}
}

// Apply handles the public multipart application form at
// /public/positions/{code}/apply.
func (h ApplicantsHandler) Apply(w http.ResponseWriter, r *http.Request, code string) {
	maxBytes := int64(h.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_form", "invalid or oversized multipart form")
		return
	}

	in := workflow.ApplyInput{
		PositionCode: code,
		FullName:     r.FormValue("full_name"),
		Email:        r.FormValue("email"),
		Phone:        r.FormValue("phone"),
		LinkedInURL:  r.FormValue("linkedin_url"),
		PortfolioURL: r.FormValue("portfolio_url"),
		Location:     r.FormValue("location"),
		CoverLetter:  r.FormValue("cover_letter"),
	}

	if file, header, err := r.FormFile("resume"); err == nil {
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_form", "could not read resume")
			return
		}
		in.Resume = &workflow.FileUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["portfolio"] {
			file, err := header.Open()
			if err != nil {
				continue
			}
			data, readErr := io.ReadAll(file)
			file.Close()
			if readErr != nil {
				continue
			}
			in.Portfolio = append(in.Portfolio, workflow.FileUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	applicant, err := h.Flow.Apply(r.Context(), in)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, applicant)
}
