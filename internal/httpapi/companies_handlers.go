package httpapi

import (
	"net/http"

	"talentflow-engine/internal/store"
)

type CompaniesHandler struct {
	DB *store.DB
}

func (h CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := store.ListCompanies(r.Context(), h.DB.Pool)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	if companies == nil {
		companies = []store.Company{}
	}
	WriteJSON(w, http.StatusOK, companies)
}

func (h CompaniesHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, "/companies/")
	if len(parts) != 1 {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "invalid company path")
		return
	}
	id, ok := parseID(parts[0])
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_path", "invalid company id")
		return
	}
	company, err := store.FindCompanyByID(r.Context(), h.DB.Pool, id)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, company)
}
