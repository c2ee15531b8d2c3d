package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"talentflow-engine/internal/hireerr"
)

type APIError struct {
	Error struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Fields    map[string]string `json:"fields,omitempty"`
		RequestID string            `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteDomainError maps the error taxonomy onto HTTP statuses. Unclassified
// errors are logged and surfaced as a bare 500.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	kind := hireerr.KindOf(err)

	var e APIError
	e.Error.Code = string(kind)
	e.Error.Message = err.Error()
	e.Error.RequestID = RequestIDFrom(r.Context())

	var ve *hireerr.ValidationError
	if errors.As(err, &ve) {
		e.Error.Fields = ve.Fields
	}

	switch kind {
	case hireerr.KindValidation, hireerr.KindUnknownArea:
		WriteJSON(w, http.StatusBadRequest, e)
	case hireerr.KindInvalidTransition, hireerr.KindPrecondition, hireerr.KindDuplicate:
		WriteJSON(w, http.StatusConflict, e)
	case hireerr.KindNotFound:
		WriteJSON(w, http.StatusNotFound, e)
	case hireerr.KindDispatch:
		WriteJSON(w, http.StatusBadGateway, e)
	default:
		log.Printf("level=error msg=\"unhandled error\" request_id=%s err=%v", e.Error.RequestID, err)
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
