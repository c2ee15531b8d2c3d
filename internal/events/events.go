package events

import (
	"encoding/json"
	"time"
)

// Event types published by the pipeline. The admin UI listens on /events and
// refreshes when one of these arrives.
const (
	TypeLeadSubmitted  = "lead_submitted"
	TypeLeadApproved   = "lead_approved"
	TypeLeadRejected   = "lead_rejected"
	TypeLeadConverted  = "lead_converted"
	TypeStageChanged   = "position_stage_changed"
	TypeJDUpserted     = "jd_upserted"
	TypeJDApproved     = "jd_approved"
	TypeJDRejected     = "jd_rejected"
	TypeJDPublished    = "jd_published"
	TypeApplicantAdded = "applicant_added"

	// TypeStreamOpened is sent once per SSE connection, before any
	// pipeline event.
	TypeStreamOpened = "stream_opened"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
