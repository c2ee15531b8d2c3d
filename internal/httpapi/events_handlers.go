package httpapi

import (
	"fmt"
	"net/http"

	"talentflow-engine/internal/events"
)

// EventsHandler streams pipeline events to the admin console over SSE. The
// console listens for lead, position and applicant changes and refreshes the
// affected view when one arrives.
type EventsHandler struct {
	Hub *events.Hub
}

func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported")
		return
	}

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	// Opening envelope so the console knows the stream is live before the
	// first pipeline event arrives.
	hello := events.MakeEvent(RequestIDFrom(r.Context()), events.TypeStreamOpened, 1, nil)
	writeSSE(w, hello)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			writeSSE(w, msg)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, payload string) {
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload)
}
