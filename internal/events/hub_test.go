package events

import (
	"encoding/json"
	"testing"
)

func TestHubFanOutAndDrop(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()

	h.Publish(MakeEvent("req-1", TypeLeadSubmitted, 1, map[string]int{"id": 7}))

	for name, ch := range map[string]chan string{"a": a, "b": b} {
		select {
		case raw := <-ch:
			var e Event
			if err := json.Unmarshal([]byte(raw), &e); err != nil {
				t.Fatalf("%s: bad envelope: %v", name, err)
			}
			if e.Type != TypeLeadSubmitted || e.RequestID != "req-1" {
				t.Errorf("%s: event = %+v", name, e)
			}
		default:
			t.Fatalf("%s: no event delivered", name)
		}
	}

	// A subscriber that never drains fills its buffer and then loses
	// events; publishing must not block.
	for i := 0; i < 100; i++ {
		h.Publish(MakeEvent("", TypeStageChanged, 1, nil))
	}

	// Unsubscribing closes the channel; a later publish must not reach it.
	h.Unsubscribe(a)
	h.Publish(MakeEvent("", TypeLeadApproved, 1, nil))
	for range a {
		// drain the buffered backlog; terminates because the channel is closed
	}
}
