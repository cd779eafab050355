package realtime

import (
	"encoding/json"

	"github.com/trichbarbershop/barber-queue/internal/models"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent is one change to the booking_entries table. New carries
// the row after the change (insert/update), Old the row before it
// (delete). Delete consumers fall back to New when Old is absent.
type ChangeEvent struct {
	Type EventType            `json:"type"`
	New  *models.BookingEntry `json:"new,omitempty"`
	Old  *models.BookingEntry `json:"old,omitempty"`
}

// EntryID resolves the identity of the affected row.
func (ev ChangeEvent) EntryID() string {
	switch ev.Type {
	case EventDelete:
		if ev.Old != nil && ev.Old.ID != "" {
			return ev.Old.ID
		}
		if ev.New != nil {
			return ev.New.ID
		}
		return ""
	default:
		if ev.New != nil {
			return ev.New.ID
		}
		return ""
	}
}

func (ev ChangeEvent) Marshal() ([]byte, error) {
	return json.Marshal(ev)
}

func UnmarshalEvent(data []byte) (ChangeEvent, error) {
	var ev ChangeEvent
	err := json.Unmarshal(data, &ev)
	return ev, err
}
