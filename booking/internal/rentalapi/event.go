package rentalapi

import (
	"encoding/json"

	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

type (
	// Event represents the interface for any event received by the subscriber.
	Event interface {
		Type() EventType
	}

	// EventType is a type alias for an event received by the subscriber.
	EventType string

	// BaseEvent represents the base structure of all events received by the
	// subscriber.
	BaseEvent struct {
		Typ     EventType `json:"eventType"`
		EventID string    `json:"eventId"`
	}

	// ReservationStatusEvent represents the data received when a reservation
	// changes status, for example when a payment webhook confirms it or an
	// agent cancels it.
	ReservationStatusEvent struct {
		*BaseEvent
		ReservationID int64        `json:"reservationId"`
		Status        model.Status `json:"status"`
	}
)

// ReservationStatusEventType represents an event received when a reservation's
// status changes server-side.
const ReservationStatusEventType = EventType("ReservationStatusEvent")

// Type returns the type of the event.
func (b *BaseEvent) Type() EventType {
	return b.Typ
}

// unmarshalEvent unmarshals the provided data into a data structure based upon
// its type. If the type is not supported, a BaseEvent is returned instead of an
// error.
func unmarshalEvent(data []byte) (Event, error) {
	var event *BaseEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}

	switch event.Type() {
	case ReservationStatusEventType:
		var se *ReservationStatusEvent
		if err := json.Unmarshal(data, &se); err != nil {
			return nil, err
		}

		return se, nil

	default:
		return event, nil
	}
}
