package model

import (
	"strings"
	"time"
)

type (
	// Status is the server-owned reservation lifecycle enumeration. The client
	// never mutates a reservation's status locally; it only observes values
	// returned by the rental API.
	Status string

	// Reservation defines the model for a reservation returned by the rental API.
	// While the status is Pending the reservation is an unpaid hold; CreatedAt
	// anchors the payment countdown.
	Reservation struct {
		// ID is the server-issued reservation identifier.
		ID int64 `json:"reservationId"`

		// CarID is the identifier of the booked vehicle.
		CarID int64 `json:"carId"`

		// CarName is a display name for the booked vehicle.
		CarName string `json:"carName"`

		// Status is the current lifecycle state as reported by the server.
		Status Status `json:"status"`

		// PickupLocationID and DropoffLocationID reference rental locations.
		PickupLocationID  int64 `json:"pickupLocationId"`
		DropoffLocationID int64 `json:"dropoffLocationId"`

		// PickupAt and DropoffAt are the trip boundaries.
		PickupAt  time.Time `json:"pickupAt"`
		DropoffAt time.Time `json:"dropoffAt"`

		// TotalPrice is the authoritative total computed by the server.
		TotalPrice int64 `json:"totalPrice"`

		// CreatedAt is when the hold was created on the server.
		CreatedAt time.Time `json:"createdAt"`
	}

	// CreateReservationRequest defines the model for the request to create a
	// reservation hold.
	CreateReservationRequest struct {
		CarID             int64     `json:"carId"`
		PickupAt          time.Time `json:"pickupAt"`
		DropoffAt         time.Time `json:"dropoffAt"`
		PickupLocationID  int64     `json:"pickupLocationId"`
		DropoffLocationID int64     `json:"dropoffLocationId"`
		RoadCare          bool      `json:"roadCare"`
		AdditionalDriver  bool      `json:"additionalDriver"`
		ChildSeat         bool      `json:"childSeat"`
	}

	// UpdateStatusRequest defines the model for the agent/admin request to move
	// a reservation to a new status.
	UpdateStatusRequest struct {
		ReservationID int64  `json:"reservationId"`
		Status        Status `json:"status"`
	}
)

const (
	// StatusPending represents an unpaid hold racing the payment window.
	StatusPending = Status("Pending")

	// StatusConfirmed represents a paid reservation awaiting pickup.
	StatusConfirmed = Status("Confirmed")

	// StatusActive represents a reservation whose rental is in progress.
	StatusActive = Status("Active")

	// StatusCompleted represents a finished rental.
	StatusCompleted = Status("Completed")

	// StatusCancelled represents a cancelled reservation.
	StatusCancelled = Status("Cancelled")
)

// Is reports whether the status equals other, ignoring case. The rental API is
// not consistent about status casing across endpoints.
func (s Status) Is(other Status) bool {
	return strings.EqualFold(string(s), string(other))
}
