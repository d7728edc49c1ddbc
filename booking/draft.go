package booking

import (
	"errors"
	"regexp"
	"time"

	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

type (
	// Draft is the in-progress, not-yet-submitted booking form: trip
	// parameters, vehicle choice, add-ons and hirer details collected across
	// the wizard steps. It lives in memory for the duration of the flow and is
	// discarded once submitted.
	Draft struct {
		Car *model.Car

		PickupLocationID  int64
		DropoffLocationID int64
		PickupAt          time.Time
		DropoffAt         time.Time

		RoadCare         bool
		AdditionalDriver bool
		ChildSeat        bool

		Hirer Hirer
	}

	// Hirer is the contact block of the booking form. The hirer's name must
	// match the name on the driver licence and payment card.
	Hirer struct {
		FirstName           string
		LastName            string
		Email               string
		Phone               string
		Country             string
		DriverLicenceNumber string
	}
)

// Flat add-on fees, in the platform currency's smallest display unit.
const (
	RoadCareFee         = int64(300)
	AdditionalDriverFee = int64(200)
	ChildSeatFee        = int64(150)
)

// MinPickupLead is the earliest a pickup may be scheduled from now.
const MinPickupLead = 1 * time.Hour

var (
	// ErrInvalidTripDates represents a trip step that is incomplete or whose
	// dropoff does not come after its pickup.
	ErrInvalidTripDates = errors.New("pickup and dropoff dates are invalid")

	// ErrPickupTooSoon represents a pickup scheduled in the past or within the
	// minimum lead time.
	ErrPickupTooSoon = errors.New("pickup must be at least one hour from now")

	// ErrNoVehicleSelected represents a draft submitted without a vehicle.
	ErrNoVehicleSelected = errors.New("no vehicle selected")

	// ErrIncompleteHirerDetails represents missing or malformed hirer fields.
	ErrIncompleteHirerDetails = errors.New("hirer details are incomplete")
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// TripValid reports whether the trip-details step is complete: a dropoff
// location selected and the dropoff strictly after the pickup.
func (d *Draft) TripValid() bool {
	return d.DropoffLocationID != 0 && d.DropoffAt.After(d.PickupAt)
}

// VehicleValid reports whether the vehicle step is complete.
func (d *Draft) VehicleValid() bool {
	return d.Car != nil
}

// HirerValid reports whether the hirer step is complete: names and phone
// non-empty, email well-formed.
func (d *Draft) HirerValid() bool {
	return d.Hirer.FirstName != "" &&
		d.Hirer.LastName != "" &&
		d.Hirer.Phone != "" &&
		emailPattern.MatchString(d.Hirer.Email)
}

// Normalize clamps the trip dates the way the wizard does: a pickup earlier
// than now plus the minimum lead is moved up, and a dropoff at or before the
// pickup is pushed to one day after it.
func (d *Draft) Normalize(now time.Time) {
	minPickup := now.Add(MinPickupLead)
	if d.PickupAt.Before(minPickup) {
		d.PickupAt = minPickup
	}

	if !d.DropoffAt.After(d.PickupAt) {
		d.DropoffAt = d.PickupAt.Add(24 * time.Hour)
	}
}

// Validate runs the client-side pre-checks for all three steps. These exist to
// catch mistakes before the network call; the server performs the
// authoritative checks (inventory, conflicting bookings) on submission.
func (d *Draft) Validate(now time.Time) error {
	if !d.TripValid() {
		return ErrInvalidTripDates
	}
	if d.PickupAt.Before(now.Add(MinPickupLead)) {
		return ErrPickupTooSoon
	}
	if !d.VehicleValid() {
		return ErrNoVehicleSelected
	}
	if !d.HirerValid() {
		return ErrIncompleteHirerDetails
	}
	return nil
}

// Request builds the wire request for the draft.
func (d *Draft) Request() *model.CreateReservationRequest {
	return &model.CreateReservationRequest{
		CarID:             d.Car.ID,
		PickupAt:          d.PickupAt,
		DropoffAt:         d.DropoffAt,
		PickupLocationID:  d.PickupLocationID,
		DropoffLocationID: d.DropoffLocationID,
		RoadCare:          d.RoadCare,
		AdditionalDriver:  d.AdditionalDriver,
		ChildSeat:         d.ChildSeat,
	}
}
