package booking

import "time"

// Quote is the client-side price breakdown shown in the booking summary. It
// exists for display only; the server computes the authoritative total when
// the hold is created.
type Quote struct {
	Days             int
	VehicleSubtotal  int64
	RoadCare         int64
	AdditionalDriver int64
	ChildSeat        int64
	Total            int64
}

// ChargeableDays returns the number of rental days billed between pickup and
// dropoff. A rental is billed per started 24-hour block, so reaching into or
// exactly filling the next block charges for it; the minimum is one day.
func ChargeableDays(pickupAt, dropoffAt time.Time) int {
	diff := dropoffAt.Sub(pickupAt)
	if diff <= 0 {
		return 1
	}
	return int(diff/(24*time.Hour)) + 1
}

// Quote computes the display quote for the draft. A draft without a vehicle
// quotes zero.
func (d *Draft) Quote() Quote {
	if d.Car == nil {
		return Quote{}
	}

	q := Quote{
		Days: ChargeableDays(d.PickupAt, d.DropoffAt),
	}
	q.VehicleSubtotal = d.Car.PricePerDay * int64(q.Days)

	if d.RoadCare {
		q.RoadCare = RoadCareFee
	}
	if d.AdditionalDriver {
		q.AdditionalDriver = AdditionalDriverFee
	}
	if d.ChildSeat {
		q.ChildSeat = ChildSeatFee
	}

	q.Total = q.VehicleSubtotal + q.RoadCare + q.AdditionalDriver + q.ChildSeat
	return q
}
