package booking

import (
	"errors"
	"time"

	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

// ErrRefundNotApplicable represents a refund estimate requested for a
// reservation that is not in the Confirmed state. Pending holds go through the
// countdown path instead.
var ErrRefundNotApplicable = errors.New("refund estimates apply to confirmed reservations only")

// EstimateRefund computes the advisory refund amount for cancelling a
// reservation at the given time, based on how far away the pickup is. The
// actual refund is decided server-side; this is shown before the user confirms
// a cancellation.
func EstimateRefund(r model.Reservation, now time.Time) int64 {
	hoursUntilPickup := r.PickupAt.Sub(now).Hours()

	switch {
	case hoursUntilPickup >= 24:
		return r.TotalPrice
	case hoursUntilPickup >= 6:
		return r.TotalPrice / 2
	default:
		return r.TotalPrice / 4
	}
}
