package rentalapi

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/ryderx/ryderx-go-sdk/internal/rentalapitest"
	"github.com/stretchr/testify/require"
)

func Test_Client_Lifecycle(t *testing.T) {
	t.Parallel()

	svr, err := rentalapitest.NewRentalAPI()
	require.NoError(t, err)
	defer svr.Close()

	chanError := make(chan error, 1)
	c, err := New(svr.Host, svr.JWT, "user-1", chanError)
	require.NoError(t, err)

	statusCalls := int32(0)
	c.RegisterCallback(ReservationStatusEventType, func(ev Event) {
		atomic.AddInt32(&statusCalls, 1)
	})

	require.NoError(t, c.Start())

	channel := "reservations#user-1"

	// Publish a status change
	_, err = svr.Node.Publish(channel, []byte(`{"eventType":"ReservationStatusEvent", "eventId": "event-id", "reservationId": 4321, "status": "Confirmed"}`))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&statusCalls) == 1
	}, 2*time.Second, 100*time.Millisecond)

	require.NoError(t, c.Stop())
}

func Test_Client_UnknownEventIgnored(t *testing.T) {
	t.Parallel()

	svr, err := rentalapitest.NewRentalAPI()
	require.NoError(t, err)
	defer svr.Close()

	chanError := make(chan error, 1)
	c, err := New(svr.Host, svr.JWT, "user-1", chanError)
	require.NoError(t, err)

	statusCalls := int32(0)
	c.RegisterCallback(ReservationStatusEventType, func(ev Event) {
		atomic.AddInt32(&statusCalls, 1)
	})

	require.NoError(t, c.Start())

	_, err = svr.Node.Publish("reservations#user-1", []byte(`{"eventType":"SomethingElse", "eventId": "event-id"}`))
	require.NoError(t, err)

	// Give the subscription a moment; the unknown event must not hit the
	// status callback or push an error.
	time.Sleep(250 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&statusCalls))
	require.Empty(t, chanError)

	require.NoError(t, c.Stop())
}
