package rentalapi

import (
	"context"
	"testing"

	"github.com/ryderx/ryderx-go-sdk/booking/model"
	"github.com/ryderx/ryderx-go-sdk/internal/rentalapitest"
	"github.com/stretchr/testify/require"
)

func Test_CreateReservation(t *testing.T) {
	t.Parallel()

	svr, err := rentalapitest.NewRentalAPI()
	require.NoError(t, err)
	defer svr.Close()

	chanError := make(chan error, 1)
	c, err := New(svr.Host, svr.JWT, "user-1", chanError)
	require.NoError(t, err)

	resp, err := c.CreateReservation(context.Background(), &model.CreateReservationRequest{CarID: 7})
	require.NoError(t, err)
	require.Equal(t, svr.Reservation.ID, resp.ID)
	require.True(t, resp.Status.Is(model.StatusPending))
}

func Test_Reservations_RoleEndpoints(t *testing.T) {
	t.Parallel()

	svr, err := rentalapitest.NewRentalAPI()
	require.NoError(t, err)
	defer svr.Close()

	chanError := make(chan error, 1)
	c, err := New(svr.Host, svr.JWT, "user-1", chanError)
	require.NoError(t, err)

	for _, roles := range [][]string{
		{"User"},
		{"Agent"},
		{"Admin"},
	} {
		resp, listErr := c.Reservations(context.Background(), roles)
		require.NoError(t, listErr)
		require.Len(t, resp, 1)
	}

	_, err = c.Reservations(context.Background(), []string{"Visitor"})
	require.ErrorIs(t, err, ErrUnauthorizedRole)
}

func Test_UpdateReservationStatus(t *testing.T) {
	t.Parallel()

	svr, err := rentalapitest.NewRentalAPI()
	require.NoError(t, err)
	defer svr.Close()

	chanError := make(chan error, 1)
	c, err := New(svr.Host, svr.JWT, "user-1", chanError)
	require.NoError(t, err)

	require.NoError(t, c.UpdateReservationStatus(context.Background(), &model.UpdateStatusRequest{
		ReservationID: 4321,
		Status:        model.StatusActive,
	}))
}
