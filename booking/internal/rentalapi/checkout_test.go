package rentalapi

import (
	"context"
	"testing"

	"github.com/ryderx/ryderx-go-sdk/booking/model"
	"github.com/ryderx/ryderx-go-sdk/internal/rentalapitest"
	"github.com/stretchr/testify/require"
)

func Test_CreateCheckoutSession(t *testing.T) {
	t.Parallel()

	svr, err := rentalapitest.NewRentalAPI()
	require.NoError(t, err)
	defer svr.Close()

	chanError := make(chan error, 1)
	c, err := New(svr.Host, svr.JWT, "user-1", chanError)
	require.NoError(t, err)

	resp, err := c.CreateCheckoutSession(context.Background(), &model.CheckoutRequest{
		ReservationID: 4321,
		Amount:        3900,
		PaymentMethod: model.PaymentMethodStripe,
	})
	require.NoError(t, err)
	require.Equal(t, svr.CheckoutSession.URL, resp.URL)
}

func Test_CreateCheckoutSession_MissingURL(t *testing.T) {
	t.Parallel()

	svr, err := rentalapitest.NewRentalAPI()
	require.NoError(t, err)
	defer svr.Close()

	svr.CheckoutSession.URL = ""

	chanError := make(chan error, 1)
	c, err := New(svr.Host, svr.JWT, "user-1", chanError)
	require.NoError(t, err)

	_, err = c.CreateCheckoutSession(context.Background(), &model.CheckoutRequest{ReservationID: 4321})
	require.Error(t, err)
}
