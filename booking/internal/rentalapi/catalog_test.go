package rentalapi

import (
	"context"
	"testing"

	"github.com/ryderx/ryderx-go-sdk/booking/model"
	"github.com/ryderx/ryderx-go-sdk/internal/rentalapitest"
	"github.com/stretchr/testify/require"
)

func Test_Catalog(t *testing.T) {
	t.Parallel()

	svr, err := rentalapitest.NewRentalAPI()
	require.NoError(t, err)
	defer svr.Close()

	chanError := make(chan error, 1)
	c, err := New(svr.Host, svr.JWT, "user-1", chanError)
	require.NoError(t, err)

	locations, err := c.Locations(context.Background())
	require.NoError(t, err)
	require.Equal(t, svr.Locations, locations)

	cars, err := c.AvailableCars(context.Background())
	require.NoError(t, err)
	require.Equal(t, svr.Cars, cars)
}

func Test_Login(t *testing.T) {
	t.Parallel()

	svr, err := rentalapitest.NewRentalAPI()
	require.NoError(t, err)
	defer svr.Close()

	resp, err := Login(context.Background(), svr.Host, &model.LoginRequest{
		Email:    "jordan@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, svr.JWT, resp.Token)
	require.Equal(t, []string{"User"}, resp.Roles)
}
