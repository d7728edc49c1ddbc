package rentalapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

// CancelReservation cancels the reservation with the given id. Cancelling a
// reservation that has already been cancelled or has expired server-side
// returns model.ErrAlreadyResolved, which callers treat as a soft success: the
// manual-cancel and auto-cancel paths race against the same id and the server
// resolves the winner.
func (c *Client) CancelReservation(ctx context.Context, reservationID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, requestID, err := c.newRequest(
		ctx,
		http.MethodDelete,
		fmt.Sprintf("%s/reservations/cancel/%d", c.host, reservationID),
		http.NoBody,
	)
	if err != nil {
		return err
	}

	var resp *http.Response
	if resp, err = c.httpClient.Do(req); err != nil {
		return fmt.Errorf("error making request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil

	case http.StatusNotFound, http.StatusConflict, http.StatusGone:
		// The reservation already left the pending state.
		return model.ErrAlreadyResolved

	default:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return NewUnexpectedResponseWithError(requestID, resp.StatusCode, readErr)
		}
		return NewUnexpectedResponseWithBody(requestID, resp.StatusCode, body)
	}
}
