package rentalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

// UpdateReservationStatus moves a reservation to a new status. Only agent and
// admin callers are authorised server-side; the countdown never uses this.
func (c *Client) UpdateReservationStatus(ctx context.Context, args *model.UpdateStatusRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(args); err != nil {
		return fmt.Errorf("error encoding args: %w", err)
	}

	req, requestID, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("%s/reservations/status", c.host), buf)
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

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return NewUnexpectedResponseWithError(requestID, resp.StatusCode, readErr)
		}
		return NewUnexpectedResponseWithBody(requestID, resp.StatusCode, body)
	}

	return nil
}
