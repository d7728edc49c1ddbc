package rentalapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

// Locations fetches all rental locations. The endpoint is public.
func (c *Client) Locations(ctx context.Context) ([]model.Location, error) {
	var body []model.Location
	if err := c.get(ctx, "/locations", &body); err != nil {
		return nil, err
	}
	return body, nil
}

// AvailableCars fetches the vehicles currently offered for rental. The endpoint
// is public.
func (c *Client) AvailableCars(ctx context.Context) ([]model.Car, error) {
	var body []model.Car
	if err := c.get(ctx, "/cars/available", &body); err != nil {
		return nil, err
	}
	return body, nil
}

// get performs an authenticated GET against the given path, decoding a 200
// response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, requestID, err := c.newRequest(ctx, http.MethodGet, c.host+path, http.NoBody)
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

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return NewUnexpectedResponseWithError(requestID, resp.StatusCode, readErr)
		}
		return NewUnexpectedResponseWithBody(requestID, resp.StatusCode, body)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}
