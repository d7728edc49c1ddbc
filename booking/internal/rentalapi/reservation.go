package rentalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

// ErrUnauthorizedRole represents that none of the caller's roles may list
// reservations.
var ErrUnauthorizedRole = errors.New("unauthorized role to fetch reservations")

// CreateReservation submits a reservation draft, placing a hold on the vehicle.
// The server performs the authoritative availability and pricing checks; any
// rejection is surfaced verbatim in the returned error.
func (c *Client) CreateReservation(ctx context.Context, args *model.CreateReservationRequest) (*model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("error encoding args: %w", err)
	}

	req, requestID, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("%s/reservations", c.host), buf)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	if resp, err = c.httpClient.Do(req); err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, NewUnexpectedResponseWithError(requestID, resp.StatusCode, readErr)
		}
		return nil, NewUnexpectedResponseWithBody(requestID, resp.StatusCode, body)
	}

	var body *model.Reservation
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return body, nil
}

// Reservations fetches the reservations visible to the caller. The endpoint
// depends on the caller's role: users see their own bookings, agents the
// bookings against their fleet, admins everything.
func (c *Client) Reservations(ctx context.Context, roles []string) ([]model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	endpoint, err := reservationsEndpoint(roles)
	if err != nil {
		return nil, err
	}

	req, requestID, err := c.newRequest(ctx, http.MethodGet, c.host+endpoint, http.NoBody)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	if resp, err = c.httpClient.Do(req); err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, NewUnexpectedResponseWithError(requestID, resp.StatusCode, readErr)
		}
		return nil, NewUnexpectedResponseWithBody(requestID, resp.StatusCode, body)
	}

	var body []model.Reservation
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return body, nil
}

// reservationsEndpoint picks the listing endpoint for the first recognised role.
func reservationsEndpoint(roles []string) (string, error) {
	for _, role := range roles {
		switch role {
		case "User":
			return "/reservations/user", nil
		case "Agent":
			return "/reservations/agent/my", nil
		case "Admin":
			return "/reservations", nil
		}
	}
	return "", ErrUnauthorizedRole
}
