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

// CreateCheckoutSession requests a hosted checkout session for a pending
// reservation. The returned URL is where the browser must navigate; the
// checkout UI itself is hosted by the payment provider, so this is a hard
// redirect rather than an in-app transition.
func (c *Client) CreateCheckoutSession(ctx context.Context, args *model.CheckoutRequest) (*model.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("error encoding args: %w", err)
	}

	req, requestID, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("%s/payments/create-checkout-session", c.host), buf)
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

	var body *model.CheckoutSession
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	if body == nil || body.URL == "" {
		return nil, fmt.Errorf("checkout session response is missing the hosted URL")
	}

	return body, nil
}
