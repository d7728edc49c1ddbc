package rentalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ryderx/ryderx-go-sdk/booking/model"
)

// Login authenticates against the rental platform and returns the bearer token
// to construct a Client with. It is a package function because no token exists
// yet at this point.
func Login(ctx context.Context, host string, args *model.LoginRequest) (*model.LoginResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("error encoding args: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/authentication/login", host), buf)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	requestID, err := uuid.NewUUID()
	if err != nil {
		requestID = uuid.UUID{}
	}
	req.Header.Add("X-Request-ID", requestID.String())
	req.Header.Add("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, NewUnexpectedResponseWithError(requestID.String(), resp.StatusCode, readErr)
		}
		return nil, NewUnexpectedResponseWithBody(requestID.String(), resp.StatusCode, body)
	}

	var body *model.LoginResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return body, nil
}
