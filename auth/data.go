package auth

import (
	"encoding/json"
	"fmt"
	"os"
)

// Data is the login payload persisted between runs so the user does not have
// to authenticate every time.
type Data struct {
	Token      string   `json:"token"`
	Username   string   `json:"username"`
	Roles      []string `json:"roles"`
	Expiration string   `json:"expiration,omitempty"`
}

// Save writes the login data to the given path.
func (d *Data) Save(path string) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("error marshaling auth data: %w", err)
	}

	if err = os.WriteFile(path, body, 0o600); err != nil {
		return fmt.Errorf("error writing auth data: %w", err)
	}

	return nil
}

// Load reads login data previously written with Save.
func Load(path string) (*Data, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading auth data: %w", err)
	}

	d := &Data{}
	if err = json.Unmarshal(body, d); err != nil {
		return nil, fmt.Errorf("error unmarshaling auth data: %w", err)
	}

	return d, nil
}

// Clear removes persisted login data. Clearing data that does not exist is
// not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing auth data: %w", err)
	}
	return nil
}
