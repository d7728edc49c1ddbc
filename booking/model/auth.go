package model

type (
	// LoginRequest defines the model for the request to authenticate a user.
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// LoginResponse defines the model for a successful authentication reply.
	LoginResponse struct {
		Token      string   `json:"token"`
		Username   string   `json:"username"`
		Roles      []string `json:"roles"`
		Expiration string   `json:"expiration"`
	}
)
