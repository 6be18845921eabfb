package apiclient

import "time"

// LoginRequest represents a login request. The client field is always
// "cli" here: lorectl wants a bearer token in the body, not a session
// cookie.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Client   string `json:"client"`
}

// LoginResponse represents the response from the login endpoint.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Login authenticates with the server and returns a bearer token.
func (c *Client) Login(username, password string) (*LoginResponse, error) {
	req := LoginRequest{
		Username: username,
		Password: password,
		Client:   "cli",
	}

	var resp LoginResponse
	if err := c.post("/api/v1/auth/login", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Logout tells the server to tear down the session. Bearer tokens are
// stateless, so this mainly matters for cookie sessions, but calling it
// keeps the flows symmetric.
func (c *Client) Logout() error {
	return c.post("/api/v1/auth/logout", nil, nil)
}

// Me returns the currently authenticated user.
func (c *Client) Me() (*User, error) {
	return getResource[User](c, "/api/v1/auth/me")
}
