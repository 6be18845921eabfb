package apiclient

// ServerStatus is the liveness probe payload.
type ServerStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Health returns the server's liveness status. Works unauthenticated.
func (c *Client) Health() (*ServerStatus, error) {
	return getResource[ServerStatus](c, "/health")
}

// Ready reports whether the server can reach its database. A non-nil
// error means not ready.
func (c *Client) Ready() error {
	return c.get("/health/ready", nil)
}
