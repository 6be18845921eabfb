package apiclient

import "time"

// User represents a user account.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Role         string     `json:"role"`
	StorageQuota int64      `json:"storage_quota"`
	StorageUsed  int64      `json:"storage_used"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// CreateUserRequest is the request to create a user.
type CreateUserRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Role         string `json:"role,omitempty"`
	StorageQuota int64  `json:"storage_quota,omitempty"`
}

// ListUsers returns all users. Admin only.
func (c *Client) ListUsers() ([]User, error) {
	return listResources[User](c, "/api/v1/admin/users")
}

// CreateUser creates a new user and their on-disk tree. Admin only.
func (c *Client) CreateUser(req *CreateUserRequest) (*User, error) {
	return createResource[User](c, "/api/v1/admin/users", req)
}

// DeleteUser deletes a user and archives their on-disk tree. Admin only.
func (c *Client) DeleteUser(username string) error {
	return deleteResource(c, resourcePath("/api/v1/admin/users/%s", username))
}

// ResetUserPassword resets a user's password. Admin only.
func (c *Client) ResetUserPassword(username, newPassword string) error {
	req := struct {
		Password string `json:"password"`
	}{Password: newPassword}
	return c.put(resourcePath("/api/v1/admin/users/%s/password", username), req, nil)
}

// SetUserQuota sets a user's storage quota in bytes. Admin only.
func (c *Client) SetUserQuota(username string, quota int64) error {
	req := struct {
		StorageQuota int64 `json:"storage_quota"`
	}{StorageQuota: quota}
	return c.put(resourcePath("/api/v1/admin/users/%s/quota", username), req, nil)
}
