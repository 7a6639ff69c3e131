package backend

import (
	"context"
	"fmt"
)

const resourceUsers = "users"

// ListUsers fetches a page of user accounts. Requires an authenticated client.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) (*UserList, error) {
	var list UserList
	if err := c.get(ctx, resourceUsers, "/users", listQuery(opts), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.get(ctx, resourceUsers, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user account.
func (c *Client) CreateUser(ctx context.Context, input *UserInput) (*User, error) {
	var user User
	if err := c.mutate(ctx, resourceUsers, "POST", "/users", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user account.
func (c *Client) UpdateUser(ctx context.Context, id int64, input *UserInput) (*User, error) {
	var user User
	if err := c.mutate(ctx, resourceUsers, "PUT", fmt.Sprintf("/users/%d", id), input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes a user account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.mutate(ctx, resourceUsers, "DELETE", fmt.Sprintf("/users/%d", id), nil, nil)
}
