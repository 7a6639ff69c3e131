// auth.go: token pass-through to the backend session endpoints.
// Credential policy lives entirely in the backend; this client only
// forwards credentials and carries the returned bearer token.
package backend

import (
	"context"
	"net/http"
)

const resourceAuth = "auth"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var session Session
	payload := loginRequest{Username: username, Password: password}

	// Login never goes through mutate: there is no cached auth state to
	// invalidate and the response must not be cached either.
	body, err := c.do(ctx, resourceAuth, http.MethodPost, "/auth/login", nil, jsonBody(payload))
	if err != nil {
		return nil, err
	}
	if err := unmarshalResponse(body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout revokes the session token carried by this client. Best effort:
// the caller clears its cookie regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, resourceAuth, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// CurrentUser fetches the account behind the carried token, validating the
// session upstream in the same round-trip.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, resourceAuth, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
