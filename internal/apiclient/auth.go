package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"chirp/internal/model"
)

// Session endpoints. Login, Register and RefreshToken are anonymous by
// nature; Logout carries the bearer header like any authenticated call.

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	var out model.TokenPair
	req, err := c.newRequest(ctx, http.MethodPost, "/api/login/", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return out, err
	}
	resp, err := c.do(ctx, "/api/login", req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, username, password, confirmation string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/register/", map[string]string{
		"username":     username,
		"password":     password,
		"confirmation": confirmation,
	})
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, "/api/register", req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Logout asks the server to blacklist the refresh token.
func (c *Client) Logout(ctx context.Context, refresh string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/logout/", map[string]string{"refresh": refresh})
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, "/api/logout", req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// RefreshToken exchanges a refresh token for a new access token, and
// possibly a rotated refresh token.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (model.TokenPair, error) {
	var out model.TokenPair
	req, err := c.newRequest(ctx, http.MethodPost, "/api/token/refresh/", map[string]string{"refresh": refresh})
	if err != nil {
		return out, err
	}
	resp, err := c.do(ctx, "/api/token/refresh", req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
