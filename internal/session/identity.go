package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the user embedded in the access token. It is always derived
// from the token payload, never stored on its own: no token, no user.
type Identity struct {
	ID       int64
	Username string
}

// decodeIdentity extracts the identity claims from an access token. The
// client holds no signing key, so the parse is unverified; the server is
// the authority and rejects forged tokens anyway.
func decodeIdentity(access string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return Identity{}, fmt.Errorf("decode access token: %w", err)
	}
	var ident Identity
	switch v := claims["user_id"].(type) {
	case float64:
		ident.ID = int64(v)
	case int64:
		ident.ID = v
	default:
		return Identity{}, errors.New("access token missing user_id claim")
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return Identity{}, errors.New("access token missing username claim")
	}
	ident.Username = username
	return ident, nil
}
