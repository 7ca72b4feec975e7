// Package api is the HTTP client for the registration backend.
package api

import (
	"errors"
	"fmt"
)

// Endpoint paths, relative to the configured base URL.
const (
	RegisterPath      = "/api/auth/register"
	CheckUsernamePath = "/api/user/check/"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name          string   `json:"name"`
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	FavoriteGenre []string `json:"favoriteGenre"`
}

// UsernameAvailabilityResponse is the body of GET /api/user/check/{username}.
type UsernameAvailabilityResponse struct {
	Data struct {
		Status bool `json:"status"` // true = available
	} `json:"data"`
}

// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
var ErrMalformedResponse = errors.New("malformed response body")

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}
