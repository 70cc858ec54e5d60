// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned for any non-200 upstream response.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string // truncated
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Service, e.StatusCode)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	return statusIs(err, http.StatusNotFound)
}

// IsRateLimited reports whether err is an upstream 429 that outlived retries.
func IsRateLimited(err error) bool {
	return statusIs(err, http.StatusTooManyRequests)
}

func statusIs(err error, code int) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == code
	}
	return false
}
