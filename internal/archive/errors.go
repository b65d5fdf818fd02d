package archive

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by authorized operations when no session
// token is held. Callers should route the user to login.
var ErrNotAuthenticated = errors.New("not authenticated")

// URLError reports an endpoint or resource URL that could not be built.
// It is a construction-time failure and never worth retrying.
type URLError struct {
	URL string
	Err error
}

func (e *URLError) Error() string {
	return fmt.Sprintf("invalid url %q: %v", e.URL, e.Err)
}

func (e *URLError) Unwrap() error { return e.Err }

// NetworkError reports a transport failure or a non-2xx response.
// StatusCode is zero when the request never produced a response.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports a response body that does not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AuthError reports a failed login exchange. The cause is a *URLError or a
// *NetworkError, both reachable with errors.As.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsStatus reports whether err carries a NetworkError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.StatusCode == status
	}
	return false
}
