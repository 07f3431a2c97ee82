package dispatch

import "errors"

// Error kinds returned by the service. Callers classify with errors.Is; the
// wrapped detail is meant for logs only.
var (
	// ErrInvalidRequest is returned when a coordinate is missing or not numeric.
	ErrInvalidRequest = errors.New("missing coordinates")
	// ErrUnauthorized is returned when no rider identity accompanies the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream is returned when a collaborator (database, cache, routing provider) fails.
	ErrUpstream = errors.New("upstream service failure")
	// ErrUnresolvableRoute is returned when the trip route has no usable distance.
	ErrUnresolvableRoute = errors.New("could not calculate trip distance")
	// ErrConfiguration is returned when a required setting, such as the routing key, is absent.
	ErrConfiguration = errors.New("service misconfigured")
)
