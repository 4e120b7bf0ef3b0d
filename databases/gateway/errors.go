package gateway

import "errors"

var (
	// ErrNoGateway is returned when the config has no gateway section.
	ErrNoGateway = errors.New("gateway: no gateway configured")

	// ErrNoAddress is returned when no graphd address is configured.
	ErrNoAddress = errors.New("gateway: no graphd address configured")

	// ErrConnect is returned when the gateway refuses to open a session.
	ErrConnect = errors.New("gateway: connect failed")

	// ErrHTTPStatus is returned for non-2xx responses after retries.
	ErrHTTPStatus = errors.New("gateway: unexpected http status")

	// ErrTaskFailed is returned when an import task request is rejected.
	ErrTaskFailed = errors.New("gateway: import task request failed")
)
