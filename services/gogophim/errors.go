package gogophim

import "errors"

var (
	// ErrTimeout marks a single route attempt that exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork marks a connection, DNS, or non-2xx failure on one route.
	ErrNetwork = errors.New("network error")

	// ErrInvalidShape marks a response that parsed (or failed to parse) but
	// did not look like an API payload. Relay proxies return HTTP 200 with
	// captcha and quota pages, so this is as routine as a network failure.
	ErrInvalidShape = errors.New("response shape not recognized")

	// ErrUnreachable is the only fetch error callers see: the direct route
	// and every relay in the chain failed. It wraps the last route error.
	ErrUnreachable = errors.New("upstream unreachable")
)
