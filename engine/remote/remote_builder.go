package remote

import (
	"slices"
	"time"
)

// ServerBuilderOption is a functional option applied to a server during construction via NewServer.
type ServerBuilderOption func(*serverImpl)

// WithPath sets the HTTP path of the WebSocket endpoint.
//
// Parameters:
//   - path: the endpoint path (default "/ws")
//
// Returns:
//   - ServerBuilderOption: a function that applies the path option to a server
func WithPath(path string) ServerBuilderOption {
	return func(s *serverImpl) {
		if path != "" {
			s.path = path
		}
	}
}

// WithReadLimit caps the size of a single inbound message in bytes.
//
// Parameters:
//   - limit: maximum message size
//
// Returns:
//   - ServerBuilderOption: a function that applies the read limit option to a server
func WithReadLimit(limit int64) ServerBuilderOption {
	return func(s *serverImpl) {
		if limit > 0 {
			s.readLimit = limit
		}
	}
}

// WithWriteTimeout sets the deadline for writing a reply.
//
// Parameters:
//   - timeout: write deadline per reply
//
// Returns:
//   - ServerBuilderOption: a function that applies the write timeout option to a server
func WithWriteTimeout(timeout time.Duration) ServerBuilderOption {
	return func(s *serverImpl) {
		if timeout > 0 {
			s.writeTimeout = timeout
		}
	}
}

// WithAllowedOrigins lets browser pages from the given origins open the socket. Without it
// only clients that send no Origin header or a same-origin one are accepted. "*" accepts any
// origin, which lets every page open in a local browser steer the camera.
//
// Parameters:
//   - origins: allowed origins such as "http://localhost:3000"
//
// Returns:
//   - ServerBuilderOption: a function that applies the origin option to a server
func WithAllowedOrigins(origins ...string) ServerBuilderOption {
	return func(s *serverImpl) {
		if len(origins) > 0 {
			s.upgrader.CheckOrigin = originChecker(slices.Clone(origins))
		}
	}
}
