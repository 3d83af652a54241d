package common

const (
	// AuthorizationHeaderName carries the bearer token on protected routes.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName is echoed back on every response.
	RequestIDHeaderName = "X-Request-ID"

	// TokenTypeBearer is the token_type reported by the login endpoint.
	TokenTypeBearer = "bearer"
)
