package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
)

// Bearer token scheme for the Authorization header
const BearerScheme = "Bearer"

// RefreshCookieName carries the refresh token between client and the
// auth routes. HTTP-only, never read by scripts.
const RefreshCookieName = "refreshToken"

// Common HTTP Error Messages
const (
	MsgUnauthorized  = "Unauthorized"
	MsgBadRequest    = "Invalid request"
	MsgInternalError = "Internal server error"
	MsgConflict      = "Resource already exists"
)

// HTTP Success Messages
const (
	MsgLoggedOut = "Logged out"
)
