package usercontext

// Shared Locals keys used across controllers and middlewares
const (
	KeyUserContext   = "USER_CONTEXT"
	KeyUserID        = "user_id"
	KeyUsername      = "username"
	KeyIsAdmin       = "isAdmin"
	KeyFromProtected = "from_protected"

	// HeaderUserID carries the authenticated user id set by the upstream
	// identity gateway.
	HeaderUserID = "X-User-ID"
)
