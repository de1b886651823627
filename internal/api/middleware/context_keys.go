package middleware

// Keys under which Auth stores the authenticated identity in echo.Context.
const (
	ContextKeyEmail     = "email"
	ContextKeyRoles     = "roles"
	ContextKeyAccountID = "account_id"
)
