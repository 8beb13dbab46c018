package handler

const (
	errInternalServer     = "Internal server error"
	errInvalidCredentials = "Invalid email or password"
	errEmailTaken         = "Email %s already taken"
	errUnauthorized       = "Unauthorized"
)
