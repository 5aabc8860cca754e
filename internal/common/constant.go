package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the bearer token.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token inside the Authorization header.
	BearerPrefix = "Bearer "

	// DefaultEmoji marks todos created without an explicit emoji tag.
	DefaultEmoji = "📝"

	// MinUsernameLength and MinPasswordLength are enforced before any hashing
	// or storage access, both by registration and by the provisioning CLI.
	MinUsernameLength = 3
	MinPasswordLength = 6
)
