package errors

import "fmt"

// Authentication failures. All of them refuse the whole connection attempt.
var (
	ErrMissingCredential = fmt.Errorf("missing bearer credential")
	ErrTokenMalformed    = fmt.Errorf("malformed token")
	ErrTokenExpired      = fmt.Errorf("expired token")
	ErrTokenSignature    = fmt.Errorf("invalid token signature")
	ErrPrincipalNotFound = fmt.Errorf("principal not found")
)

// Protocol and authorization failures. They reject a single control
// message and leave the rest of the connection intact.
var (
	ErrMalformedDestination = fmt.Errorf("malformed destination")
	ErrUnknownRole          = fmt.Errorf("unknown role")
	ErrUnauthorizedMailbox  = fmt.Errorf("mailbox not owned by principal")
)

var (
	ErrUnsupportedEvent   = fmt.Errorf("unsupported event kind")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)
