package gateway

import "fmt"

// RemoteError reports an upstream call that failed: a non-2xx status, a
// success:false envelope, or an unreadable body. It never crashes
// navigation; callers degrade to empty state.
type RemoteError struct {
	Operation  string
	HTTPStatus int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway %s: upstream returned status %d", e.Operation, e.HTTPStatus)
	}
	return fmt.Sprintf("gateway %s: upstream returned status %d: %s", e.Operation, e.HTTPStatus, e.Message)
}

// AuthError reports rejected login credentials. The message is safe to show
// inline to the user.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "invalid credentials"
	}
	return e.Message
}
