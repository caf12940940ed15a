package customerrors

import "errors"

// Kind tags an Error with the failure class the delivery layer maps to an
// HTTP status. The set is closed; handlers match it exhaustively.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the tagged error value the usecase layer returns. It propagates
// uncaught up to the HTTP error handler, which is the only recovery point.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidation reports malformed or missing caller input, detected before
// any repository access.
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewAuthentication reports credential, token, or account-state failures.
func NewAuthentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// NewNotFound reports an operation referencing a resource that does not exist.
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// KindOf extracts the Kind from err, or 0 if err is not a tagged Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
