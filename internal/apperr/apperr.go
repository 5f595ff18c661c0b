package apperr

import (
	"errors"
	"net/http"
)

// Kind tags a domain failure. The set is closed: every Kind has a fixed
// HTTP status and a default message.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthenticated
	KindNotAuthorized
	KindUserNotFound
	KindUserAlreadyExists
	KindBadCredentials
	KindFriendshipNotFound
	KindFriendshipAlreadyExists
	KindFriendshipAlreadyAccepted
	KindFriendshipAlreadyRejected
	KindWrongFriendshipTarget
	KindWrongMessageTarget
	KindMessageRange
	KindMessageNotFound
	KindTooManyPolls
)

type kindInfo struct {
	name    string
	status  int
	message string
}

var kinds = map[Kind]kindInfo{
	KindValidation:                {"ValidationError", http.StatusBadRequest, "Validation error"},
	KindUnauthenticated:           {"UnauthenticatedError", http.StatusUnauthorized, "No authorization token was found"},
	KindNotAuthorized:             {"NotAuthorizedError", http.StatusForbidden, "Not authorized"},
	KindUserNotFound:              {"UserNotFoundError", http.StatusNotFound, "User not found"},
	KindUserAlreadyExists:         {"UserAlreadyExistsError", http.StatusBadRequest, "User with such email already exists"},
	KindBadCredentials:            {"BadCredentialsError", http.StatusUnauthorized, "Bad credentials"},
	KindFriendshipNotFound:        {"FriendshipNotFoundError", http.StatusNotFound, "Friendship not found"},
	KindFriendshipAlreadyExists:   {"FriendshipAlreadyExistsError", http.StatusBadRequest, "Friendship already exists"},
	KindFriendshipAlreadyAccepted: {"FriendshipAlreadyAcceptedError", http.StatusBadRequest, "Friendship already accepted"},
	KindFriendshipAlreadyRejected: {"FriendshipAlreadyRejectedError", http.StatusBadRequest, "Friendship already rejected"},
	KindWrongFriendshipTarget:     {"WrongFriendshipTargetError", http.StatusBadRequest, "Wrong friendship target"},
	KindWrongMessageTarget:        {"WrongMessageTargetError", http.StatusBadRequest, "Wrong message target"},
	KindMessageRange:              {"MessageRangeError", http.StatusBadRequest, "Message range error"},
	KindMessageNotFound:           {"MessageNotFoundError", http.StatusNotFound, "Message not found"},
	KindTooManyPolls:              {"TooManyPollsError", http.StatusTooManyRequests, "Too many pending polls"},
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "UnknownError"
}

// Status is the HTTP status the kind is reported with.
func (k Kind) Status() int {
	if info, ok := kinds[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Error is a tagged domain failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Status returns the HTTP status for the error's kind.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// New returns an error of the given kind carrying the kind's default message.
func New(kind Kind) *Error {
	return &Error{Kind: kind, Message: kinds[kind].message}
}

// WithMessage returns an error of the given kind with a custom message.
func WithMessage(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf reports the kind of err, or 0 if err is not a tagged error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// Is reports whether err is a tagged error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
