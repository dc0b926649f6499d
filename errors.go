package winsvc

import (
	"errors"
	"fmt"

	"github.com/amidaware/winsvc/scm"
)

// Kind classifies a service operation failure.
type Kind int

const (
	AccessDenied Kind = iota + 1
	NotFound
	AlreadyExists
	InvalidConfig
	HandleClosed
	QueryFailed
	UpdateFailed
	DeleteFailed
	ManagerUnavailable
	DecodeError
)

func (k Kind) String() string {
	switch k {
	case AccessDenied:
		return "access denied"
	case NotFound:
		return "service not found"
	case AlreadyExists:
		return "service already exists"
	case InvalidConfig:
		return "invalid service configuration"
	case HandleClosed:
		return "handle is closed"
	case QueryFailed:
		return "query failed"
	case UpdateFailed:
		return "update failed"
	case DeleteFailed:
		return "delete failed"
	case ManagerUnavailable:
		return "service control manager unavailable"
	case DecodeError:
		return "malformed configuration record"
	default:
		return "unknown error"
	}
}

// Error is a failed service operation. Err holds the underlying cause, an
// scm.Errno when the failure came from the OS.
type Error struct {
	Kind    Kind
	Service string
	Err     error
}

func (e *Error) Error() string {
	msg := "winsvc: " + e.Kind.String()
	if e.Service != "" {
		msg = fmt.Sprintf("winsvc: service %q: %s", e.Service, e.Kind)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Code reports the raw Win32 error code behind e, or 0 if the failure did
// not come from the OS.
func (e *Error) Code() uint32 {
	var en scm.Errno
	if errors.As(e.Err, &en) {
		return uint32(en)
	}
	return 0
}

// IsKind reports whether err is a winsvc error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

var kindByErrno = map[scm.Errno]Kind{
	scm.ErrorAccessDenied:          AccessDenied,
	scm.ErrorInvalidHandle:         HandleClosed,
	scm.ErrorInvalidParameter:      InvalidConfig,
	scm.ErrorInvalidName:           InvalidConfig,
	scm.ErrorInvalidServiceAccount: InvalidConfig,
	scm.ErrorCircularDependency:    InvalidConfig,
	scm.ErrorServiceDoesNotExist:   NotFound,
	scm.ErrorDatabaseDoesNotExist:  ManagerUnavailable,
	scm.ErrorServiceExists:         AlreadyExists,
	scm.ErrorDuplicateServiceName:  AlreadyExists,
}

// svcError wraps an OS failure, classifying recognized Win32 codes and
// falling back to the operation's default kind for everything else.
func svcError(kind Kind, service string, err error) error {
	var en scm.Errno
	if errors.As(err, &en) {
		if k, ok := kindByErrno[en]; ok {
			kind = k
		}
	}
	return &Error{Kind: kind, Service: service, Err: err}
}
