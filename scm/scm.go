// Package scm is the boundary to the Windows service control manager. It
// exposes the small set of primitive operations the SCM offers for service
// registrations (open, create, delete, query, change, close) behind the API
// interface so callers can swap in a non-OS backend.
package scm

import "fmt"

// Handle is an opaque reference to an SCM object, either the service control
// manager itself or a single registered service.
type Handle uintptr

// Errno is a Win32 error code reported by the service control manager.
type Errno uint32

const (
	ErrorAccessDenied           Errno = 5
	ErrorInvalidHandle          Errno = 6
	ErrorInvalidParameter       Errno = 87
	ErrorInsufficientBuffer     Errno = 122
	ErrorInvalidName            Errno = 123
	ErrorInvalidServiceAccount  Errno = 1057
	ErrorCircularDependency     Errno = 1059
	ErrorServiceDoesNotExist    Errno = 1060
	ErrorDatabaseDoesNotExist   Errno = 1065
	ErrorServiceMarkedForDelete Errno = 1072
	ErrorServiceExists          Errno = 1073
	ErrorDuplicateServiceName   Errno = 1078
)

var errnoText = map[Errno]string{
	ErrorAccessDenied:           "access is denied",
	ErrorInvalidHandle:          "the handle is invalid",
	ErrorInvalidParameter:       "the parameter is incorrect",
	ErrorInsufficientBuffer:     "the data area passed to a system call is too small",
	ErrorInvalidName:            "the specified service name is invalid",
	ErrorInvalidServiceAccount:  "the account name is invalid or does not exist",
	ErrorCircularDependency:     "a circular service dependency was specified",
	ErrorServiceDoesNotExist:    "the specified service does not exist as an installed service",
	ErrorDatabaseDoesNotExist:   "the specified service database does not exist",
	ErrorServiceMarkedForDelete: "the specified service has been marked for deletion",
	ErrorServiceExists:          "the specified service already exists",
	ErrorDuplicateServiceName:   "the name is already in use as either a service name or a service display name",
}

func (e Errno) Error() string {
	if msg, ok := errnoText[e]; ok {
		return msg
	}
	return fmt.Sprintf("unknown service error %d", uint32(e))
}

// NoChange is the sentinel the SCM change-configuration call interprets as
// "leave this numeric field unmodified". String fields use a nil pointer for
// the same purpose.
const NoChange uint32 = 0xffffffff

// RawConfig mirrors the memory layout of the SCM's QUERY_SERVICE_CONFIGW
// record. The string fields are raw UTF-16 pointers into the buffer the
// record was returned in.
type RawConfig struct {
	ServiceType      uint32
	StartType        uint32
	ErrorControl     uint32
	BinaryPathName   *uint16
	LoadOrderGroup   *uint16
	TagID            uint32
	Dependencies     *uint16
	ServiceStartName *uint16
	DisplayName      *uint16
}

// CreateSpec carries the registration parameters for a new service.
type CreateSpec struct {
	DisplayName    string
	ServiceType    uint32
	StartType      uint32
	ErrorControl   uint32
	BinaryPathName string
	LoadOrderGroup string
	Dependencies   []string
	StartName      string
}

// ChangeRequest is one configuration change. Numeric fields set to NoChange
// and nil string/slice fields are left untouched by the SCM. A non-nil empty
// Dependencies slice clears the dependency list. The start account is
// deliberately absent: resending it through a partial change corrupts the
// field, so this boundary cannot carry it.
type ChangeRequest struct {
	ServiceType    uint32
	StartType      uint32
	ErrorControl   uint32
	BinaryPathName *string
	LoadOrderGroup *string
	Dependencies   []string
	DisplayName    *string
}

// Status is a snapshot of the SCM's SERVICE_STATUS record.
type Status struct {
	ServiceType             uint32
	State                   uint32
	ControlsAccepted        uint32
	Win32ExitCode           uint32
	ServiceSpecificExitCode uint32
	CheckPoint              uint32
	WaitHint                uint32
}

// API is the primitive operation set of the service control manager.
// OpenManager, OpenService and CreateService allocate OS-side resources that
// must be released with Close exactly once.
type API interface {
	OpenManager(access uint32) (Handle, error)
	OpenService(m Handle, name string, access uint32) (Handle, error)
	CreateService(m Handle, name string, access uint32, spec CreateSpec) (Handle, error)

	// QueryConfig copies the service's configuration record into buf and
	// reports the record size. A nil or short buf fails with
	// ErrorInsufficientBuffer while still reporting the required size; that
	// is the expected outcome of the probe phase, not a failure.
	QueryConfig(s Handle, buf []byte) (needed uint32, err error)

	ChangeConfig(s Handle, req ChangeRequest) error
	DeleteService(s Handle) error
	QueryStatus(s Handle) (Status, error)
	Close(h Handle) error
}
