package winsvc

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unsafe"

	"github.com/amidaware/winsvc/scm"
)

// Config is the owned snapshot of a service's registered configuration.
type Config struct {
	ServiceType    Type
	StartType      StartType
	ErrorControl   ErrorControl
	BinaryPathName string // path to the executable, may carry arguments
	LoadOrderGroup string
	TagID          uint32
	Dependencies   []string // service or load-order-group names, in order
	// ServiceStartName is the account the service runs as. It is read-only:
	// the SCM corrupts the field when resent through a partial change, so
	// updates never include it.
	ServiceStartName string
	DisplayName      string
}

// queryConfig reads the service's configuration record through the SCM's
// two-phase protocol: a nil-buffer probe that reports the required size via
// the insufficient-buffer error, then a fetch into a buffer of exactly that
// size.
func queryConfig(sys scm.API, h scm.Handle, name string) (Config, error) {
	needed, err := sys.QueryConfig(h, nil)
	if err == nil {
		return Config{}, &Error{Kind: QueryFailed, Service: name, Err: errors.New("size probe unexpectedly succeeded")}
	}
	if !errors.Is(err, scm.ErrorInsufficientBuffer) {
		return Config{}, svcError(QueryFailed, name, err)
	}
	buf := make([]byte, needed)
	if _, err := sys.QueryConfig(h, buf); err != nil {
		return Config{}, svcError(QueryFailed, name, err)
	}
	return decodeConfig(name, buf)
}

func decodeConfig(name string, buf []byte) (Config, error) {
	if uintptr(len(buf)) < unsafe.Sizeof(scm.RawConfig{}) {
		return Config{}, &Error{Kind: DecodeError, Service: name,
			Err: fmt.Errorf("configuration record truncated at %d bytes", len(buf))}
	}
	rc := (*scm.RawConfig)(unsafe.Pointer(&buf[0]))
	return Config{
		ServiceType:      Type(rc.ServiceType),
		StartType:        StartType(rc.StartType),
		ErrorControl:     ErrorControl(rc.ErrorControl),
		BinaryPathName:   utf16PtrToString(rc.BinaryPathName),
		LoadOrderGroup:   utf16PtrToString(rc.LoadOrderGroup),
		TagID:            rc.TagID,
		Dependencies:     utf16PtrToStrings(rc.Dependencies),
		ServiceStartName: utf16PtrToString(rc.ServiceStartName),
		DisplayName:      utf16PtrToString(rc.DisplayName),
	}, nil
}

// changeRequest builds the change parameters for the selected fields. Every
// field outside the selection carries the SCM's no-change sentinel rather
// than its current value, so a concurrent external change to an unselected
// field is never re-asserted. The start account has no slot in the request
// at all.
func changeRequest(c Config, fields Field) scm.ChangeRequest {
	req := scm.ChangeRequest{
		ServiceType:  scm.NoChange,
		StartType:    scm.NoChange,
		ErrorControl: scm.NoChange,
	}
	if fields&FieldServiceType != 0 {
		req.ServiceType = uint32(c.ServiceType)
	}
	if fields&FieldStartType != 0 {
		req.StartType = uint32(c.StartType)
	}
	if fields&FieldErrorControl != 0 {
		req.ErrorControl = uint32(c.ErrorControl)
	}
	if fields&FieldBinaryPathName != 0 {
		v := c.BinaryPathName
		req.BinaryPathName = &v
	}
	if fields&FieldLoadOrderGroup != 0 {
		v := c.LoadOrderGroup
		req.LoadOrderGroup = &v
	}
	if fields&FieldDependencies != 0 {
		req.Dependencies = make([]string, len(c.Dependencies))
		copy(req.Dependencies, c.Dependencies)
	}
	if fields&FieldDisplayName != 0 {
		v := c.DisplayName
		req.DisplayName = &v
	}
	return req
}

func utf16PtrToString(p *uint16) string {
	if p == nil {
		return ""
	}
	n := 0
	for q := unsafe.Pointer(p); *(*uint16)(q) != 0; n++ {
		q = unsafe.Pointer(uintptr(q) + unsafe.Sizeof(uint16(0)))
	}
	return string(utf16.Decode(unsafe.Slice(p, n)))
}

// utf16PtrToStrings decodes a single-NUL separated block, stopping at the
// double-NUL terminator. The result is fully materialized and ordered.
func utf16PtrToStrings(p *uint16) []string {
	if p == nil {
		return nil
	}
	var out []string
	for {
		n := 0
		q := unsafe.Pointer(p)
		for *(*uint16)(q) != 0 {
			q = unsafe.Pointer(uintptr(q) + unsafe.Sizeof(uint16(0)))
			n++
		}
		if n == 0 {
			return out
		}
		out = append(out, string(utf16.Decode(unsafe.Slice(p, n))))
		p = (*uint16)(unsafe.Pointer(uintptr(q) + unsafe.Sizeof(uint16(0))))
	}
}
