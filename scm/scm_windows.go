//go:build windows
// +build windows

package scm

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// New returns the live service control manager backend.
func New() API {
	return sysSCM{}
}

type sysSCM struct{}

func (sysSCM) OpenManager(access uint32) (Handle, error) {
	h, err := windows.OpenSCManager(nil, nil, access)
	if err != nil {
		return 0, errno(err)
	}
	return Handle(h), nil
}

func (sysSCM) OpenService(m Handle, name string, access uint32) (Handle, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, ErrorInvalidName
	}
	h, err := windows.OpenService(windows.Handle(m), p, access)
	if err != nil {
		return 0, errno(err)
	}
	return Handle(h), nil
}

func (sysSCM) CreateService(m Handle, name string, access uint32, spec CreateSpec) (Handle, error) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, ErrorInvalidName
	}
	deps, err := stringBlock(spec.Dependencies)
	if err != nil {
		return 0, ErrorInvalidParameter
	}
	h, err := windows.CreateService(windows.Handle(m), namep, strPtr(spec.DisplayName),
		access, spec.ServiceType, spec.StartType, spec.ErrorControl,
		strPtr(spec.BinaryPathName), strPtr(spec.LoadOrderGroup),
		nil, deps, strPtr(spec.StartName), nil)
	if err != nil {
		return 0, errno(err)
	}
	return Handle(h), nil
}

func (sysSCM) QueryConfig(s Handle, buf []byte) (uint32, error) {
	var p *windows.QUERY_SERVICE_CONFIG
	if len(buf) > 0 {
		p = (*windows.QUERY_SERVICE_CONFIG)(unsafe.Pointer(&buf[0]))
	}
	var needed uint32
	if err := windows.QueryServiceConfig(windows.Handle(s), p, uint32(len(buf)), &needed); err != nil {
		return needed, errno(err)
	}
	return needed, nil
}

func (sysSCM) ChangeConfig(s Handle, req ChangeRequest) error {
	deps, err := changeBlock(req.Dependencies)
	if err != nil {
		return ErrorInvalidParameter
	}
	// The start account and password slots are always nil: nil means
	// "no change" and this boundary never carries either field.
	err = windows.ChangeServiceConfig(windows.Handle(s), req.ServiceType,
		req.StartType, req.ErrorControl, optPtr(req.BinaryPathName),
		optPtr(req.LoadOrderGroup), nil, deps, nil, nil, optPtr(req.DisplayName))
	if err != nil {
		return errno(err)
	}
	return nil
}

func (sysSCM) DeleteService(s Handle) error {
	if err := windows.DeleteService(windows.Handle(s)); err != nil {
		return errno(err)
	}
	return nil
}

func (sysSCM) QueryStatus(s Handle) (Status, error) {
	var st windows.SERVICE_STATUS
	if err := windows.QueryServiceStatus(windows.Handle(s), &st); err != nil {
		return Status{}, errno(err)
	}
	return Status{
		ServiceType:             st.ServiceType,
		State:                   st.CurrentState,
		ControlsAccepted:        st.ControlsAccepted,
		Win32ExitCode:           st.Win32ExitCode,
		ServiceSpecificExitCode: st.ServiceSpecificExitCode,
		CheckPoint:              st.CheckPoint,
		WaitHint:                st.WaitHint,
	}, nil
}

func (sysSCM) Close(h Handle) error {
	if err := windows.CloseServiceHandle(windows.Handle(h)); err != nil {
		return errno(err)
	}
	return nil
}

func errno(err error) error {
	if e, ok := err.(syscall.Errno); ok {
		return Errno(e)
	}
	return err
}

func strPtr(s string) *uint16 {
	if s == "" {
		return nil
	}
	p, err := windows.UTF16PtrFromString(s)
	if err != nil {
		return nil
	}
	return p
}

func optPtr(s *string) *uint16 {
	if s == nil {
		return nil
	}
	p, err := windows.UTF16PtrFromString(*s)
	if err != nil {
		return nil
	}
	return p
}

// stringBlock encodes names as a single-NUL separated, double-NUL terminated
// UTF-16 block. An empty list yields nil, which CreateService reads as "no
// dependencies".
func stringBlock(names []string) (*uint16, error) {
	var block []uint16
	for _, n := range names {
		if n == "" {
			continue
		}
		u, err := windows.UTF16FromString(n)
		if err != nil {
			return nil, err
		}
		block = append(block, u...) // includes the terminating NUL
	}
	if len(block) == 0 {
		return nil, nil
	}
	block = append(block, 0)
	return &block[0], nil
}

// changeBlock is stringBlock for the change path, where nil means "no change"
// and an explicit empty double-NUL block clears the list.
func changeBlock(names []string) (*uint16, error) {
	if names == nil {
		return nil, nil
	}
	p, err := stringBlock(names)
	if err != nil || p != nil {
		return p, err
	}
	empty := []uint16{0, 0}
	return &empty[0], nil
}
