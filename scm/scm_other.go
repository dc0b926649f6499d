//go:build !windows
// +build !windows

package scm

import "errors"

// ErrUnsupported is returned by every operation of the stub backend.
var ErrUnsupported = errors.New("scm: the service control manager is only available on windows")

// New returns a stub backend so the package compiles on non-Windows
// platforms. Every call fails with ErrUnsupported.
func New() API {
	return stubSCM{}
}

type stubSCM struct{}

func (stubSCM) OpenManager(access uint32) (Handle, error) { return 0, ErrUnsupported }

func (stubSCM) OpenService(m Handle, name string, access uint32) (Handle, error) {
	return 0, ErrUnsupported
}

func (stubSCM) CreateService(m Handle, name string, access uint32, spec CreateSpec) (Handle, error) {
	return 0, ErrUnsupported
}

func (stubSCM) QueryConfig(s Handle, buf []byte) (uint32, error) { return 0, ErrUnsupported }

func (stubSCM) ChangeConfig(s Handle, req ChangeRequest) error { return ErrUnsupported }

func (stubSCM) DeleteService(s Handle) error { return ErrUnsupported }

func (stubSCM) QueryStatus(s Handle) (Status, error) { return Status{}, ErrUnsupported }

func (stubSCM) Close(h Handle) error { return ErrUnsupported }
