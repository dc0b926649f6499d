// Package winsvc manages Windows service registrations through the service
// control manager: opening, creating, reconfiguring and deleting installed
// services. It is meant for installers and administrative tools; it never
// drives a service's own execution loop.
package winsvc

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/amidaware/winsvc/scm"
)

var log = logrus.StandardLogger()

// SetLogger replaces the package logger. Only best-effort handle-close
// failures are ever logged; every other failure is returned to the caller.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}

// WindowsService is one open service registration: a live service handle
// plus the last configuration queried from the SCM. Instances must not be
// shared between goroutines.
type WindowsService struct {
	Name   string
	Config Config

	handle *handleref
	sys    scm.API
}

type options struct {
	managerAccess ManagerAccess
	serviceAccess ServiceAccess
}

// Option overrides the access masks requested from the SCM.
type Option func(*options)

func WithManagerAccess(access ManagerAccess) Option {
	return func(o *options) { o.managerAccess = access }
}

func WithServiceAccess(access ServiceAccess) Option {
	return func(o *options) { o.serviceAccess = access }
}

// Open opens an existing service by name and queries its configuration.
// Without options the manager and service handles are requested with read
// access only.
func Open(name string, opts ...Option) (*WindowsService, error) {
	return openService(scm.New(), name, opts)
}

// New registers a new service and queries it back, so the returned Config
// is the canonical state including SCM-assigned defaults. Zero-value fields
// of conf get the usual defaults: the display name falls back to name, the
// service type to own-process, the start type to manual and the error
// control to normal. BinaryPathName is required.
func New(name string, conf Config, opts ...Option) (*WindowsService, error) {
	return createService(scm.New(), name, conf, opts)
}

func openService(sys scm.API, name string, opts []Option) (*WindowsService, error) {
	o := options{
		managerAccess: ManagerConnect | ManagerEnumerateService,
		serviceAccess: ServiceGenericRead,
	}
	for _, opt := range opts {
		opt(&o)
	}

	mgr, err := openManager(sys, o.managerAccess)
	if err != nil {
		return nil, err
	}
	defer mgr.release()

	mh, _ := mgr.get()
	h, err := sys.OpenService(mh, name, uint32(o.serviceAccess))
	if err != nil {
		return nil, svcError(NotFound, name, err)
	}
	return wrapService(sys, name, h)
}

func createService(sys scm.API, name string, conf Config, opts []Option) (*WindowsService, error) {
	o := options{
		managerAccess: ManagerConnect | ManagerCreateService,
		serviceAccess: ServiceAllAccess,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if conf.BinaryPathName == "" {
		return nil, &Error{Kind: InvalidConfig, Service: name, Err: errors.New("binary path is required")}
	}
	if conf.DisplayName == "" {
		conf.DisplayName = name
	}
	if conf.ServiceType == 0 {
		conf.ServiceType = TypeOwnProcess
	}
	if conf.StartType == 0 {
		conf.StartType = StartManual
	}
	if conf.ErrorControl == 0 {
		conf.ErrorControl = ErrorNormal
	}

	mgr, err := openManager(sys, o.managerAccess)
	if err != nil {
		return nil, err
	}
	defer mgr.release()

	mh, _ := mgr.get()
	h, err := sys.CreateService(mh, name, uint32(o.serviceAccess), scm.CreateSpec{
		DisplayName:    conf.DisplayName,
		ServiceType:    uint32(conf.ServiceType),
		StartType:      uint32(conf.StartType),
		ErrorControl:   uint32(conf.ErrorControl),
		BinaryPathName: conf.BinaryPathName,
		LoadOrderGroup: conf.LoadOrderGroup,
		Dependencies:   conf.Dependencies,
		StartName:      conf.ServiceStartName,
	})
	if err != nil {
		return nil, svcError(InvalidConfig, name, err)
	}
	return wrapService(sys, name, h)
}

func openManager(sys scm.API, access ManagerAccess) (*handleref, error) {
	h, err := sys.OpenManager(uint32(access))
	if err != nil {
		return nil, svcError(ManagerUnavailable, "", err)
	}
	return &handleref{sys: sys, h: h}, nil
}

// wrapService takes ownership of h. On a query failure the handle is
// released before returning, so no path leaks it.
func wrapService(sys scm.API, name string, h scm.Handle) (*WindowsService, error) {
	ref := &handleref{sys: sys, h: h, name: name}
	cfg, err := queryConfig(sys, h, name)
	if err != nil {
		ref.release()
		return nil, err
	}
	return &WindowsService{Name: name, Config: cfg, handle: ref, sys: sys}, nil
}

// UpdateConfig pushes configuration changes to the SCM. With no arguments
// every editable field of s.Config is sent; otherwise only the named fields
// are sent and everything else carries the no-change sentinel. On success
// s.Config is replaced with a fresh query, so it reflects what the SCM
// actually applied; on failure it keeps its last queried value.
func (s *WindowsService) UpdateConfig(fields ...Field) error {
	h, err := s.handle.get()
	if err != nil {
		return err
	}

	selected := FieldAll
	if len(fields) > 0 {
		selected = 0
		for _, f := range fields {
			selected |= f
		}
	}

	if err := s.sys.ChangeConfig(h, changeRequest(s.Config, selected)); err != nil {
		return svcError(UpdateFailed, s.Name, err)
	}

	cfg, err := queryConfig(s.sys, h, s.Name)
	if err != nil {
		return err
	}
	s.Config = cfg
	return nil
}

// Delete marks the backing service for deletion. The SCM removes it once
// every open handle, including this one, is closed; Delete does not wait
// for that. The descriptor is stale afterwards and further configuration
// calls fail.
func (s *WindowsService) Delete() error {
	h, err := s.handle.get()
	if err != nil {
		return err
	}
	if err := s.sys.DeleteService(h); err != nil {
		return svcError(DeleteFailed, s.Name, err)
	}
	return nil
}

// Status queries the service's current execution state.
func (s *WindowsService) Status() (ServiceStatus, error) {
	h, err := s.handle.get()
	if err != nil {
		return ServiceStatus{}, err
	}
	st, err := s.sys.QueryStatus(h)
	if err != nil {
		return ServiceStatus{}, svcError(QueryFailed, s.Name, err)
	}
	return ServiceStatus{
		State:                   State(st.State),
		ControlsAccepted:        st.ControlsAccepted,
		Win32ExitCode:           st.Win32ExitCode,
		ServiceSpecificExitCode: st.ServiceSpecificExitCode,
		CheckPoint:              st.CheckPoint,
		WaitHint:                st.WaitHint,
	}, nil
}

// Close releases the service handle. Safe to call more than once; only the
// first call reaches the OS.
func (s *WindowsService) Close() {
	s.handle.release()
}
