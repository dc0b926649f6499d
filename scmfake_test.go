package winsvc

import (
	"unicode/utf16"
	"unsafe"

	"github.com/amidaware/winsvc/scm"
)

// fakeSCM is an in-memory service control manager. It hands out real
// QUERY_SERVICE_CONFIGW-shaped buffers, tracks every handle it issues and
// counts closes, and can be scripted to fail any primitive.
type fakeSCM struct {
	services map[string]*fakeService

	next     scm.Handle
	handles  map[scm.Handle]string // open handles; "" marks the manager
	closes   map[scm.Handle]int
	managers []scm.Handle

	keep [][]uint16 // backing arrays for pointers handed out in records

	openManagerErr error
	openServiceErr error
	createErr      error
	queryErr       error
	changeErr      error
	statusErr      error
	deleteErr      error

	lastChange *scm.ChangeRequest
}

type fakeService struct {
	serviceType    uint32
	startType      uint32
	errorControl   uint32
	binaryPath     string
	loadOrderGroup string
	tagID          uint32
	dependencies   []string
	startName      string
	displayName    string
	state          uint32
}

func newFakeSCM() *fakeSCM {
	return &fakeSCM{
		services: make(map[string]*fakeService),
		next:     1,
		handles:  make(map[scm.Handle]string),
		closes:   make(map[scm.Handle]int),
	}
}

func (f *fakeSCM) addService(name string, s fakeService) *fakeService {
	if s.state == 0 {
		s.state = uint32(Stopped)
	}
	cp := s
	f.services[name] = &cp
	return &cp
}

func (f *fakeSCM) issue(name string) scm.Handle {
	h := f.next
	f.next++
	f.handles[h] = name
	return h
}

func (f *fakeSCM) isManager(h scm.Handle) bool {
	name, ok := f.handles[h]
	return ok && name == ""
}

func (f *fakeSCM) lookup(h scm.Handle) (*fakeService, error) {
	name, ok := f.handles[h]
	if !ok || name == "" {
		return nil, scm.ErrorInvalidHandle
	}
	s, ok := f.services[name]
	if !ok {
		return nil, scm.ErrorServiceMarkedForDelete
	}
	return s, nil
}

func (f *fakeSCM) managerCloses() int {
	n := 0
	for _, h := range f.managers {
		n += f.closes[h]
	}
	return n
}

func (f *fakeSCM) OpenManager(access uint32) (scm.Handle, error) {
	if f.openManagerErr != nil {
		return 0, f.openManagerErr
	}
	h := f.issue("")
	f.managers = append(f.managers, h)
	return h, nil
}

func (f *fakeSCM) OpenService(m scm.Handle, name string, access uint32) (scm.Handle, error) {
	if !f.isManager(m) {
		return 0, scm.ErrorInvalidHandle
	}
	if f.openServiceErr != nil {
		return 0, f.openServiceErr
	}
	if _, ok := f.services[name]; !ok {
		return 0, scm.ErrorServiceDoesNotExist
	}
	return f.issue(name), nil
}

func (f *fakeSCM) CreateService(m scm.Handle, name string, access uint32, spec scm.CreateSpec) (scm.Handle, error) {
	if !f.isManager(m) {
		return 0, scm.ErrorInvalidHandle
	}
	if f.createErr != nil {
		return 0, f.createErr
	}
	if _, ok := f.services[name]; ok {
		return 0, scm.ErrorServiceExists
	}
	f.addService(name, fakeService{
		serviceType:    spec.ServiceType,
		startType:      spec.StartType,
		errorControl:   spec.ErrorControl,
		binaryPath:     spec.BinaryPathName,
		loadOrderGroup: spec.LoadOrderGroup,
		dependencies:   append([]string(nil), spec.Dependencies...),
		startName:      spec.StartName,
		displayName:    spec.DisplayName,
	})
	return f.issue(name), nil
}

func (f *fakeSCM) alloc(s string) *uint16 {
	u := append(utf16.Encode([]rune(s)), 0)
	f.keep = append(f.keep, u)
	return &u[0]
}

func (f *fakeSCM) allocBlock(names []string) *uint16 {
	if len(names) == 0 {
		return nil
	}
	var u []uint16
	for _, n := range names {
		u = append(u, utf16.Encode([]rune(n))...)
		u = append(u, 0)
	}
	u = append(u, 0)
	f.keep = append(f.keep, u)
	return &u[0]
}

func utf16Size(s string) uint32 {
	return uint32(2 * (len(utf16.Encode([]rune(s))) + 1))
}

func (f *fakeSCM) QueryConfig(h scm.Handle, buf []byte) (uint32, error) {
	s, err := f.lookup(h)
	if err != nil {
		return 0, err
	}
	if f.queryErr != nil {
		return 0, f.queryErr
	}

	needed := uint32(unsafe.Sizeof(scm.RawConfig{}))
	for _, str := range []string{s.binaryPath, s.loadOrderGroup, s.startName, s.displayName} {
		needed += utf16Size(str)
	}
	for _, d := range s.dependencies {
		needed += utf16Size(d)
	}
	if len(s.dependencies) > 0 {
		needed += 2 // block terminator
	}
	if uint32(len(buf)) < needed {
		return needed, scm.ErrorInsufficientBuffer
	}

	rc := (*scm.RawConfig)(unsafe.Pointer(&buf[0]))
	*rc = scm.RawConfig{
		ServiceType:      s.serviceType,
		StartType:        s.startType,
		ErrorControl:     s.errorControl,
		BinaryPathName:   f.alloc(s.binaryPath),
		LoadOrderGroup:   f.alloc(s.loadOrderGroup),
		TagID:            s.tagID,
		Dependencies:     f.allocBlock(s.dependencies),
		ServiceStartName: f.alloc(s.startName),
		DisplayName:      f.alloc(s.displayName),
	}
	return needed, nil
}

func (f *fakeSCM) ChangeConfig(h scm.Handle, req scm.ChangeRequest) error {
	s, err := f.lookup(h)
	if err != nil {
		return err
	}
	cp := req
	f.lastChange = &cp
	if f.changeErr != nil {
		return f.changeErr
	}
	if req.ServiceType != scm.NoChange {
		s.serviceType = req.ServiceType
	}
	if req.StartType != scm.NoChange {
		s.startType = req.StartType
	}
	if req.ErrorControl != scm.NoChange {
		s.errorControl = req.ErrorControl
	}
	if req.BinaryPathName != nil {
		s.binaryPath = *req.BinaryPathName
	}
	if req.LoadOrderGroup != nil {
		s.loadOrderGroup = *req.LoadOrderGroup
	}
	if req.Dependencies != nil {
		s.dependencies = append([]string(nil), req.Dependencies...)
	}
	if req.DisplayName != nil {
		s.displayName = *req.DisplayName
	}
	return nil
}

func (f *fakeSCM) DeleteService(h scm.Handle) error {
	name, ok := f.handles[h]
	if !ok || name == "" {
		return scm.ErrorInvalidHandle
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.services[name]; !ok {
		return scm.ErrorServiceMarkedForDelete
	}
	delete(f.services, name)
	return nil
}

func (f *fakeSCM) QueryStatus(h scm.Handle) (scm.Status, error) {
	s, err := f.lookup(h)
	if err != nil {
		return scm.Status{}, err
	}
	if f.statusErr != nil {
		return scm.Status{}, f.statusErr
	}
	return scm.Status{ServiceType: s.serviceType, State: s.state}, nil
}

func (f *fakeSCM) Close(h scm.Handle) error {
	if _, ok := f.handles[h]; !ok {
		return scm.ErrorInvalidHandle
	}
	delete(f.handles, h)
	f.closes[h]++
	return nil
}
