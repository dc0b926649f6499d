package winsvc

import "github.com/amidaware/winsvc/scm"

// handleref owns one SCM object handle. Open is the only state it is born
// in; release moves it to closed, which is terminal. The second and later
// releases are no-ops and are never forwarded to the OS.
type handleref struct {
	sys    scm.API
	h      scm.Handle
	name   string // service name, or "" for the manager handle
	closed bool
}

func (r *handleref) get() (scm.Handle, error) {
	if r.closed {
		return 0, &Error{Kind: HandleClosed, Service: r.name}
	}
	return r.h, nil
}

// release closes the handle. Best effort: the OS refusing a close leaves
// nothing actionable, so failures are logged and not propagated.
func (r *handleref) release() {
	if r.closed {
		return
	}
	r.closed = true
	if err := r.sys.Close(r.h); err != nil {
		log.WithError(err).WithField("service", r.name).Debugln("failed to close service control handle")
	}
}
