package winsvc

// State is the current execution state the SCM reports for a service.
type State uint32

const (
	Stopped         State = 1
	StartPending    State = 2
	StopPending     State = 3
	Running         State = 4
	ContinuePending State = 5
	PausePending    State = 6
	Paused          State = 7
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case StartPending:
		return "start_pending"
	case StopPending:
		return "stop_pending"
	case Running:
		return "running"
	case ContinuePending:
		return "continue_pending"
	case PausePending:
		return "pause_pending"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// ServiceStatus is a point-in-time status snapshot.
type ServiceStatus struct {
	State                   State
	ControlsAccepted        uint32
	Win32ExitCode           uint32
	ServiceSpecificExitCode uint32
	CheckPoint              uint32
	WaitHint                uint32
}
