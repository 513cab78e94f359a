package session

import "time"

// State is the scan session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateScanning
	StatePaused
	StateStopping
	StateError
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "Starting"
	case StateScanning:
		return "Scanning"
	case StatePaused:
		return "Paused"
	case StateStopping:
		return "Stopping"
	case StateError:
		return "Error"
	default:
		return "Idle"
	}
}

// SuccessPolicy selects how the driver is held while a result is shown.
type SuccessPolicy int

const (
	// StopOnSuccess fully stops the driver and restarts it on ScanAgain.
	StopOnSuccess SuccessPolicy = iota
	// PauseOnSuccess pauses the driver when it supports it, falling back to
	// a stop otherwise.
	PauseOnSuccess
)

func (p SuccessPolicy) String() string {
	if p == PauseOnSuccess {
		return "pause-on-success"
	}
	return "stop-on-success"
}

// Status labels shown in the status pill.
const (
	StatusNotStarted  = "Not started"
	StatusStarting    = "Starting camera…"
	StatusScanning    = "Scanning…"
	StatusPointCamera = "Point camera at a barcode…"
	StatusScanned     = "Scanned"
	StatusStopped     = "Stopped"
	StatusCameraError = "Camera error"
)

// Presentation is what the result modal shows.
type Presentation struct {
	ID         string
	Text       string
	FormatName string
	IsURL      bool
	DecodedAt  time.Time
}

// Snapshot is an immutable view of the session for the presentation
// surface. Result is non-nil exactly when State is StatePaused.
type Snapshot struct {
	Seq          uint64
	State        State
	Status       string
	Result       *Presentation
	TorchVisible bool
	TorchOn      bool
}

// ModalVisible reports whether the result modal should be shown.
func (s Snapshot) ModalVisible() bool {
	return s.Result != nil
}

// Presenter receives session snapshots and user-visible alerts. Snapshots
// may arrive out of order from different goroutines; receivers keep the one
// with the highest Seq.
type Presenter interface {
	Present(Snapshot)
	Alert(message string)
}

// driverHold records what was done to the driver after a decode.
type driverHold int

const (
	holdNone driverHold = iota // still streaming
	holdPaused
	holdStopped
)
