package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"barcode-scanner.klederson.com/internal/scanner"
)

// Session coordinates one camera scan session: driver lifecycle, result
// presentation and torch state.
//
// mu guards every field below it and is never held across a driver call.
// ops serializes driver calls; every path re-checks state and driver
// identity after acquiring it, because transitions requested while it was
// held may have superseded the caller.
type Session struct {
	newDriver scanner.Factory
	presenter Presenter
	catalog   []scanner.Format
	camera    scanner.CameraConstraints
	decoder   scanner.DecoderConfig
	policy    SuccessPolicy
	now       func() time.Time
	epoch     time.Time

	ops sync.Mutex

	mu              sync.Mutex
	state           State
	status          string
	lastDecodedText string
	torchOn         bool
	torchVisible    bool
	torchBroken     bool
	driver          scanner.Driver
	hold            driverHold
	gen             uint64
	result          *Presentation
	seq             uint64

	// Nanoseconds since epoch of the last decode failure. Written from the
	// driver's failure callback without taking mu.
	lastFailure atomic.Int64
}

// New creates an idle session. factory is called on every start from Idle
// or Error with the format catalog.
func New(factory scanner.Factory, presenter Presenter, policy SuccessPolicy) *Session {
	now := time.Now
	return &Session{
		newDriver:    factory,
		presenter:    presenter,
		catalog:      scanner.Catalog(),
		camera:       scanner.DefaultCameraConstraints(),
		decoder:      scanner.DefaultDecoderConfig(),
		policy:       policy,
		now:          now,
		epoch:        now(),
		state:        StateIdle,
		status:       StatusNotStarted,
		torchVisible: true,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the current view without publishing it.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() Snapshot {
	var res *Presentation
	if s.state == StatePaused && s.result != nil {
		cp := *s.result
		res = &cp
	}
	return Snapshot{
		Seq:          s.seq,
		State:        s.state,
		Status:       s.status,
		Result:       res,
		TorchVisible: s.torchVisible,
		TorchOn:      s.torchOn,
	}
}

// publishLocked bumps the sequence and returns the snapshot to hand to the
// presenter once mu is released.
func (s *Session) publishLocked() Snapshot {
	s.seq++
	return s.viewLocked()
}

// Start constructs a driver and requests the camera. It is a no-op unless
// the session is Idle or Error.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	startable := s.state == StateIdle || s.state == StateError
	s.mu.Unlock()
	if !startable {
		return nil
	}

	drv, err := s.newDriver(s.catalog)
	if err != nil {
		slog.Error("session: decoder backend missing", "error", err)
		s.presenter.Alert(libraryMissingMessage(err))
		return err
	}

	s.mu.Lock()
	if s.state != StateIdle && s.state != StateError {
		// Another Start won while the driver was being built. drv was never
		// started, so there is nothing to release.
		s.mu.Unlock()
		return nil
	}
	slog.Info("session: starting", "from", s.state.String())
	s.driver = drv
	s.lastDecodedText = ""
	s.result = nil
	s.hold = holdNone
	s.state = StateStarting
	s.status = StatusStarting
	snap := s.publishLocked()
	s.mu.Unlock()
	s.presenter.Present(snap)

	s.ops.Lock()
	defer s.ops.Unlock()
	return s.launch(ctx, drv)
}

// launch starts drv for a session in Starting. Caller holds ops.
func (s *Session) launch(ctx context.Context, drv scanner.Driver) error {
	s.mu.Lock()
	if s.state != StateStarting || s.driver != drv {
		stopping := s.state == StateStopping && s.driver == drv
		s.mu.Unlock()
		if stopping {
			s.converge(ctx, drv)
		}
		return nil
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	err := drv.Start(ctx, s.camera, s.decoder, s.successHandler(gen), s.recordFailure)
	return s.finishStart(ctx, drv, err)
}

// finishStart settles a start or resume attempt. Caller holds ops.
func (s *Session) finishStart(ctx context.Context, drv scanner.Driver, startErr error) error {
	s.mu.Lock()
	if s.state != StateStarting || s.driver != drv {
		// Close arrived while the camera was starting; Stopping absorbs
		// both outcomes.
		stopping := s.state == StateStopping && s.driver == drv
		s.mu.Unlock()
		if stopping {
			s.converge(ctx, drv)
		}
		return nil
	}

	if startErr != nil {
		s.state = StateError
		s.status = StatusCameraError
		s.driver = nil
		s.hold = holdNone
		snap := s.publishLocked()
		s.mu.Unlock()

		slog.Error("session: camera start failed", "error", startErr)
		s.release(ctx, drv)
		s.presenter.Present(snap)
		s.presenter.Alert(cameraStartMessage(startErr))
		return fmt.Errorf("start camera: %w", startErr)
	}

	s.enterScanningLocked()
	snap := s.publishLocked()
	s.mu.Unlock()
	s.presenter.Present(snap)

	s.probeTorch(drv)
	return nil
}

func (s *Session) enterScanningLocked() {
	s.state = StateScanning
	s.status = StatusScanning
	s.hold = holdNone
	s.torchOn = false
	s.lastFailure.Store(int64(s.now().Sub(s.epoch)))
}

// Close stops scanning and releases the camera. Closing while Starting only
// marks the session Stopping; the pending start performs the teardown.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateStarting:
		s.state = StateStopping
		s.torchOn = false
		snap := s.publishLocked()
		s.mu.Unlock()
		s.presenter.Present(snap)
		return nil

	case StateScanning, StatePaused:
		drv := s.driver
		s.state = StateStopping
		s.result = nil
		s.torchOn = false
		snap := s.publishLocked()
		s.mu.Unlock()
		s.presenter.Present(snap)

		s.ops.Lock()
		defer s.ops.Unlock()
		s.converge(ctx, drv)
		return nil
	}
	s.mu.Unlock()
	return nil
}

// converge releases drv and moves a Stopping session to Idle. Caller holds
// ops.
func (s *Session) converge(ctx context.Context, drv scanner.Driver) {
	s.release(ctx, drv)

	s.mu.Lock()
	if s.driver != drv {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.status = StatusStopped
	s.driver = nil
	s.result = nil
	s.torchOn = false
	s.hold = holdNone
	snap := s.publishLocked()
	s.mu.Unlock()

	slog.Info("session: stopped")
	s.presenter.Present(snap)
}

// release stops and clears drv, swallowing errors.
func (s *Session) release(ctx context.Context, drv scanner.Driver) {
	if drv == nil {
		return
	}
	if err := drv.Stop(ctx); err != nil {
		slog.Debug("session: driver stop failed", "error", err)
	}
	if err := drv.Clear(ctx); err != nil {
		slog.Debug("session: driver clear failed", "error", err)
	}
}

// ScanAgain dismisses the result and re-arms the scanner. It is a no-op
// unless a result is shown.
func (s *Session) ScanAgain(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StatePaused {
		s.mu.Unlock()
		return nil
	}
	drv := s.driver
	s.lastDecodedText = ""
	s.result = nil
	s.state = StateStarting
	s.status = StatusStarting
	snap := s.publishLocked()
	s.mu.Unlock()
	s.presenter.Present(snap)

	s.ops.Lock()
	defer s.ops.Unlock()

	s.mu.Lock()
	if s.state != StateStarting || s.driver != drv {
		stopping := s.state == StateStopping && s.driver == drv
		s.mu.Unlock()
		if stopping {
			s.converge(ctx, drv)
		}
		return nil
	}
	hold := s.hold
	s.mu.Unlock()

	switch hold {
	case holdNone:
		// Dismissed before the driver was held; it never stopped.
		return s.finishStart(ctx, drv, nil)

	case holdPaused:
		if p, ok := drv.(scanner.Pauser); ok {
			err := p.Resume(ctx)
			if err == nil {
				return s.finishStart(ctx, drv, nil)
			}
			slog.Warn("session: resume failed, restarting driver", "error", err)
		}
	}

	s.release(ctx, drv)
	return s.launch(ctx, drv)
}

// successHandler binds the decode callback to one driver start.
func (s *Session) successHandler(gen uint64) scanner.SuccessFunc {
	return func(text string, result any) {
		s.mu.Lock()
		if gen != s.gen || s.state != StateScanning {
			s.mu.Unlock()
			return
		}
		p, ok := s.dispatchLocked(text, result)
		if !ok {
			s.mu.Unlock()
			return
		}
		drv := s.driver
		s.state = StatePaused
		s.status = StatusScanned
		s.torchOn = false
		s.result = &p
		snap := s.publishLocked()
		s.mu.Unlock()

		slog.Info("session: decoded", "format", p.FormatName, "url", p.IsURL, "result_id", p.ID)
		s.holdDriver(context.Background(), drv)
		s.presenter.Present(snap)
	}
}

// holdDriver stops or pauses drv so it cannot emit another result while the
// modal is open.
func (s *Session) holdDriver(ctx context.Context, drv scanner.Driver) {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.mu.Lock()
	if s.state != StatePaused || s.driver != drv || s.hold != holdNone {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	next := holdStopped
	if s.policy == PauseOnSuccess {
		if p, ok := drv.(scanner.Pauser); ok {
			if err := p.Pause(ctx, true); err == nil {
				next = holdPaused
			} else {
				slog.Debug("session: pause failed, stopping", "error", err)
			}
		}
	}
	if next == holdStopped {
		if err := drv.Stop(ctx); err != nil {
			slog.Debug("session: driver stop failed", "error", err)
		}
	}

	s.mu.Lock()
	if s.driver == drv {
		s.hold = next
	}
	s.mu.Unlock()
}

func (s *Session) recordFailure(error) {
	s.lastFailure.Store(int64(s.now().Sub(s.epoch)))
}

func libraryMissingMessage(err error) string {
	return "Barcode decoder did not load.\n" +
		"Check that GStreamer and its video4linux plugin are installed, or run with --demo.\n" +
		err.Error()
}

func cameraStartMessage(err error) string {
	var b strings.Builder
	b.WriteString("Camera start failed.\n")
	b.WriteString("1) Allow camera access (video group or device permissions)\n")
	b.WriteString("2) Check a camera is connected and the device path is right\n")
	b.WriteString("3) Close other programs using the camera\n")
	if errors.Is(err, scanner.ErrCameraStart) {
		b.WriteString(strings.TrimPrefix(err.Error(), scanner.ErrCameraStart.Error()+": "))
	} else {
		b.WriteString(err.Error())
	}
	return b.String()
}
