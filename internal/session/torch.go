package session

import (
	"context"
	"log/slog"

	"barcode-scanner.klederson.com/internal/scanner"
)

// probeTorch hides the torch control when the running track does not
// advertise one. Drivers without a capability probe keep the control; a
// failed toggle hides it later. Caller holds ops.
func (s *Session) probeTorch(drv scanner.Driver) {
	prober, ok := drv.(scanner.CapabilityProber)
	if !ok {
		return
	}
	caps, err := prober.RunningTrackCapabilities()
	supported := err == nil && caps.HasTorch()

	s.mu.Lock()
	if s.state != StateScanning || s.driver != drv {
		s.mu.Unlock()
		return
	}
	visible := supported && !s.torchBroken
	if visible == s.torchVisible {
		s.mu.Unlock()
		return
	}
	s.torchVisible = visible
	snap := s.publishLocked()
	s.mu.Unlock()

	slog.Debug("session: torch probe", "supported", supported)
	s.presenter.Present(snap)
}

// ToggleTorch inverts the torch while scanning. If the driver rejects the
// constraint the control is hidden for the rest of the session and the torch
// is considered off.
func (s *Session) ToggleTorch(ctx context.Context) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.mu.Lock()
	if s.state != StateScanning || !s.torchVisible {
		s.mu.Unlock()
		return nil
	}
	drv := s.driver
	s.torchOn = !s.torchOn
	want := s.torchOn
	snap := s.publishLocked()
	s.mu.Unlock()
	s.presenter.Present(snap)

	err := drv.ApplyVideoConstraints(ctx, scanner.VideoConstraints{
		Advanced: []scanner.TrackConstraint{{Torch: want}},
	})
	if err == nil {
		return nil
	}

	slog.Info("session: torch unavailable", "error", err)
	s.mu.Lock()
	s.torchOn = false
	s.torchVisible = false
	s.torchBroken = true
	snap = s.publishLocked()
	s.mu.Unlock()
	s.presenter.Present(snap)
	return nil
}
