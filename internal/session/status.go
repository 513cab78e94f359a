package session

import (
	"time"

	"barcode-scanner.klederson.com/internal/config"
)

// Heartbeat refreshes the status label while scanning. It is meant to be
// called every config.HeartbeatInterval and does nothing in other states.
func (s *Session) Heartbeat() {
	s.mu.Lock()
	if s.state != StateScanning {
		s.mu.Unlock()
		return
	}
	label := StatusLabel(s.sinceLastFailure())
	if label == s.status {
		s.mu.Unlock()
		return
	}
	s.status = label
	snap := s.publishLocked()
	s.mu.Unlock()
	s.presenter.Present(snap)
}

func (s *Session) sinceLastFailure() time.Duration {
	last := time.Duration(s.lastFailure.Load())
	return s.now().Sub(s.epoch) - last
}

// StatusLabel maps the time since the last decode attempt to a scanning
// status. A long silence means frames are not reaching the decoder.
func StatusLabel(sinceFailure time.Duration) string {
	if sinceFailure > config.IdleHintAfter {
		return StatusPointCamera
	}
	return StatusScanning
}
