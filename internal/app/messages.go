package app

import (
	"time"

	"barcode-scanner.klederson.com/internal/session"
)

// TickMsg triggers a frame update for animation.
type TickMsg time.Time

// HeartbeatMsg triggers a status heartbeat.
type HeartbeatMsg time.Time

// SnapshotMsg carries a published session snapshot.
type SnapshotMsg session.Snapshot

// AlertMsg asks the shell to show a blocking message.
type AlertMsg struct {
	Message string
}

// CopiedMsg reports a successful clipboard write.
type CopiedMsg struct{}

// CopyResetMsg restores the copy button label. Stale tokens are ignored.
type CopyResetMsg struct {
	Token int
}
