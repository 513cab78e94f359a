package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"barcode-scanner.klederson.com/internal/scanner"
)

// fakeDriver is a scripted scanner.Driver. It counts calls and flags any
// Start issued while a previous start has not been both stopped and cleared.
type fakeDriver struct {
	mu sync.Mutex

	startErr error
	stopErr  error
	clearErr error
	applyErr error
	caps     scanner.Capabilities
	capsErr  error

	// When set, Start signals entered and blocks until release is closed.
	entered chan struct{}
	release chan struct{}

	starts, stops, clears int
	open                  bool
	stopped, cleared      bool
	overlapping           int
	applied               []scanner.VideoConstraints

	onSuccess scanner.SuccessFunc
	onFailure scanner.FailureFunc
}

func (f *fakeDriver) Start(ctx context.Context, cam scanner.CameraConstraints, cfg scanner.DecoderConfig, onSuccess scanner.SuccessFunc, onFailure scanner.FailureFunc) error {
	f.mu.Lock()
	entered, release := f.entered, f.release
	f.mu.Unlock()
	if entered != nil {
		close(entered)
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.open {
		f.overlapping++
	}
	f.open = true
	f.stopped, f.cleared = false, false
	f.onSuccess = onSuccess
	f.onFailure = onFailure
	return f.startErr
}

func (f *fakeDriver) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.stopped = true
	f.settle()
	return f.stopErr
}

func (f *fakeDriver) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.cleared = true
	f.settle()
	return f.clearErr
}

func (f *fakeDriver) settle() {
	if f.stopped && f.cleared {
		f.open = false
	}
}

func (f *fakeDriver) ApplyVideoConstraints(ctx context.Context, vc scanner.VideoConstraints) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, vc)
	return f.applyErr
}

func (f *fakeDriver) RunningTrackCapabilities() (scanner.Capabilities, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.caps, f.capsErr
}

// emit delivers a decode through the callback of the latest start.
func (f *fakeDriver) emit(text string, result any) {
	f.mu.Lock()
	cb := f.onSuccess
	f.mu.Unlock()
	cb(text, result)
}

func (f *fakeDriver) fail() {
	f.mu.Lock()
	cb := f.onFailure
	f.mu.Unlock()
	cb(scanner.ErrNoCode)
}

func (f *fakeDriver) counts() (starts, stops, clears int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops, f.clears
}

func (f *fakeDriver) isOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// pausingDriver adds Pauser support.
type pausingDriver struct {
	*fakeDriver
	pauses, resumes int
	resumeErr       error
}

func (p *pausingDriver) Pause(ctx context.Context, keepVideo bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses++
	return nil
}

func (p *pausingDriver) Resume(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resumes++
	return p.resumeErr
}

// recorder is a Presenter that keeps everything it receives.
type recorder struct {
	mu     sync.Mutex
	snaps  []Snapshot
	alerts []string
}

func (r *recorder) Present(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) Alert(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, msg)
}

func (r *recorder) ordered() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]Snapshot(nil), r.snaps...)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

func (r *recorder) last() Snapshot {
	snaps := r.ordered()
	if len(snaps) == 0 {
		return Snapshot{}
	}
	return snaps[len(snaps)-1]
}

// presentations returns each distinct result shown, in order.
func (r *recorder) presentations() []Presentation {
	var out []Presentation
	seen := map[string]bool{}
	for _, s := range r.ordered() {
		if s.Result != nil && !seen[s.Result.ID] {
			seen[s.Result.ID] = true
			out = append(out, *s.Result)
		}
	}
	return out
}

func (r *recorder) alertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type harness struct {
	t       *testing.T
	session *Session
	driver  scanner.Driver
	fake    *fakeDriver
	rec     *recorder
	clock   *fakeClock
	built   atomic.Int32

	// Called with the build number on every factory call, if set.
	onBuild func(n int32)
}

func newHarness(t *testing.T, drv scanner.Driver, fake *fakeDriver, policy SuccessPolicy) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		driver: drv,
		fake:   fake,
		rec:    &recorder{},
		clock:  &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	factory := func(formats []scanner.Format) (scanner.Driver, error) {
		n := h.built.Add(1)
		if h.onBuild != nil {
			h.onBuild(n)
		}
		return h.driver, nil
	}
	h.session = New(factory, h.rec, policy)
	h.session.now = h.clock.Now
	h.session.epoch = h.clock.Now()
	return h
}

func newStopHarness(t *testing.T) *harness {
	fake := &fakeDriver{}
	return newHarness(t, fake, fake, StopOnSuccess)
}

func (h *harness) start() {
	h.t.Helper()
	if err := h.session.Start(context.Background()); err != nil {
		h.t.Fatalf("Start() failed: %v", err)
	}
	if got := h.session.State(); got != StateScanning {
		h.t.Fatalf("state after Start = %v, want Scanning", got)
	}
}

// checkModalInvariant asserts that every published snapshot shows a result
// exactly when the session is Paused.
func (h *harness) checkModalInvariant() {
	h.t.Helper()
	for _, s := range h.rec.ordered() {
		if (s.Result != nil) != (s.State == StatePaused) {
			h.t.Errorf("snapshot %d: state=%v modal=%v", s.Seq, s.State, s.Result != nil)
		}
	}
}

var errBoom = errors.New("boom")

func qrResult(name string) map[string]any {
	return map[string]any{"result": map[string]any{"format": map[string]any{"formatName": name}}}
}
