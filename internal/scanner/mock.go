package scanner

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"barcode-scanner.klederson.com/internal/config"
)

var mockPayloads = []struct {
	Text   string
	Format Format
}{
	{"https://example.com/", FormatQRCode},
	{"https://go.dev/doc/effective_go", FormatQRCode},
	{"WIFI:T:WPA;S:HomeNetwork_2G;P:correct-horse;;", FormatQRCode},
	{"9780140449136", FormatEAN13},
	{"4006381333931", FormatEAN13},
	{"96385074", FormatEAN8},
	{"036000291452", FormatUPCA},
	{"04252614", FormatUPCE},
	{"CODE39-TEST", FormatCode39},
	{"SHIP-0001-7734", FormatCode128},
	{"00012345678905", FormatITF},
	{"A40156B", FormatCodabar},
	{"@ANSI 636014040002DL00410278ZC03190008DLDAQD1234562", FormatPDF417},
	{"LOT:24A117 EXP:2027-03", FormatDataMatrix},
	{"BOARDING M1DOE/JANE", FormatAztec},
	{"(01)00012345678905", FormatRSS14},
	{"(01)98898765432106(3202)012345(15)991231", FormatRSSExpanded},
}

// mockResultShapes are the result object layouts different decoder versions
// produce.
var mockResultShapes = []func(f Format) any{
	func(f Format) any {
		return map[string]any{"result": map[string]any{"format": map[string]any{"formatName": f.String()}}}
	},
	func(f Format) any {
		return map[string]any{"result": map[string]any{"format": map[string]any{"format": f.String()}}}
	},
	func(f Format) any {
		return map[string]any{"decodedResult": map[string]any{"format": f.String()}}
	},
	func(f Format) any {
		return map[string]any{"format": map[string]any{"formatName": f.String()}}
	},
	func(f Format) any {
		return map[string]any{"formatName": f.String()}
	},
	func(f Format) any {
		return map[string]any{}
	},
}

// MockDriver emits synthetic decodes for demo mode. Most frames fail;
// occasionally a payload from the enabled formats is "seen" and repeated for
// a few frames, as a real code held in front of a camera would be.
type MockDriver struct {
	formats []Format

	mu      sync.Mutex
	running bool
	paused  bool
	torch   bool
	cancel  context.CancelFunc
	rng     *rand.Rand
}

// NewMockFactory returns a Factory producing demo drivers.
func NewMockFactory() Factory {
	return func(formats []Format) (Driver, error) {
		return NewMockDriver(formats), nil
	}
}

// NewMockDriver creates a demo driver limited to formats.
func NewMockDriver(formats []Format) *MockDriver {
	return &MockDriver{
		formats: formats,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start begins the synthetic frame loop.
func (m *MockDriver) Start(ctx context.Context, cam CameraConstraints, cfg DecoderConfig, onSuccess SuccessFunc, onFailure FailureFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("%w: mock camera already running", ErrCameraStart)
	}

	fps := cfg.FPS
	if fps <= 0 {
		fps = config.DecodeFPS
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.paused = false

	go m.loop(loopCtx, time.Second/time.Duration(fps), onSuccess, onFailure)
	return nil
}

func (m *MockDriver) loop(ctx context.Context, every time.Duration, onSuccess SuccessFunc, onFailure FailureFunc) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var (
		visible string
		result  any
		hold    int
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			paused := m.paused
			hit := m.rng.Float64() < config.DemoHitChance
			if hold == 0 && hit {
				visible, result = m.pick()
				hold = 3 + m.rng.Intn(5)
			}
			m.mu.Unlock()

			if paused {
				continue
			}
			if hold > 0 && visible != "" {
				hold--
				onSuccess(visible, result)
				continue
			}
			onFailure(ErrNoCode)
		}
	}
}

// pick returns a payload whose format is enabled. Caller holds m.mu.
func (m *MockDriver) pick() (string, any) {
	enabled := make(map[Format]bool, len(m.formats))
	for _, f := range m.formats {
		enabled[f] = true
	}
	var candidates []int
	for i, p := range mockPayloads {
		if enabled[p.Format] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}
	p := mockPayloads[candidates[m.rng.Intn(len(candidates))]]
	shape := mockResultShapes[m.rng.Intn(len(mockResultShapes))]
	return p.Text, shape(p.Format)
}

// Stop halts the frame loop.
func (m *MockDriver) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
	m.torch = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	return nil
}

// Clear is a no-op beyond Stop; the mock holds no video resources.
func (m *MockDriver) Clear(ctx context.Context) error {
	return m.Stop(ctx)
}

// Pause suppresses callbacks until Resume.
func (m *MockDriver) Pause(ctx context.Context, keepVideo bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return ErrNotRunning
	}
	m.paused = true
	return nil
}

// Resume re-enables callbacks.
func (m *MockDriver) Resume(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return ErrNotRunning
	}
	m.paused = false
	return nil
}

// ApplyVideoConstraints records the torch state.
func (m *MockDriver) ApplyVideoConstraints(ctx context.Context, vc VideoConstraints) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return ErrNotRunning
	}
	for _, c := range vc.Advanced {
		m.torch = c.Torch
	}
	return nil
}

// RunningTrackCapabilities advertises a torch inside the advanced list.
func (m *MockDriver) RunningTrackCapabilities() (Capabilities, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil, ErrNotRunning
	}
	return Capabilities{
		"width":    config.IdealWidth,
		"height":   config.IdealHeight,
		"advanced": []any{map[string]any{"torch": true}},
	}, nil
}

// TorchOn reports the last applied torch state.
func (m *MockDriver) TorchOn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.torch
}
