package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

const playingTimeout = 5 * time.Second

type frame struct {
	data    []byte
	traceID string
}

// CameraDriver captures a V4L2 camera through GStreamer and decodes frames
// with gozxing.
type CameraDriver struct {
	device  string
	formats []Format

	mu       sync.Mutex
	elements *pipelineElements
	cancel   context.CancelFunc
	running  bool
	width    int
	height   int
	fps      int

	paused  atomic.Bool
	dropped atomic.Uint64
}

// NewCameraFactory returns a Factory producing camera drivers for device.
// It fails with ErrDecoderUnavailable when GStreamer cannot be loaded.
func NewCameraFactory(device string) Factory {
	return func(formats []Format) (Driver, error) {
		if err := checkCaptureAvailable(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecoderUnavailable, err)
		}
		return &CameraDriver{device: device, formats: formats}, nil
	}
}

// Start opens the camera and begins decoding. The facing mode is advisory:
// a V4L2 device has one fixed orientation.
func (c *CameraDriver) Start(ctx context.Context, cam CameraConstraints, cfg DecoderConfig, onSuccess SuccessFunc, onFailure FailureFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return fmt.Errorf("%w: camera already running", ErrCameraStart)
	}

	fps := cfg.FPS
	if fps <= 0 {
		fps = 1
	}
	elements, err := createPipeline(pipelineConfig{
		Device: c.device,
		Width:  cam.IdealWidth,
		Height: cam.IdealHeight,
		FPS:    fps,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCameraStart, err)
	}

	decoder := NewFrameDecoder(c.formats, cfg)
	frames := make(chan frame, 1)

	elements.AppSink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(sink *app.Sink) gst.FlowReturn {
			return c.onNewSample(sink, frames)
		},
	})

	if err := elements.Pipeline.SetState(gst.StatePlaying); err != nil {
		_ = destroyPipeline(elements)
		return fmt.Errorf("%w: %v", ErrCameraStart, err)
	}
	if err := waitPlaying(elements.Pipeline, playingTimeout); err != nil {
		_ = destroyPipeline(elements)
		return fmt.Errorf("%w: %v", ErrCameraStart, err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	c.elements = elements
	c.cancel = cancel
	c.running = true
	c.width = cam.IdealWidth
	c.height = cam.IdealHeight
	c.fps = fps
	c.paused.Store(false)

	go c.decodeLoop(loopCtx, frames, decoder, onSuccess, onFailure)

	slog.Info("camera: started",
		"device", c.device,
		"width", c.width,
		"height", c.height,
		"fps", fps,
		"formats", len(decoder.Formats()),
	)
	return nil
}

func (c *CameraDriver) onNewSample(sink *app.Sink, frames chan<- frame) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		return gst.FlowOK
	}
	// GStreamer reuses the buffer
	copied := make([]byte, len(data))
	copy(copied, data)
	buffer.Unmap()

	select {
	case frames <- frame{data: copied, traceID: uuid.New().String()}:
	default:
		c.dropped.Add(1)
	}
	return gst.FlowOK
}

func (c *CameraDriver) decodeLoop(ctx context.Context, frames <-chan frame, decoder *FrameDecoder, onSuccess SuccessFunc, onFailure FailureFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-frames:
			if c.paused.Load() {
				continue
			}
			c.mu.Lock()
			w, h := c.width, c.height
			c.mu.Unlock()

			img, err := RGBAFrame(f.data, w, h)
			if err != nil {
				onFailure(err)
				continue
			}
			res, err := decoder.Decode(img)
			if err != nil {
				onFailure(err)
				continue
			}
			if ctx.Err() != nil {
				return
			}
			slog.Debug("camera: decoded", "format", res.Format.String(), "trace_id", f.traceID)
			onSuccess(res.Text, res.ResultObject())
		}
	}
}

// Stop halts capture. It returns without waiting for the decode goroutine.
func (c *CameraDriver) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}
	c.running = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	slog.Debug("camera: stopped", "dropped_frames", c.dropped.Load())
	return destroyPipeline(c.elements)
}

// Clear releases the pipeline. It stops capture first if needed.
func (c *CameraDriver) Clear(ctx context.Context) error {
	err := c.Stop(ctx)

	c.mu.Lock()
	c.elements = nil
	c.mu.Unlock()
	return err
}

// Pause moves the pipeline to PAUSED, keeping the device open. There is no
// preview surface, so keepVideo has no visible effect.
func (c *CameraDriver) Pause(ctx context.Context, keepVideo bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return ErrNotRunning
	}
	c.paused.Store(true)
	if err := c.elements.Pipeline.SetState(gst.StatePaused); err != nil {
		return fmt.Errorf("pause pipeline: %w", err)
	}
	return nil
}

// Resume returns a paused pipeline to PLAYING.
func (c *CameraDriver) Resume(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return ErrNotRunning
	}
	if err := c.elements.Pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("resume pipeline: %w", err)
	}
	c.paused.Store(false)
	return nil
}

// ApplyVideoConstraints rejects torch requests; V4L2 exposes no portable
// torch control.
func (c *CameraDriver) ApplyVideoConstraints(ctx context.Context, vc VideoConstraints) error {
	if len(vc.Advanced) > 0 {
		return ErrTorchUnsupported
	}
	return nil
}

// RunningTrackCapabilities describes the negotiated track. It never
// advertises a torch.
func (c *CameraDriver) RunningTrackCapabilities() (Capabilities, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrNotRunning
	}
	return Capabilities{
		"deviceId":  c.device,
		"width":     c.width,
		"height":    c.height,
		"frameRate": c.fps,
	}, nil
}
