package scanner

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

// pipelineConfig describes the camera capture pipeline.
type pipelineConfig struct {
	Device string
	Width  int
	Height int
	FPS    int
}

// pipelineElements holds the elements needed for state changes and cleanup.
type pipelineElements struct {
	Pipeline *gst.Pipeline
	AppSink  *app.Sink
}

// createPipeline builds, but does not start, the capture pipeline:
//
//	v4l2src → videoconvert → videoscale → videorate → capsfilter → appsink
//
// The caps lock frames to RGBA at the requested size and rate so the decode
// loop can wrap buffers directly as image.RGBA.
func createPipeline(cfg pipelineConfig) (*pipelineElements, error) {
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return nil, fmt.Errorf("failed to create v4l2src: %w", err)
	}
	src.SetProperty("device", cfg.Device)

	converter, err := gst.NewElement("videoconvert")
	if err != nil {
		return nil, fmt.Errorf("failed to create videoconvert: %w", err)
	}
	scaler, err := gst.NewElement("videoscale")
	if err != nil {
		return nil, fmt.Errorf("failed to create videoscale: %w", err)
	}
	rate, err := gst.NewElement("videorate")
	if err != nil {
		return nil, fmt.Errorf("failed to create videorate: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("failed to create capsfilter: %w", err)
	}
	capsStr := fmt.Sprintf("video/x-raw,format=RGBA,width=%d,height=%d,framerate=%d/1",
		cfg.Width, cfg.Height, cfg.FPS)
	capsfilter.SetProperty("caps", gst.NewCapsFromString(capsStr))

	appsink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("failed to create appsink: %w", err)
	}
	appsink.SetProperty("sync", false)
	appsink.SetProperty("max-buffers", 1) // Keep only latest frame
	appsink.SetProperty("drop", true)

	pipeline.AddMany(src, converter, scaler, rate, capsfilter, appsink.Element)
	if err := linkPipeline(pipeline, src, converter, scaler, rate, capsfilter, appsink.Element); err != nil {
		return nil, err
	}

	slog.Debug("camera: pipeline created", "device", cfg.Device, "caps", capsStr)
	return &pipelineElements{Pipeline: pipeline, AppSink: appsink}, nil
}

// linkPipeline links elems in order. On failure the half-built pipeline is
// set to NULL.
func linkPipeline(pipeline *gst.Pipeline, elems ...*gst.Element) error {
	if err := gst.ElementLinkMany(elems...); err != nil {
		if derr := destroyPipeline(&pipelineElements{Pipeline: pipeline}); derr != nil {
			slog.Warn("camera: teardown after link failure", "error", derr)
		}
		return fmt.Errorf("failed to link camera pipeline: %w", err)
	}
	return nil
}

// waitPlaying polls the bus until the pipeline reports PLAYING, an error,
// or the timeout expires.
func waitPlaying(pipeline *gst.Pipeline, timeout time.Duration) error {
	bus := pipeline.GetPipelineBus()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}
		switch msg.Type() {
		case gst.MessageError:
			gerr := msg.ParseError()
			return fmt.Errorf("pipeline error: %s", gerr.Error())
		case gst.MessageEOS:
			return fmt.Errorf("end of stream before playing")
		case gst.MessageStateChanged:
			if msg.Source() != pipeline.GetName() {
				continue
			}
			_, newState := msg.ParseStateChanged()
			if newState == gst.StatePlaying {
				return nil
			}
		}
	}
	return fmt.Errorf("pipeline did not reach PLAYING within %s", timeout)
}

func destroyPipeline(elements *pipelineElements) error {
	if elements == nil || elements.Pipeline == nil {
		return nil
	}
	if err := elements.Pipeline.SetState(gst.StateNull); err != nil {
		return fmt.Errorf("failed to set pipeline to NULL: %w", err)
	}
	return nil
}

// checkCaptureAvailable verifies GStreamer and the V4L2 source plugin load.
func checkCaptureAvailable() error {
	gst.Init(nil)

	for _, name := range []string{"v4l2src", "videoconvert", "appsink"} {
		elem, err := gst.NewElement(name)
		if err != nil {
			return fmt.Errorf("GStreamer element %q not available: %w", name, err)
		}
		elem.SetState(gst.StateNull)
	}
	return nil
}
