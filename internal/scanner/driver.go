package scanner

import (
	"context"

	"barcode-scanner.klederson.com/internal/config"
)

// SuccessFunc receives a decoded payload and the driver's raw result object.
// It may fire many times per second and from any goroutine.
type SuccessFunc func(text string, result any)

// FailureFunc is called for every frame in which nothing was decoded.
// Implementations must keep it cheap.
type FailureFunc func(err error)

// Driver is the contract the scan session consumes from a camera + decoder
// backend.
//
// Stop and Clear are idempotent. Stop must not wait for an in-flight
// SuccessFunc to return: the session calls Stop from inside that callback.
type Driver interface {
	Start(ctx context.Context, cam CameraConstraints, cfg DecoderConfig, onSuccess SuccessFunc, onFailure FailureFunc) error
	Stop(ctx context.Context) error
	Clear(ctx context.Context) error
	ApplyVideoConstraints(ctx context.Context, vc VideoConstraints) error
}

// Pauser is implemented by drivers that can suspend decoding without
// releasing the camera.
type Pauser interface {
	Pause(ctx context.Context, keepVideo bool) error
	Resume(ctx context.Context) error
}

// CapabilityProber is implemented by drivers that can describe the running
// video track.
type CapabilityProber interface {
	RunningTrackCapabilities() (Capabilities, error)
}

// Factory constructs a driver restricted to the given symbologies.
// A factory returns an error wrapping ErrDecoderUnavailable when the decoding
// backend is not present at all.
type Factory func(formats []Format) (Driver, error)

// CameraConstraints describes the requested video track.
type CameraConstraints struct {
	FacingMode  string
	IdealWidth  int
	IdealHeight int
}

// DecoderConfig tunes the decode loop.
type DecoderConfig struct {
	FPS                int
	DisableFlip        bool
	ScanRegion         func(viewWidth, viewHeight int) Region
	UseBarcodeDetector bool
}

// TrackConstraint is one entry of the advanced constraint list.
type TrackConstraint struct {
	Torch bool
}

// VideoConstraints mirrors the { advanced: [...] } constraint shape.
type VideoConstraints struct {
	Advanced []TrackConstraint
}

// Capabilities is an open descriptor of the running track. Keys are
// capability names; the "advanced" key may hold a list of further
// descriptors.
type Capabilities map[string]any

// HasTorch reports whether a torch capability is advertised at the top level
// or within any advanced entry.
func (c Capabilities) HasTorch() bool {
	if c == nil {
		return false
	}
	if _, ok := c["torch"]; ok {
		return true
	}
	adv, ok := c["advanced"]
	if !ok {
		return false
	}
	switch entries := adv.(type) {
	case []Capabilities:
		for _, e := range entries {
			if e.HasTorch() {
				return true
			}
		}
	case []map[string]any:
		for _, e := range entries {
			if Capabilities(e).HasTorch() {
				return true
			}
		}
	case []any:
		for _, e := range entries {
			switch m := e.(type) {
			case map[string]any:
				if Capabilities(m).HasTorch() {
					return true
				}
			case Capabilities:
				if m.HasTorch() {
					return true
				}
			}
		}
	}
	return false
}

// DefaultCameraConstraints returns the rear-camera, 1080p request.
func DefaultCameraConstraints() CameraConstraints {
	return CameraConstraints{
		FacingMode:  config.FacingMode,
		IdealWidth:  config.IdealWidth,
		IdealHeight: config.IdealHeight,
	}
}

// DefaultDecoderConfig returns the decoder settings used for every session.
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		FPS:                config.DecodeFPS,
		DisableFlip:        config.DisableFlip,
		ScanRegion:         ScanRegion,
		UseBarcodeDetector: config.UseBarcodeDetector,
	}
}
