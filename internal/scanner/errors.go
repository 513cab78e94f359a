package scanner

import "errors"

var (
	// ErrDecoderUnavailable means the decoding backend could not be loaded.
	ErrDecoderUnavailable = errors.New("decoder backend unavailable")

	// ErrCameraStart wraps any failure to open or start the camera.
	ErrCameraStart = errors.New("camera start failed")

	// ErrTorchUnsupported is returned when the track has no torch control.
	ErrTorchUnsupported = errors.New("torch not supported")

	// ErrNotRunning is returned by operations that need a started driver.
	ErrNotRunning = errors.New("driver not running")

	// ErrNoCode is reported through FailureFunc when a frame held no code.
	ErrNoCode = errors.New("no barcode found")
)
