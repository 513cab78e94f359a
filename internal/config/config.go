package config

import "time"

const (
	// Camera request
	FacingMode   = "environment" // Prefer the rear camera
	IdealWidth   = 1920          // PDF417 needs pixels
	IdealHeight  = 1080
	CameraDevice = "/dev/video0" // Default V4L2 device

	// Decoder
	DecodeFPS          = 20   // Frames handed to the decoder per second
	DisableFlip        = false
	ScanRegionFraction = 0.98  // Share of the visible frame used as scan region
	UseBarcodeDetector = false // Native detector path stays off for stacked symbologies

	// Status heartbeat
	HeartbeatInterval = 700 * time.Millisecond
	IdleHintAfter     = 1400 * time.Millisecond // No decode attempt for this long => hint

	// Shell
	CopiedLabelFor = 900 * time.Millisecond
	TargetFPS      = 30 // Viewfinder animation frames per second
	ScanLineRPM    = 40 // Viewfinder scan line passes per minute

	// Demo mode
	DemoHitChance = 0.02 // Chance per frame that a code is "visible"

	// App
	AppName    = "BARCODE-SCANNER"
	AppVersion = "1.0"
)
