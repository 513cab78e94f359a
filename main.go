package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"barcode-scanner.klederson.com/internal/app"
	"barcode-scanner.klederson.com/internal/config"
	"barcode-scanner.klederson.com/internal/scanner"
	"barcode-scanner.klederson.com/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flagDemo           bool
	flagDevice         string
	flagTapToStart     bool
	flagPauseOnSuccess bool
	flagBeep           bool
	flagLogFile        string
	flagDebug          bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "barcode-scanner",
		Short: "Terminal barcode and QR code scanner",
		Long: `barcode-scanner opens a camera, decodes barcodes and QR codes from the video
stream and shows each result with copy and open actions.

Supported: QR, Aztec, Data Matrix, PDF417, Code 39/93/128, ITF, Codabar,
EAN-13/8, UPC-A/E and GS1 DataBar. MS1 Plessey is not supported.

Camera capture needs GStreamer with the video4linux plugin and read access
to the video device. Use --demo to run without a camera.`,
		RunE: run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run in demo mode with synthetic scans (no camera required)")
	rootCmd.Flags().StringVar(&flagDevice, "device", config.CameraDevice, "V4L2 camera device")
	rootCmd.Flags().BoolVar(&flagTapToStart, "tap-to-start", false, "Wait for ENTER before opening the camera")
	rootCmd.Flags().BoolVar(&flagPauseOnSuccess, "pause-on-success", false, "Pause instead of stopping the camera while a result is shown")
	rootCmd.Flags().BoolVar(&flagBeep, "beep", false, "Ring the terminal bell on each scan")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(flagLogFile, flagDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	factory := scanner.NewCameraFactory(flagDevice)
	source := flagDevice
	if flagDemo {
		factory = scanner.NewMockFactory()
		source = "demo"
	}

	policy := session.StopOnSuccess
	if flagPauseOnSuccess {
		policy = session.PauseOnSuccess
	}

	model := app.New(factory, app.Options{
		Source:     source,
		Policy:     policy,
		TapToStart: flagTapToStart,
		Beep:       flagBeep,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)
	model.Attach(p)

	slog.Info("starting", "source", source, "policy", policy)
	_, err = p.Run()
	return err
}

// setupLogging installs the default slog logger. The terminal belongs to the
// UI, so logs go to a file or nowhere.
func setupLogging(path string, debug bool) (func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closeFn, nil
}
