package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"barcode-scanner.klederson.com/internal/config"
	"barcode-scanner.klederson.com/internal/desktop"
	"barcode-scanner.klederson.com/internal/scanner"
	"barcode-scanner.klederson.com/internal/session"
	"barcode-scanner.klederson.com/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	labelCopy   = "Copy"
	labelCopied = "Copied"

	msgStopped    = "Scanner stopped."
	msgCopyFailed = "Copy failed (clipboard permission)."
)

// Options configures the shell.
type Options struct {
	Source     string // Shown in the menu bar
	Policy     session.SuccessPolicy
	TapToStart bool // Show the start overlay instead of starting on launch
	Beep       bool // Ring the terminal bell on each new result
	Clipboard  desktop.Clipboard
	Opener     desktop.URLOpener
}

// shared holds state shared between the Bubble Tea model copies and main.go.
type shared struct {
	session   *session.Session
	presenter *ProgramPresenter
	scanLine  *ui.ScanLine
	clipboard desktop.Clipboard
	opener    desktop.URLOpener
}

// AppModel is the root Bubble Tea model. It maps key presses to session
// commands and renders the latest session snapshot.
type AppModel struct {
	width  int
	height int

	source    string
	beep      bool
	gated     bool // start overlay visible
	snap      session.Snapshot
	alerts    []string
	copyLabel string
	copyToken int

	shared *shared
}

// New creates the shell and its scan session.
func New(factory scanner.Factory, opts Options) AppModel {
	presenter := &ProgramPresenter{}
	sess := session.New(factory, presenter, opts.Policy)

	clip := opts.Clipboard
	if clip == nil {
		clip = desktop.System{}
	}
	opener := opts.Opener
	if opener == nil {
		opener = desktop.System{}
	}

	return AppModel{
		source:    opts.Source,
		beep:      opts.Beep,
		gated:     opts.TapToStart,
		snap:      sess.Snapshot(),
		copyLabel: labelCopy,
		shared: &shared{
			session:   sess,
			presenter: presenter,
			scanLine:  ui.NewScanLine(),
			clipboard: clip,
			opener:    opener,
		},
	}
}

// Attach routes session output to p. Must be called before p.Run().
func (m *AppModel) Attach(p *tea.Program) {
	m.shared.presenter.Attach(p)
}

// Session exposes the scan session.
func (m AppModel) Session() *session.Session {
	return m.shared.session
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), heartbeatCmd()}
	if !m.gated {
		cmds = append(cmds, m.startCmd())
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.shared.scanLine.Update()
		return m, tickCmd()

	case HeartbeatMsg:
		return m, tea.Batch(heartbeatCmd(), m.beatCmd())

	case SnapshotMsg:
		snap := session.Snapshot(msg)
		if snap.Seq <= m.snap.Seq {
			return m, nil
		}
		var cmd tea.Cmd
		if snap.Result != nil && (m.snap.Result == nil || m.snap.Result.ID != snap.Result.ID) {
			m.copyLabel = labelCopy
			m.copyToken++
			if m.beep {
				cmd = bellCmd
			}
		}
		m.snap = snap
		return m, cmd

	case AlertMsg:
		m.alerts = append(m.alerts, msg.Message)
		return m, nil

	case CopiedMsg:
		m.copyLabel = labelCopied
		m.copyToken++
		token := m.copyToken
		return m, tea.Tick(config.CopiedLabelFor, func(time.Time) tea.Msg {
			return CopyResetMsg{Token: token}
		})

	case CopyResetMsg:
		if msg.Token == m.copyToken {
			m.copyLabel = labelCopy
		}
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" || key == "Q" {
		return m, tea.Sequence(m.closeCmd(false), tea.Quit)
	}

	if len(m.alerts) > 0 {
		switch key {
		case "enter", "esc", " ":
			m.alerts = m.alerts[1:]
		}
		return m, nil
	}

	if m.gated {
		switch key {
		case "enter", "s", "S":
			m.gated = false
			return m, m.startCmd()
		case "h", "H", "?":
			m.alerts = append(m.alerts, ui.HelpText())
		}
		return m, nil
	}

	if res := m.snap.Result; res != nil {
		switch key {
		case "esc", "a", "A", "enter":
			return m, m.scanAgainCmd()
		case "c", "C":
			return m, m.copyCmd(res.Text)
		case "o", "O":
			if res.IsURL {
				return m, m.openCmd(res.Text)
			}
		case "x", "X":
			return m, m.closeCmd(true)
		}
		return m, nil
	}

	switch key {
	case "s", "S":
		return m, m.startCmd()
	case "x", "X":
		return m, m.closeCmd(true)
	case "t", "T":
		if m.snap.TorchVisible {
			return m, m.torchCmd()
		}
	case "h", "H", "?":
		m.alerts = append(m.alerts, ui.HelpText())
	}
	return m, nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing barcode scanner..."
	}

	menuBar := ui.RenderMenuBar(m.width, m.source, m.snap.TorchVisible)
	statusBar := ui.RenderStatusBar(m.width, m.snap)

	bodyH := m.height - 2
	if bodyH < 5 {
		bodyH = 5
	}

	var body string
	switch {
	case len(m.alerts) > 0:
		body = ui.Center(m.width, bodyH, ui.RenderAlert(m.alerts[0], min(m.width, 72)))
	case m.gated:
		body = ui.Center(m.width, bodyH, ui.RenderStartOverlay())
	case m.snap.Result != nil:
		body = ui.Center(m.width, bodyH, ui.RenderResultModal(*m.snap.Result, min(m.width, 72), m.copyLabel))
	default:
		innerW := m.width - 2
		innerH := bodyH - 2
		finder := ui.RenderViewfinder(innerW, innerH, m.shared.scanLine,
			m.snap.State == session.StateScanning, caption(m.snap.State))
		body = ui.StylePanelBorder.Width(innerW).Height(innerH).Render(finder)
	}

	return ui.ComposeLayout(menuBar, body, statusBar)
}

func caption(state session.State) string {
	switch state {
	case session.StateIdle:
		return "Camera off. Press S to start"
	case session.StateStarting:
		return session.StatusStarting
	case session.StateStopping:
		return "Stopping..."
	case session.StateError:
		return "Camera error. Press S to retry"
	}
	return ""
}

func (m AppModel) startCmd() tea.Cmd {
	sess := m.shared.session
	return func() tea.Msg {
		if err := sess.Start(context.Background()); err != nil {
			slog.Debug("app: start failed", "error", err)
		}
		return nil
	}
}

// closeCmd stops the session; notify adds the "Scanner stopped." alert.
func (m AppModel) closeCmd(notify bool) tea.Cmd {
	sess := m.shared.session
	return func() tea.Msg {
		_ = sess.Close(context.Background())
		if notify {
			return AlertMsg{Message: msgStopped}
		}
		return nil
	}
}

func (m AppModel) scanAgainCmd() tea.Cmd {
	sess := m.shared.session
	return func() tea.Msg {
		if err := sess.ScanAgain(context.Background()); err != nil {
			slog.Debug("app: scan again failed", "error", err)
		}
		return nil
	}
}

func (m AppModel) torchCmd() tea.Cmd {
	sess := m.shared.session
	return func() tea.Msg {
		_ = sess.ToggleTorch(context.Background())
		return nil
	}
}

func (m AppModel) beatCmd() tea.Cmd {
	sess := m.shared.session
	return func() tea.Msg {
		sess.Heartbeat()
		return nil
	}
}

func (m AppModel) copyCmd(text string) tea.Cmd {
	clip := m.shared.clipboard
	return func() tea.Msg {
		if err := clip.WriteText(text); err != nil {
			slog.Warn("app: copy failed", "error", err)
			return AlertMsg{Message: msgCopyFailed}
		}
		return CopiedMsg{}
	}
}

func (m AppModel) openCmd(text string) tea.Cmd {
	opener := m.shared.opener
	return func() tea.Msg {
		if !session.IsURL(text) {
			return nil
		}
		if err := opener.Open(text); err != nil {
			slog.Warn("app: open failed", "url", text, "error", err)
		}
		return nil
	}
}

func bellCmd() tea.Msg {
	fmt.Fprint(os.Stderr, "\a")
	return nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func heartbeatCmd() tea.Cmd {
	return tea.Tick(config.HeartbeatInterval, func(t time.Time) tea.Msg {
		return HeartbeatMsg(t)
	})
}
