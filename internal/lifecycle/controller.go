package lifecycle

import (
	"log/slog"
	"sync"
)

// Window is the handle to the application's main window
type Window interface {
	Show() error
	Hide() error
	SetFocus() error
}

// Exiter terminates the process
type Exiter interface {
	Exit(code int)
}

// ExitFunc adapts a function to Exiter
type ExitFunc func(code int)

func (f ExitFunc) Exit(code int) { f(code) }

// Outcome is what the windowing system needs back from an event
type Outcome struct {
	State        State `json:"-"`
	PreventClose bool  `json:"prevent_close"`
}

// Controller reacts to window and tray events
type Controller interface {
	Handle(event Event) Outcome
	State() State
	Menu() Menu
	// InterceptsClose reports whether the close action is turned into a hide
	InterceptsClose() bool
}

// HasTray reports whether platform has a tray/menu-bar concept
func HasTray(platform string) bool {
	switch platform {
	case "darwin", "windows", "linux", "freebsd", "openbsd", "netbsd":
		return true
	default:
		return false
	}
}

// New returns the desktop controller on platforms with a tray and the inert
// controller elsewhere.
func New(platform string, window Window, exiter Exiter, logger *slog.Logger) Controller {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "lifecycle")

	if !HasTray(platform) {
		logger.Debug("no tray on platform, lifecycle controller is inert", "platform", platform)
		return inert{}
	}
	return &Desktop{
		state:  StateVisible,
		window: window,
		exiter: exiter,
		menu:   TrayMenu(),
		logger: logger,
	}
}

// Desktop hides the window on close and exposes show/quit through the tray.
// Events are serialised; effects run synchronously and never block.
type Desktop struct {
	mu     sync.Mutex
	state  State
	window Window
	exiter Exiter
	menu   Menu
	logger *slog.Logger
}

func (d *Desktop) Handle(event Event) Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := Decide(d.state, event)
	d.state = t.To
	for _, effect := range t.Effects {
		d.run(effect)
	}

	if t.From != t.To {
		d.logger.Debug("window state changed", "event", string(event), "from", t.From.String(), "to", t.To.String())
	}
	return Outcome{State: t.To, PreventClose: t.PreventClose}
}

// run executes one effect. Window failures are logged and otherwise ignored:
// there is no recovery for a window that refuses to move.
func (d *Desktop) run(effect Effect) {
	var err error
	switch effect {
	case EffectShow:
		err = d.window.Show()
	case EffectFocus:
		err = d.window.SetFocus()
	case EffectHide:
		err = d.window.Hide()
	case EffectExit:
		d.exiter.Exit(0)
	}
	if err != nil {
		d.logger.Warn("window operation failed", "effect", effect.String(), "error", err)
	}
}

func (d *Desktop) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Desktop) Menu() Menu { return d.menu }

func (d *Desktop) InterceptsClose() bool { return true }

// inert is used where there is no tray: nothing is intercepted and closing
// the window ends the application the ordinary way.
type inert struct{}

func (inert) Handle(Event) Outcome  { return Outcome{State: StateVisible} }
func (inert) State() State          { return StateVisible }
func (inert) Menu() Menu            { return Menu{} }
func (inert) InterceptsClose() bool { return false }
