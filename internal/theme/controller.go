package theme

import (
	"log/slog"
	"sync"
)

// Toggle control labels. The label always names the action, not the state.
const (
	LabelSwitchToDark  = "Switch to dark theme"
	LabelSwitchToLight = "Switch to light theme"
)

// PreferenceStore persists the user's explicit theme choice. Absence is
// meaningful and distinct from either value: it means the user has never
// chosen, and the system scheme decides.
type PreferenceStore interface {
	// Load returns the stored mode and whether an explicit choice exists.
	// An error means the store is unreachable; callers degrade to the
	// system scheme.
	Load() (Mode, bool, error)

	// Save records an explicit choice. Persistence is best effort: a
	// failed save must not prevent the current session from updating.
	Save(Mode) error
}

// SystemScheme reports the OS/desktop-level color scheme preference.
type SystemScheme interface {
	PrefersDark() bool
}

// Document is the marker surface stylesheets key off of. SetDark(true)
// sets the marker, SetDark(false) removes it; the removed state is the
// canonical light representation.
type Document interface {
	SetDark(bool)
	Dark() bool
}

// ToggleControl is the optional UI element mirroring the effective theme.
// Pages (and commands) without one simply never attach it.
type ToggleControl interface {
	SetPressed(bool)
	SetLabel(string)
}

// Controller resolves the effective theme from the persisted preference and
// the system scheme, applies it to the document, and keeps the toggle
// control in sync. All operations are infallible from the caller's point of
// view: storage trouble degrades, it never propagates.
type Controller struct {
	mu      sync.Mutex
	store   PreferenceStore
	scheme  SystemScheme
	doc     Document
	control ToggleControl
	logger  *slog.Logger
}

// NewController creates a controller. The toggle control is attached later,
// if at all, via AttachControl.
func NewController(store PreferenceStore, scheme SystemScheme, doc Document, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:  store,
		scheme: scheme,
		doc:    doc,
		logger: logger,
	}
}

// Resolve computes the effective theme from current inputs. The stored
// value wins verbatim when present; store errors and unrecognized values
// fall through to the system scheme. No side effects.
func (c *Controller) Resolve() Mode {
	if c.store != nil {
		mode, ok, err := c.store.Load()
		if err != nil {
			c.logger.Debug("preference store unavailable, using system scheme", "error", err)
		} else if ok {
			return mode
		}
	}
	return ModeFor(c.scheme.PrefersDark())
}

// Apply sets the document marker and, when a toggle control is attached,
// its pressed state and label. Idempotent; never fails.
func (c *Controller) Apply(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(mode)
}

func (c *Controller) apply(mode Mode) {
	c.doc.SetDark(mode.IsDark())
	if c.control != nil {
		c.control.SetPressed(mode.IsDark())
		if mode.IsDark() {
			c.control.SetLabel(LabelSwitchToLight)
		} else {
			c.control.SetLabel(LabelSwitchToDark)
		}
	}
	c.logger.Debug("applied theme", "mode", mode)
}

// Toggle flips the effective theme. It reads the document marker rather
// than re-resolving: the marker is the visible ground truth the user is
// reacting to. The new value is persisted (best effort) and applied. This
// is the only operation that writes the store.
func (c *Controller) Toggle() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := ModeFor(c.doc.Dark()).Opposite()
	if c.store != nil {
		if err := c.store.Save(next); err != nil {
			c.logger.Warn("theme preference not persisted", "mode", next, "error", err)
		}
	}
	c.apply(next)
	return next
}

// Initialize applies the resolved theme. It runs eagerly, before any
// content is served or rendered, so the first observable document state is
// already correct. Calling Apply again later with the same resolved mode
// (for example once a toggle control exists) is expected and harmless.
func (c *Controller) Initialize() {
	c.Apply(c.Resolve())
}

// AttachControl registers the toggle control and re-applies the current
// effective theme so the control's pressed state and label are in sync
// from the moment it appears. Passing nil detaches.
func (c *Controller) AttachControl(ctl ToggleControl) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.control = ctl
	if ctl != nil {
		c.apply(ModeFor(c.doc.Dark()))
	}
}

// HandleSystemChange reacts to a live system scheme change. It applies the
// new system value only when no explicit preference is stored; an explicit
// user choice always overrides live system changes.
func (c *Controller) HandleSystemChange(prefersDark bool) {
	if c.store != nil {
		if _, ok, err := c.store.Load(); err == nil && ok {
			c.logger.Debug("ignoring system scheme change, explicit preference set", "prefers_dark", prefersDark)
			return
		}
	}
	c.logger.Debug("system scheme changed", "prefers_dark", prefersDark)
	c.Apply(ModeFor(prefersDark))
}

// Effective returns the theme currently reflected by the document marker.
func (c *Controller) Effective() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ModeFor(c.doc.Dark())
}
