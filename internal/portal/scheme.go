// Package portal reads the desktop's color scheme preference and watches it
// for live changes via the XDG desktop portal.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	settingsIface   = "org.freedesktop.portal.Settings"
	appearanceNS    = "org.freedesktop.appearance"
	colorSchemeKey  = "color-scheme"
	settingChanged  = settingsIface + ".SettingChanged"
	signalChanDepth = 16
)

// Portal color-scheme values per the settings portal spec.
const (
	schemeNoPreference uint32 = 0
	schemeDark         uint32 = 1
	schemeLight        uint32 = 2
)

// Scheme implements theme.SystemScheme over the session bus. The portal's
// "no preference" answer maps to light, matching the document marker's
// canonical default.
type Scheme struct {
	mu     sync.Mutex
	conn   *dbus.Conn
	logger *slog.Logger

	prefersDark bool
}

// Connect opens a session bus connection and reads the current scheme.
// It fails when no session bus is reachable or the settings portal is not
// available; callers then fall back to Detect.
func Connect(logger *slog.Logger) (*Scheme, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	s := &Scheme{conn: conn, logger: logger}
	dark, err := s.read()
	if err != nil {
		conn.Close()
		return nil, err
	}
	s.prefersDark = dark

	logger.Debug("settings portal connected", "prefers_dark", dark)
	return s, nil
}

// PrefersDark reports the last observed portal value.
func (s *Scheme) PrefersDark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefersDark
}

// read queries the portal. ReadOne is the current method; older portal
// versions only expose Read, which wraps the value in an extra variant.
func (s *Scheme) read() (bool, error) {
	obj := s.conn.Object(portalDest, portalPath)

	var value dbus.Variant
	err := obj.Call(settingsIface+".ReadOne", 0, appearanceNS, colorSchemeKey).Store(&value)
	if err != nil {
		var wrapped dbus.Variant
		if err2 := obj.Call(settingsIface+".Read", 0, appearanceNS, colorSchemeKey).Store(&wrapped); err2 != nil {
			return false, fmt.Errorf("read color-scheme setting: %w", err)
		}
		inner, ok := wrapped.Value().(dbus.Variant)
		if !ok {
			return false, fmt.Errorf("unexpected Read result type %T", wrapped.Value())
		}
		value = inner
	}

	return decodeColorScheme(value), nil
}

// decodeColorScheme maps a portal variant onto prefers-dark. Anything that
// is not an explicit dark preference counts as light.
func decodeColorScheme(v dbus.Variant) bool {
	switch val := v.Value().(type) {
	case uint32:
		return val == schemeDark
	case int32:
		return uint32(val) == schemeDark
	default:
		return false
	}
}

// Subscribe delivers every color-scheme change to fn until the context is
// canceled. Callbacks run serially from a single goroutine.
func (s *Scheme) Subscribe(ctx context.Context, fn func(prefersDark bool)) error {
	if err := s.conn.AddMatchSignal(
		dbus.WithMatchInterface(settingsIface),
		dbus.WithMatchMember("SettingChanged"),
		dbus.WithMatchObjectPath(portalPath),
	); err != nil {
		return fmt.Errorf("add signal match: %w", err)
	}

	ch := make(chan *dbus.Signal, signalChanDepth)
	s.conn.Signal(ch)

	go func() {
		defer s.conn.RemoveSignal(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-ch:
				if !ok {
					return
				}
				if sig.Name != settingChanged || len(sig.Body) < 3 {
					continue
				}
				ns, _ := sig.Body[0].(string)
				key, _ := sig.Body[1].(string)
				if ns != appearanceNS || key != colorSchemeKey {
					continue
				}
				value, ok := sig.Body[2].(dbus.Variant)
				if !ok {
					continue
				}

				dark := decodeColorScheme(value)
				s.mu.Lock()
				changed := dark != s.prefersDark
				s.prefersDark = dark
				s.mu.Unlock()

				if changed {
					s.logger.Debug("color scheme changed", "prefers_dark", dark)
					fn(dark)
				}
			}
		}
	}()

	return nil
}

// Close releases the bus connection.
func (s *Scheme) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
