package portal

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Static is a fixed scheme with no change events. It backs test setups and
// the explicit --scheme override, where live system changes are
// intentionally ignored.
type Static struct {
	Dark bool
}

// PrefersDark reports the fixed value.
func (s Static) PrefersDark() bool { return s.Dark }

// Subscribe never delivers events; a static scheme does not change.
func (Static) Subscribe(context.Context, func(bool)) error { return nil }

// Source is a system scheme that also supports change subscription.
type Source interface {
	PrefersDark() bool
	Subscribe(ctx context.Context, fn func(prefersDark bool)) error
}

// Detect returns the best available scheme source: the settings portal when
// reachable, otherwise a static value from environment heuristics. Detection
// never fails; the final fallback is light, the marker's canonical default.
func Detect(logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := Connect(logger)
	if err == nil {
		return s
	}
	logger.Debug("settings portal unavailable, using environment heuristics", "error", err)

	return Static{Dark: detectDarkFromEnvironment()}
}

// detectDarkFromEnvironment checks GTK_THEME, then the GNOME color-scheme
// gsettings key. Heuristic only: used when no portal answers.
func detectDarkFromEnvironment() bool {
	if gtkTheme := os.Getenv("GTK_THEME"); gtkTheme != "" {
		return strings.Contains(strings.ToLower(gtkTheme), "dark")
	}

	out, err := exec.Command("gsettings", "get", "org.gnome.desktop.interface", "color-scheme").Output()
	if err == nil {
		lower := strings.ToLower(string(out))
		if strings.Contains(lower, "dark") {
			return true
		}
		if strings.Contains(lower, "light") {
			return false
		}
	}

	return false
}
