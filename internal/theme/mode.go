package theme

// Mode is a resolved visual theme. Exactly two values exist; everything
// else read from storage is treated as "no preference".
type Mode string

const (
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode recognizes the two stored literals. Unknown input (including a
// corrupted stored value) returns ok=false rather than an error so callers
// can fall through to the system signal.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeDark:
		return ModeDark, true
	case ModeLight:
		return ModeLight, true
	default:
		return "", false
	}
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// IsDark reports whether the mode is dark.
func (m Mode) IsDark() bool {
	return m == ModeDark
}

// ModeFor maps the system prefers-dark boolean onto a Mode.
func ModeFor(prefersDark bool) Mode {
	if prefersDark {
		return ModeDark
	}
	return ModeLight
}
