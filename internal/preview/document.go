// Package preview serves the static site locally with the production
// security posture and a live theme controller.
package preview

import (
	"regexp"
	"sync"
)

// DocumentState is the server-side document theme marker. It implements
// theme.Document: the marker is present (attribute set to "dark") for dark
// and absent for light, so a page served with no marker at all reads as
// light.
type DocumentState struct {
	mu        sync.RWMutex
	attribute string
	dark      bool
}

// NewDocumentState creates a marker using the given root attribute name.
func NewDocumentState(attribute string) *DocumentState {
	return &DocumentState{attribute: attribute}
}

// SetDark sets or clears the marker.
func (d *DocumentState) SetDark(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dark = v
}

// Dark reports the marker state.
func (d *DocumentState) Dark() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dark
}

// Attribute returns the marker attribute name.
func (d *DocumentState) Attribute() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.attribute
}

// ControlState is the virtual toggle control the preview exposes over
// /_theme. It implements theme.ToggleControl.
type ControlState struct {
	mu      sync.RWMutex
	pressed bool
	label   string
}

// NewControlState creates an empty control.
func NewControlState() *ControlState {
	return &ControlState{}
}

// SetPressed records the pressed state.
func (c *ControlState) SetPressed(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pressed = v
}

// SetLabel records the control label.
func (c *ControlState) SetLabel(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.label = s
}

// Snapshot returns the current pressed state and label.
func (c *ControlState) Snapshot() (pressed bool, label string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pressed, c.label
}

var htmlOpenRegex = regexp.MustCompile(`(?i)<html(\s[^>]*)?>`)

// InjectMarker rewrites the page's <html> tag so the marker attribute
// matches dark. For light the attribute is removed entirely: absence is the
// canonical light representation, and stylesheets must treat it as such.
func InjectMarker(content, attribute string, dark bool) string {
	loc := htmlOpenRegex.FindStringIndex(content)
	if loc == nil {
		return content
	}

	tag := content[loc[0]:loc[1]]
	attrRegex := regexp.MustCompile(`(?i)\s+` + regexp.QuoteMeta(attribute) + `(="[^"]*"|='[^']*')?`)
	tag = attrRegex.ReplaceAllString(tag, "")
	if dark {
		tag = tag[:len(tag)-1] + ` ` + attribute + `="dark">`
	}

	return content[:loc[0]] + tag + content[loc[1]:]
}
