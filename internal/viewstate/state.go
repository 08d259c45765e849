// Package viewstate tracks which map layers are visible and whether a
// camera re-fit is pending after a view transition.
package viewstate

import "sync"

// View identifies a map layer tab.
type View string

const (
	ViewSublocations View = "sublocations"
	ViewWaterPoints  View = "waterpoints"
	ViewBoth         View = "both"
)

// ParseView maps a wire string onto a View.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewSublocations, ViewWaterPoints, ViewBoth:
		return View(s), true
	default:
		return "", false
	}
}

// State is a point-in-time description of the view machine.
type State struct {
	// View is the active tab.
	View View `json:"view"`

	// ShowSublocations and ShowWaterPoints are the layer visibilities.
	// Sublocation boundaries stay rendered in every view; in the
	// WaterPoints view they are drawn as unfilled outlines only.
	ShowSublocations bool `json:"show_sublocations"`
	ShowWaterPoints  bool `json:"show_water_points"`

	// OutlineOnly is set when sublocations are drawn as unfilled outlines
	// for spatial reference.
	OutlineOnly bool `json:"outline_only"`

	// TogglesEnabled is set when per-layer show/hide checkboxes apply,
	// which is only the case in the Both view.
	TogglesEnabled bool `json:"toggles_enabled"`

	// PendingFit is set after a transition until the rendering layer
	// reports the camera re-fit applied.
	PendingFit bool `json:"pending_fit"`
}

// Machine is the map view state machine. Transitions are triggered by
// explicit tab selection or by an incoming map instruction.
type Machine struct {
	mu               sync.Mutex
	view             View
	showSublocations bool
	showWaterPoints  bool
	pendingFit       bool
}

// NewMachine creates a machine in the Sublocations view.
func NewMachine() *Machine {
	return &Machine{
		view:             ViewSublocations,
		showSublocations: true,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		View:             m.view,
		ShowSublocations: m.showSublocations,
		ShowWaterPoints:  m.showWaterPoints,
		OutlineOnly:      m.view == ViewWaterPoints,
		TogglesEnabled:   m.view == ViewBoth,
		PendingFit:       m.pendingFit,
	}
}

// View returns the active tab.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Transition switches to the given view and schedules a camera re-fit. The
// fit is not executed synchronously: the rendering layer must finish
// mounting geometry first, then report back via FitApplied.
func (m *Machine) Transition(v View) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.view = v
	switch v {
	case ViewSublocations:
		m.showSublocations = true
		m.showWaterPoints = false
	case ViewWaterPoints, ViewBoth:
		m.showSublocations = true
		m.showWaterPoints = true
	}
	m.pendingFit = true
}

// FitApplied clears the pending camera re-fit.
func (m *Machine) FitApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingFit = false
}

// ToggleSublocations flips sublocation visibility. Independent layer
// toggles only apply in the Both view; elsewhere this is a no-op.
func (m *Machine) ToggleSublocations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.view == ViewBoth {
		m.showSublocations = !m.showSublocations
	}
}

// ToggleWaterPoints flips water point visibility in the Both view.
func (m *Machine) ToggleWaterPoints() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.view == ViewBoth {
		m.showWaterPoints = !m.showWaterPoints
	}
}
