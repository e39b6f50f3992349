package lighting

import (
	"errors"
	"slices"
)

// MaxLights is the size of the uLights array in the shader.
const MaxLights = 8

var (
	// ErrCapacity is returned by Add when MaxLights lights are already held.
	ErrCapacity = errors.New("light manager is full")
	// ErrUnknownLight is returned for a handle the manager does not hold.
	ErrUnknownLight = errors.New("unknown light handle")
	// ErrNilLight is returned when a nil light is added.
	ErrNilLight = errors.New("nil light")
)

// Handle identifies a light inside a Manager. Handles stay valid across
// removal of other lights; slot indices do not.
type Handle uint32

type entry struct {
	handle Handle
	light  *Light
}

// Manager owns an ordered set of at most MaxLights lights. A light's slot in
// the shader array is its position in insertion order.
type Manager struct {
	entries []entry
	next    Handle
	limit   int
}

// NewManager creates an empty light manager holding up to MaxLights lights.
func NewManager() *Manager {
	return NewManagerWithLimit(MaxLights)
}

// NewManagerWithLimit creates a manager holding at most limit lights.
// limit is clamped to 1..MaxLights.
func NewManagerWithLimit(limit int) *Manager {
	if limit < 1 || limit > MaxLights {
		limit = MaxLights
	}
	return &Manager{
		entries: make([]entry, 0, limit),
		next:    1,
		limit:   limit,
	}
}

// Limit returns the maximum number of lights the manager holds.
func (m *Manager) Limit() int {
	return m.limit
}

// Add appends l. It returns ErrCapacity when the manager is full, leaving the
// set unchanged.
func (m *Manager) Add(l *Light) (Handle, error) {
	if l == nil {
		return 0, ErrNilLight
	}
	if len(m.entries) >= m.limit {
		return 0, ErrCapacity
	}
	h := m.next
	m.next++
	m.entries = append(m.entries, entry{handle: h, light: l})
	return h, nil
}

func (m *Manager) index(h Handle) int {
	return slices.IndexFunc(m.entries, func(e entry) bool { return e.handle == h })
}

// Remove drops the light for h. Later lights move down one slot.
// An unknown handle is ignored.
func (m *Manager) Remove(h Handle) {
	if i := m.index(h); i >= 0 {
		m.entries = slices.Delete(m.entries, i, i+1)
	}
}

// RemoveAt drops the light in slot i. An out-of-range index is ignored.
func (m *Manager) RemoveAt(i int) {
	if i < 0 || i >= len(m.entries) {
		return
	}
	m.entries = slices.Delete(m.entries, i, i+1)
}

// Replace swaps the light for h, keeping its handle and slot.
func (m *Manager) Replace(h Handle, l *Light) error {
	if l == nil {
		return ErrNilLight
	}
	i := m.index(h)
	if i < 0 {
		return ErrUnknownLight
	}
	m.entries[i].light = l
	return nil
}

// Clear removes every light.
func (m *Manager) Clear() {
	m.entries = m.entries[:0]
}

// Get returns the light for h.
func (m *Manager) Get(h Handle) (*Light, bool) {
	i := m.index(h)
	if i < 0 {
		return nil, false
	}
	return m.entries[i].light, true
}

// Slot returns the current slot index for h, or -1.
func (m *Manager) Slot(h Handle) int {
	return m.index(h)
}

// At returns the light in slot i, or nil when i is out of range.
func (m *Manager) At(i int) *Light {
	if i < 0 || i >= len(m.entries) {
		return nil
	}
	return m.entries[i].light
}

// HandleAt returns the handle in slot i.
func (m *Manager) HandleAt(i int) (Handle, bool) {
	if i < 0 || i >= len(m.entries) {
		return 0, false
	}
	return m.entries[i].handle, true
}

// Len returns the number of lights held.
func (m *Manager) Len() int {
	return len(m.entries)
}

// Update advances every light by dt seconds.
func (m *Manager) Update(dt float32) {
	for _, e := range m.entries {
		e.light.Update(dt)
	}
}

// Upload writes uNumLights followed by every light into uLights[i].
// Call it once per frame after light changes and before shaded draws.
func (m *Manager) Upload(sink UniformSink) {
	sink.SetInt(NumLightsUniform, int32(len(m.entries)))
	for i, e := range m.entries {
		Upload(sink, SlotName(i), e.light)
	}
}

// Uniforms returns the exported record of every light in slot order.
func (m *Manager) Uniforms() []Uniform {
	out := make([]Uniform, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.light.Export()
	}
	return out
}
