package region

import (
	"slices"
	"sync"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/errors"
)

// Manager owns the standard regions plus any custom regions registered for a
// document, for one aspect ratio. It is safe for concurrent use.
type Manager struct {
	ratio  aspect.Ratio
	canvas aspect.Size

	mu     sync.RWMutex
	custom map[Name]Rect
	order  []Name
}

// NewManager returns a manager for the given aspect ratio. Only the standard
// regions are registered.
func NewManager(ratio aspect.Ratio) (*Manager, error) {
	size, err := aspect.Dimensions(ratio)
	if err != nil {
		return nil, err
	}
	return &Manager{
		ratio:  ratio,
		canvas: size,
		custom: make(map[Name]Rect),
	}, nil
}

// NewCanvasManager returns a manager whose pixel geometry follows an explicit
// canvas size rather than the ratio's standard dimensions.
func NewCanvasManager(ratio aspect.Ratio, canvas aspect.Size) (*Manager, error) {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas size %d×%d must be positive", canvas.Width, canvas.Height)
	}
	m, err := NewManager(ratio)
	if err != nil {
		return nil, err
	}
	m.canvas = canvas
	return m, nil
}

// Ratio returns the aspect ratio the manager was built for.
func (m *Manager) Ratio() aspect.Ratio { return m.ratio }

// Canvas returns the pixel size of the manager's canvas.
func (m *Manager) Canvas() aspect.Size { return m.canvas }

// HasRegion reports whether name is a standard or registered custom region.
func (m *Manager) HasRegion(name string) bool {
	_, ok := m.lookup(name)
	return ok
}

// Bounds returns the normalized bounds of a region.
func (m *Manager) Bounds(name string) (Rect, error) {
	r, ok := m.lookup(name)
	if !ok {
		return Rect{}, errors.New(errors.ErrCodeRegionNotFound, "region %q not found", name)
	}
	return r, nil
}

// PixelBounds returns the bounds of a region scaled to the canvas.
func (m *Manager) PixelBounds(name string) (Rect, error) {
	r, err := m.Bounds(name)
	if err != nil {
		return Rect{}, err
	}
	return r.Scale(float64(m.canvas.Width), float64(m.canvas.Height)), nil
}

func (m *Manager) lookup(name string) (Rect, bool) {
	if r, ok := standard[name]; ok {
		return r, true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.custom[Name(name)]
	return r, ok
}

// AddCustomRegion registers a custom region. It fails without modifying the
// registry when the name is malformed, shadows a standard region, is already
// registered, or when the bounds do not fit in the unit canvas.
func (m *Manager) AddCustomRegion(name string, bounds Rect) error {
	n, err := ParseName(name)
	if err != nil {
		return err
	}
	if IsStandard(name) {
		return errors.New(errors.ErrCodeRegionConflict, "region %q conflicts with a standard region", name)
	}
	if err := bounds.CheckNormalized(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRegion, err, "region %q", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.custom[n]; exists {
		return errors.New(errors.ErrCodeRegionConflict, "region %q is already registered", name)
	}
	m.custom[n] = bounds
	m.order = append(m.order, n)
	return nil
}

// CustomRegions returns the names of registered custom regions in
// registration order.
func (m *Manager) CustomRegions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	for i, n := range m.order {
		out[i] = string(n)
	}
	return out
}

// Names returns every known region: the sorted standard names followed by
// custom regions in registration order.
func (m *Manager) Names() []string {
	return append(StandardNames(), m.CustomRegions()...)
}

// Clone returns an independent copy of the manager. Custom regions added to
// the clone are not visible in m.
func (m *Manager) Clone() *Manager {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := &Manager{
		ratio:  m.ratio,
		canvas: m.canvas,
		custom: make(map[Name]Rect, len(m.custom)),
		order:  slices.Clone(m.order),
	}
	for k, v := range m.custom {
		c.custom[k] = v
	}
	return c
}
