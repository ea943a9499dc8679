package editor

import "math"

const (
	// DefaultZoomFactor converts wheel steps to zoom change.
	DefaultZoomFactor = 0.005
	minZoom           = 0.1
	frameFill         = 0.8
)

// Vec2 is a point or offset in preview space.
type Vec2 struct {
	X, Y float64
}

// Bounds is an axis-aligned box in preview space.
type Bounds struct {
	Min, Max Vec2
}

func (b Bounds) Size() Vec2 {
	return Vec2{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y}
}

func (b Bounds) Center() Vec2 {
	return Vec2{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Camera is the preview's pan offset and zoom.
type Camera struct {
	Position   Vec2
	Zoom       float64
	ZoomFactor float64
}

func NewCamera() Camera {
	return Camera{Zoom: 1, ZoomFactor: DefaultZoomFactor}
}

// Pan moves by a screen-space delta. Screen y grows downwards, preview y
// upwards.
func (c *Camera) Pan(dx, dy int) {
	c.Position.X += -float64(dx) / c.Zoom
	c.Position.Y += float64(dy) / c.Zoom
}

// ZoomBy applies wheel delta steps. Above zoom 1 the step is proportional
// to the current zoom; at or below 1 it is additive.
func (c *Camera) ZoomBy(delta int) {
	factor := c.ZoomFactor
	if factor == 0 {
		factor = DefaultZoomFactor
	}
	dz := -float64(delta) * factor
	if c.Zoom > 1 {
		c.Zoom += dz * c.Zoom
	} else {
		c.Zoom += dz
	}
	c.Zoom = math.Max(minZoom, c.Zoom)
}

// Frame centres on b and zooms so b fills 80% of the viewport on its
// tighter axis. It reports false and leaves the camera alone for an empty
// box or viewport.
func (c *Camera) Frame(b Bounds, viewportW, viewportH int) bool {
	size := b.Size()
	if size.X <= 0 || size.Y <= 0 || viewportW <= 0 || viewportH <= 0 {
		return false
	}
	c.Position = b.Center()
	c.Zoom = math.Min(float64(viewportW)*frameFill/size.X, float64(viewportH)*frameFill/size.Y)
	return true
}

// ResetZoom sets zoom to 1 and reports whether it changed.
func (c *Camera) ResetZoom() bool {
	if c.Zoom == 1 {
		return false
	}
	c.Zoom = 1
	return true
}
